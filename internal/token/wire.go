package token

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/cetinfurkan/nset/internal/hashcase"
)

// WireSize is the fixed byte length of a packed token record: 32+32+16
// bits of root_id/offset/length, plus one metadata byte that packs
// type(3)+casing(2)+pre_space(1)+pre_break(1)+has_joiner(1), plus a
// second byte that packs depth(3)+absorbed(3, 0..5). The spec only
// requires the *semantics* below to hold, not this exact bit
// assignment, so this layout is private to Pack/Unpack.
const WireSize = 4 + 4 + 2 + 1 + 1

// Pack serializes t into the fixed-width binary wire record.
func Pack(t Token) [WireSize]byte {
	var buf [WireSize]byte
	binary.LittleEndian.PutUint32(buf[0:4], t.RootID)
	binary.LittleEndian.PutUint32(buf[4:8], t.Offset)
	binary.LittleEndian.PutUint16(buf[8:10], t.Length)

	meta := byte(t.Type) & 0x7
	meta |= (byte(t.Casing) & 0x3) << 3
	if t.PreSpace {
		meta |= 1 << 5
	}
	if t.PreBreak {
		meta |= 1 << 6
	}
	if t.HasJoiner {
		meta |= 1 << 7
	}
	buf[10] = meta

	buf[11] = (t.Depth & 0x7) | (byte(t.Absorbed)&0x7)<<3
	return buf
}

// Unpack deserializes a fixed-width binary wire record back into a Token.
func Unpack(buf [WireSize]byte) Token {
	meta := buf[10]
	depthAbsorbed := buf[11]
	return Token{
		RootID:    binary.LittleEndian.Uint32(buf[0:4]),
		Offset:    binary.LittleEndian.Uint32(buf[4:8]),
		Length:    binary.LittleEndian.Uint16(buf[8:10]),
		Type:      Type(meta & 0x7),
		Casing:    hashcase.Casing((meta >> 3) & 0x3),
		PreSpace:  meta&(1<<5) != 0,
		PreBreak:  meta&(1<<6) != 0,
		HasJoiner: meta&(1<<7) != 0,
		Depth:     depthAbsorbed & 0x7,
		Absorbed:  Absorbed((depthAbsorbed >> 3) & 0x7),
	}
}

// WriteBinary writes a stream of tokens in the packed binary format.
func WriteBinary(w io.Writer, tokens []Token) error {
	for _, t := range tokens {
		buf := Pack(t)
		if _, err := w.Write(buf[:]); err != nil {
			return fmt.Errorf("write packed token: %w", err)
		}
	}
	return nil
}

// ReadBinary reads a stream of tokens previously written by WriteBinary.
func ReadBinary(r io.Reader) ([]Token, error) {
	var out []Token
	var buf [WireSize]byte
	for {
		_, err := io.ReadFull(r, buf[:])
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("read packed token: %w", err)
		}
		out = append(out, Unpack(buf))
	}
}

// cborRecord is the self-describing CBOR representation of a Token,
// used for the --emit=cbor output mode. Integer keys keep the encoding
// compact without resurrecting the bit-packed layout.
type cborRecord struct {
	RootID    uint32 `cbor:"1,keyasint"`
	Offset    uint32 `cbor:"2,keyasint"`
	Length    uint16 `cbor:"3,keyasint"`
	Type      uint8  `cbor:"4,keyasint"`
	Casing    uint8  `cbor:"5,keyasint"`
	PreSpace  bool   `cbor:"6,keyasint"`
	PreBreak  bool   `cbor:"7,keyasint"`
	HasJoiner bool   `cbor:"8,keyasint"`
	Depth     uint8  `cbor:"9,keyasint"`
	Absorbed  uint8  `cbor:"10,keyasint"`
}

func toCBORRecord(t Token) cborRecord {
	return cborRecord{
		RootID:    t.RootID,
		Offset:    t.Offset,
		Length:    t.Length,
		Type:      uint8(t.Type),
		Casing:    uint8(t.Casing),
		PreSpace:  t.PreSpace,
		PreBreak:  t.PreBreak,
		HasJoiner: t.HasJoiner,
		Depth:     t.Depth,
		Absorbed:  uint8(t.Absorbed),
	}
}

func (r cborRecord) toToken() Token {
	return Token{
		RootID:    r.RootID,
		Offset:    r.Offset,
		Length:    r.Length,
		Type:      Type(r.Type),
		Casing:    hashcase.Casing(r.Casing),
		PreSpace:  r.PreSpace,
		PreBreak:  r.PreBreak,
		HasJoiner: r.HasJoiner,
		Depth:     r.Depth,
		Absorbed:  Absorbed(r.Absorbed),
	}
}

// WriteCBOR writes tokens as a CBOR array of maps.
func WriteCBOR(w io.Writer, tokens []Token) error {
	records := make([]cborRecord, len(tokens))
	for i, t := range tokens {
		records[i] = toCBORRecord(t)
	}
	enc := cbor.NewEncoder(w)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode cbor tokens: %w", err)
	}
	return nil
}

// ReadCBOR decodes a token stream previously written by WriteCBOR.
func ReadCBOR(r io.Reader) ([]Token, error) {
	var records []cborRecord
	dec := cbor.NewDecoder(r)
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode cbor tokens: %w", err)
	}
	out := make([]Token, len(records))
	for i, rec := range records {
		out[i] = rec.toToken()
	}
	return out, nil
}
