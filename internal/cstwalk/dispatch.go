package cstwalk

import (
	"strings"

	"github.com/cetinfurkan/nset/internal/arena"
	"github.com/cetinfurkan/nset/internal/bigram"
	"github.com/cetinfurkan/nset/internal/hashcase"
	"github.com/cetinfurkan/nset/internal/segmenter"
	"github.com/cetinfurkan/nset/internal/token"
	"github.com/cetinfurkan/nset/internal/vocab"
)

// blobTypeSubstrings are node-type-name fragments that route a leaf to
// the Blob handling path (whitespace/punctuation-split fragments)
// rather than identifier fragmentation. Matched as substrings because
// grammar authors name string/comment node types inconsistently across
// languages ("string_literal", "comment", "raw_string" ...).
var blobTypeSubstrings = []string{"string", "comment", "char_literal"}

// preprocPrefix identifies preprocessor directive nodes, which are
// treated as Blob spans regardless of their internal structure.
const preprocPrefix = "preproc"

const identifierSubstring = "identifier"

// macroBlobMinLen is the length above which a leaf that is neither an
// identifier nor already string/comment/preproc-classified is still
// routed to the Blob path, provided its whole span isn't a locked word.
const macroBlobMinLen = 32

// Dispatcher is a Visitor that classifies each leaf by its grammar
// type name and feeds it through the segmenter/arena pipeline.
type Dispatcher struct {
	Src    []byte
	Model  *bigram.Model
	Locked *vocab.Set
	Arena  *arena.Arena

	PreSpaceAt func(offset uint32) bool // whitespace immediately before offset
	PreBreakAt func(offset uint32) bool // newline immediately before offset

	Threshold float32
}

// VisitLeaf classifies n and pushes one or more tokens to the arena,
// returning the byte offset to skip through if the arena's symbol
// eater absorbed trailing punctuation.
func (d *Dispatcher) VisitLeaf(n Node, depth uint8) uint32 {
	if n.StartByte >= n.EndByte {
		return 0
	}
	span := d.Src[n.StartByte:n.EndByte]

	switch {
	case strings.HasPrefix(n.Type, preprocPrefix):
		return d.pushBlob(n, depth, span)
	case containsAny(n.Type, blobTypeSubstrings):
		return d.pushBlob(n, depth, span)
	case strings.Contains(n.Type, identifierSubstring):
		return d.pushIdentifier(n, depth, span)
	default:
		if len(span) > macroBlobMinLen && !d.isLocked(span) {
			return d.pushBlob(n, depth, span)
		}
		typ := token.Word
		if isNumeric(span) {
			typ = token.Numeric
		}
		return d.pushSingle(n, depth, typ, span)
	}
}

func (d *Dispatcher) isLocked(span []byte) bool {
	return d.Locked != nil && d.Locked.Contains(span)
}

func (d *Dispatcher) pushSingle(n Node, depth uint8, typ token.Type, span []byte) uint32 {
	t := token.Token{
		Offset:   n.StartByte,
		Length:   clampLen(len(span)),
		Type:     typ,
		Casing:   hashcase.Classify(span),
		Depth:    depth,
		PreSpace: d.preSpace(n.StartByte),
		PreBreak: d.preBreak(n.StartByte),
	}
	return d.Arena.Push(t, d.Src)
}

// pushBlob splits a string/comment/preprocessor/macro-blob span on any
// run of whitespace or punctuation into fragments, pushing each
// fragment as its own type=Blob token. The delimiter runs themselves
// are not emitted as tokens (per spec §4.6); this makes blob-derived
// token spans non-contiguous within the leaf, which is accepted
// because the output is not required to round-trip to the source.
func (d *Dispatcher) pushBlob(n Node, depth uint8, span []byte) uint32 {
	var lastConsumed uint32
	i := 0
	first := true
	for i < len(span) {
		if isBlobDelim(span[i]) {
			i++
			continue
		}
		start := i
		for i < len(span) && !isBlobDelim(span[i]) {
			i++
		}
		fragSpan := span[start:i]
		t := token.Token{
			Offset: n.StartByte + uint32(start),
			Length: clampLen(len(fragSpan)),
			Type:   token.Blob,
			Casing: hashcase.Classify(fragSpan),
			Depth:  depth,
		}
		if first {
			t.PreSpace = d.preSpace(n.StartByte)
			t.PreBreak = d.preBreak(n.StartByte)
			first = false
		}
		lastConsumed = d.Arena.Push(t, d.Src)
	}
	return lastConsumed
}

// isBlobDelim reports whether b is one of the whitespace or ASCII
// punctuation bytes that separate blob fragments.
func isBlobDelim(b byte) bool {
	switch {
	case b == ' ' || b == '\t' || b == '\n' || b == '\r':
		return true
	case b >= '!' && b <= '/':
		return true
	case b >= ':' && b <= '@':
		return true
	case b >= '[' && b <= '`':
		return true
	case b >= '{' && b <= '~':
		return true
	default:
		return false
	}
}

func (d *Dispatcher) pushIdentifier(n Node, depth uint8, span []byte) uint32 {
	// Locked words train the model only after the whole-span token is
	// pushed (§4.5 step 1); everything else trains on the span *before*
	// the left-to-right scan that decides soft splits (§4.5 step 2), so
	// the entropy decision sees this identifier's own bigrams as
	// evidence. segmenter.Split never trains on its own, so the two
	// orders are reproduced here rather than inside Split.
	locked := d.isLocked(span)
	if d.Model != nil && !locked {
		d.Model.Train(span)
	}
	frags := segmenter.Split(span, d.Model, d.Locked, d.Threshold)
	if d.Model != nil && locked {
		d.Model.Train(span)
	}
	var lastConsumed uint32
	for i, f := range frags {
		fragSpan := span[f.Offset : f.Offset+f.Length]
		casing := hashcase.Classify(fragSpan)
		if f.Locked {
			// Locked words are canonicalized: casing is reported as Lower
			// regardless of the span's actual letter case.
			casing = hashcase.Lower
		}
		t := token.Token{
			Offset:    n.StartByte + uint32(f.Offset),
			Length:    clampLen(f.Length),
			Type:      token.Word,
			Casing:    casing,
			Depth:     depth,
			HasJoiner: f.Joiner,
		}
		if i == 0 {
			t.PreSpace = d.preSpace(n.StartByte)
			t.PreBreak = d.preBreak(n.StartByte)
		}
		lastConsumed = d.Arena.Push(t, d.Src)
	}
	return lastConsumed
}

func (d *Dispatcher) preSpace(offset uint32) bool {
	if d.PreSpaceAt == nil {
		return false
	}
	return d.PreSpaceAt(offset)
}

func (d *Dispatcher) preBreak(offset uint32) bool {
	if d.PreBreakAt == nil {
		return false
	}
	return d.PreBreakAt(offset)
}

func clampLen(n int) uint16 {
	if n > 0xFFFF {
		return 0xFFFF
	}
	return uint16(n)
}

func containsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func isNumeric(span []byte) bool {
	return len(span) > 0 && span[0] >= '0' && span[0] <= '9'
}
