// Package registry implements the persistent vocabulary registry: an
// in-memory open-addressed set of identifier hashes backed by an
// append-only binary log. The log format (u32 id, u8 len, len bytes,
// no header/version/checksum) mirrors the teacher pack's binary-cache
// style (wazero's engine_cache.go writes/reads raw little-endian
// fields directly against a file handle with no envelope), generalized
// from a compiled-function cache to a vocabulary log.
package registry

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/cetinfurkan/nset/internal/hashcase"
)

// slotCount is the fixed size of the open-addressed table. Chosen large
// enough that real-world identifier counts stay well under the load
// factor where linear probing degrades.
const slotCount = 4194304

// maxWordLen bounds the length byte written to the log; longer entries
// are truncated to this length for storage only (the id is hashed from
// the full word).
const maxWordLen = 255

// Registry is the in-memory hash set plus the log file it mirrors.
// Slot 0 is the sentinel "empty" value; id 0 (the hash that happens to
// collide with the sentinel) is therefore never stored, an
// astronomically rare and harmless exclusion documented as an accepted
// edge case rather than special-cased away.
type Registry struct {
	slots []uint32
	count int
	log   *os.File
}

// Open loads path into memory if it exists (a short/truncated final
// record is treated as a clean EOF, matching an interrupted-write
// recovery posture rather than a hard failure) and opens it in append
// mode for subsequent Register calls. A missing file yields an empty,
// ready-to-use Registry; Open creates the (empty) file itself.
func Open(path string) (*Registry, error) {
	r := &Registry{slots: make([]uint32, slotCount)}

	if f, err := os.Open(path); err == nil {
		defer f.Close()
		if err := r.load(f); err != nil {
			return nil, fmt.Errorf("load vocabulary log %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("open vocabulary log %s: %w", path, err)
	}

	log, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open vocabulary log %s for append: %w", path, err)
	}
	r.log = log
	return r, nil
}

func (r *Registry) load(f *os.File) error {
	br := bufio.NewReader(f)
	var header [5]byte
	for {
		n, err := io.ReadFull(br, header[:])
		if err == io.EOF || (err == io.ErrUnexpectedEOF && n == 0) {
			return nil
		}
		if err == io.ErrUnexpectedEOF {
			return nil // short trailing record: treat as clean EOF
		}
		if err != nil {
			return err
		}

		id := binary.LittleEndian.Uint32(header[0:4])
		length := int(header[4])
		word := make([]byte, length)
		if _, err := io.ReadFull(br, word); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil
			}
			return err
		}
		r.insert(id)
	}
}

// insert places id into the open-addressed table via linear probing,
// no-op if already present. Never called with id == 0.
func (r *Registry) insert(id uint32) bool {
	if id == 0 {
		return false
	}
	idx := int(id) % slotCount
	for i := 0; i < slotCount; i++ {
		slot := r.slots[idx]
		if slot == id {
			return false
		}
		if slot == 0 {
			r.slots[idx] = id
			r.count++
			return true
		}
		idx = (idx + 1) % slotCount
	}
	return false // table full; astronomically unlikely at this size
}

// Contains reports whether id is already registered.
func (r *Registry) Contains(id uint32) bool {
	if id == 0 {
		return false
	}
	idx := int(id) % slotCount
	for i := 0; i < slotCount; i++ {
		slot := r.slots[idx]
		if slot == id {
			return true
		}
		if slot == 0 {
			return false
		}
		idx = (idx + 1) % slotCount
	}
	return false
}

// Register computes word's stable hash over the full, untruncated span
// — matching the root_id the caller already computed for its own token
// — and, if not already present, inserts it into the in-memory set and
// appends it to the log. Only the persisted length/bytes are clamped to
// maxWordLen (spec.md §4.4: "Lengths are clamped to 255"); the hash
// input is never truncated, so a registered id always equals the id its
// originating token carries. It is a no-op (not an error) if the hash
// is already registered.
func (r *Registry) Register(word []byte) (id uint32, err error) {
	id = hashcase.Hash(word)
	if id == 0 || r.Contains(id) {
		return id, nil
	}
	r.insert(id)

	stored := word
	if len(stored) > maxWordLen {
		stored = stored[:maxWordLen]
	}

	var header [5]byte
	binary.LittleEndian.PutUint32(header[0:4], id)
	header[4] = byte(len(stored))
	if _, err := r.log.Write(header[:]); err != nil {
		return id, fmt.Errorf("append vocabulary record: %w", err)
	}
	if _, err := r.log.Write(stored); err != nil {
		return id, fmt.Errorf("append vocabulary record: %w", err)
	}
	return id, nil
}

// Count returns the number of distinct hashes currently registered.
func (r *Registry) Count() int { return r.count }

// Close flushes and closes the underlying log file.
func (r *Registry) Close() error {
	if r.log == nil {
		return nil
	}
	return r.log.Close()
}
