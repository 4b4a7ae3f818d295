// Package segmenter splits a raw identifier span into sub-word
// fragments: the locked vocabulary short-circuits the whole
// identifier, underscores and camelCase transitions are hard
// boundaries, and the bigram entropy model gates additional soft
// boundaries inside runs that survive both. Modeled on the teacher's
// lexer.go byte-at-a-time scanner shape (explicit index cursor, no
// regexp, branch on classified byte), generalized from whole-source
// tokenization to single-identifier fragmentation.
package segmenter

import (
	"github.com/cetinfurkan/nset/internal/bigram"
	"github.com/cetinfurkan/nset/internal/vocab"
)

// Fragment is one sub-word slice of an identifier, given as a byte
// offset/length pair relative to the start of the identifier. Joiner
// reports whether this fragment was immediately followed by the
// underscore that split it from the next fragment (so the caller can
// set Token.HasJoiner on this fragment's token).
type Fragment struct {
	Offset int
	Length int
	Joiner bool
	Locked bool // whole identifier matched the locked vocabulary; casing is forced to Lower
}

// minLeftLen and minRightLen are the fragment-length guards on an
// entropy-driven soft split: a split is only honored if the left side
// is at least minLeftLen bytes (or is itself a locked word) and the
// right side is at least minRightLen bytes. This keeps the entropy
// model from shredding short identifiers into noise.
const (
	minLeftLen  = 4
	minRightLen = 3
)

// surpriseThreshold is the -log2(p) value above which a byte
// transition is treated as a soft split point.
const surpriseThreshold = 5.0

// Split fragments ident according to the locked-word, underscore,
// camelCase, and entropy policies, in that precedence order. locked
// may be nil, in which case the locked-word short-circuit never fires.
func Split(ident []byte, model *bigram.Model, locked *vocab.Set, threshold float32) []Fragment {
	if len(ident) == 0 {
		return nil
	}
	if locked != nil && locked.Contains(ident) {
		return []Fragment{{Offset: 0, Length: len(ident), Locked: true}}
	}
	if threshold == 0 {
		threshold = surpriseThreshold
	}

	var out []Fragment
	start := 0

	emit := func(end int) {
		if end > start {
			out = append(out, Fragment{Offset: start, Length: end - start})
			start = end
		}
	}

	for i := 0; i < len(ident); i++ {
		c := ident[i]

		if c == '_' {
			emit(i)
			// has_joiner belongs to the fragment immediately preceding this
			// underscore (spec §4.5 step 2: "if any token has been emitted
			// for this identifier, set that token's has_joiner bit"). That
			// is whichever fragment was most recently emitted, whether it
			// was just flushed above or — for a run of consecutive
			// underscores, where end == start emits nothing new — an
			// earlier one.
			if len(out) > 0 {
				out[len(out)-1].Joiner = true
			}
			start = i + 1
			continue
		}

		if i > start && isCamelBoundary(ident, i) {
			emit(i)
			continue
		}

		if model != nil && i > start {
			s := model.Surprise(ident[i-1], ident[i])
			if float32(s) > threshold && entropyGuardPasses(ident, start, i, locked) {
				emit(i)
			}
		}
	}
	emit(len(ident))
	return out
}

// isCamelBoundary reports whether position i in ident begins a new
// camelCase word: a lowercase-then-uppercase transition, or the last
// uppercase letter of an acronym run followed by a lowercase letter
// (e.g. "HTTPServer" splits before "Server", not before the final "P").
func isCamelBoundary(ident []byte, i int) bool {
	prev := ident[i-1]
	cur := ident[i]
	if isLower(prev) && isUpper(cur) {
		return true
	}
	if isUpper(prev) && isUpper(cur) && i+1 < len(ident) && isLower(ident[i+1]) {
		return true
	}
	return false
}

func isLower(b byte) bool { return b >= 'a' && b <= 'z' }
func isUpper(b byte) bool { return b >= 'A' && b <= 'Z' }

// entropyGuardPasses enforces the minimum-fragment-length rule: the
// candidate left fragment [start, i) must be at least minLeftLen bytes
// or itself a locked word, and the remaining right side starting at i
// must be at least minRightLen bytes. The right side is measured to the
// end of the identifier; later hard boundaries are not taken into
// account.
func entropyGuardPasses(ident []byte, start, i int, locked *vocab.Set) bool {
	left := ident[start:i]
	if len(left) < minLeftLen {
		if locked == nil || !locked.Contains(left) {
			return false
		}
	}
	return len(ident)-i >= minRightLen
}
