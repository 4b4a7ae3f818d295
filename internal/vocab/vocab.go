// Package vocab holds the locked vocabulary: a curated set of
// identifiers that bypass segmentation entirely. Modeled on the
// reserved-word tables in the teacher's parser error package
// (ValidateCommandName's "reserved" slice, ValidateDecoratorName's
// "validDecorators" slice), generalized into a sorted set with a
// bounded-length membership test.
package vocab

import (
	"sort"

	"github.com/cetinfurkan/nset/internal/hashcase"
)

// maxWordLen is the size of the stack buffer the membership test
// case-folds into; identifiers of maxWordLen bytes or more are rejected
// outright (and therefore always segmented, never locked).
const maxWordLen = 64

// base is the built-in locked vocabulary: C keywords, a handful of
// standard-library names, common fixed-width integer typedefs, and a
// curated set of domain nouns that show up constantly in this kind of
// codebase. New sorts it, together with any extra words, for binary
// search.
var base = []string{
	"alignas", "alignof", "argc", "argv",
	"auto", "break",
	"bool", "buf", "buffer", "byte", "bytes",
	"case", "char", "const", "continue",
	"cursor",
	"default", "do", "double",
	"else", "enum", "err", "extern",
	"false", "float", "for", "free",
	"goto",
	"if", "inline", "int", "int16_t", "int32_t", "int64_t", "int8_t",
	"len", "length", "long",
	"malloc", "memcpy", "memset",
	"node",
	"null", "nullptr",
	"offset",
	"parser",
	"ptr",
	"register", "restrict", "return", "root",
	"short", "signed", "size_t", "sizeof", "static", "stderr", "stdin",
	"stdout", "string", "struct", "switch",
	"tree", "true", "typedef",
	"uint16_t", "uint32_t", "uint64_t", "uint8_t", "uintptr_t",
	"union", "unsigned",
	"void", "volatile",
	"while",
}

// Set is a locked vocabulary: a sorted, case-insensitive word list.
// The zero value is not usable; construct with New.
type Set struct {
	words []string
}

// New returns a Set containing the built-in locked vocabulary plus any
// extra words (e.g. from a config file), deduplicated and sorted.
func New(extra ...string) *Set {
	seen := make(map[string]struct{}, len(base)+len(extra))
	words := make([]string, 0, len(base)+len(extra))
	for _, w := range base {
		words = append(words, w)
		seen[w] = struct{}{}
	}
	for _, w := range extra {
		folded := string(hashcase.Fold([]byte(w)))
		if _, ok := seen[folded]; ok || folded == "" {
			continue
		}
		seen[folded] = struct{}{}
		words = append(words, folded)
	}
	sort.Strings(words)
	return &Set{words: words}
}

// Contains reports whether b is in the locked vocabulary, case-folding
// it into a bounded buffer first. Identifiers of length >= maxWordLen
// are rejected (never locked) rather than risking an unbounded
// allocation on the hot path.
func (s *Set) Contains(b []byte) bool {
	if len(b) == 0 || len(b) >= maxWordLen {
		return false
	}
	var stackBuf [maxWordLen]byte
	folded := stackBuf[:len(b)]
	for i, c := range b {
		folded[i] = hashcase.FoldByte(c)
	}
	i := sort.Search(len(s.words), func(i int) bool {
		return s.words[i] >= string(folded)
	})
	return i < len(s.words) && s.words[i] == string(folded)
}
