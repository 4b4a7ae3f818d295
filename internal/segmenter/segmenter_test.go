package segmenter

import (
	"testing"

	"github.com/cetinfurkan/nset/internal/bigram"
	"github.com/cetinfurkan/nset/internal/vocab"
)

func joined(ident []byte, frags []Fragment) []string {
	out := make([]string, len(frags))
	for i, f := range frags {
		out[i] = string(ident[f.Offset : f.Offset+f.Length])
	}
	return out
}

func TestSplitLockedWordShortCircuits(t *testing.T) {
	locked := vocab.New()
	frags := Split([]byte("parser"), nil, locked, 0)
	if len(frags) != 1 {
		t.Fatalf("expected locked word to produce exactly one fragment, got %v", joined([]byte("parser"), frags))
	}
}

func TestSplitUnderscoreHardBoundary(t *testing.T) {
	ident := []byte("foo_bar")
	frags := Split(ident, nil, nil, 0)
	got := joined(ident, frags)
	want := []string{"foo", "bar"}
	if !equalStrings(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if len(frags) != 2 || !frags[0].Joiner || frags[1].Joiner {
		t.Fatalf("expected the fragment preceding the underscore to carry Joiner=true and the trailing fragment Joiner=false, got %+v", frags)
	}
}

func TestSplitUnderscoreJoinerMatchesWorkedExample(t *testing.T) {
	// spec §8 scenario 3: my_var_name -> my(has_joiner=1), var(has_joiner=1), name(has_joiner=0).
	ident := []byte("my_var_name")
	frags := Split(ident, nil, nil, 0)
	got := joined(ident, frags)
	want := []string{"my", "var", "name"}
	if !equalStrings(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	wantJoiner := []bool{true, true, false}
	for i, f := range frags {
		if f.Joiner != wantJoiner[i] {
			t.Fatalf("fragment %d (%q): Joiner = %v, want %v", i, got[i], f.Joiner, wantJoiner[i])
		}
	}
}

func TestSplitCamelCaseHardBoundary(t *testing.T) {
	ident := []byte("fooBarBaz")
	frags := Split(ident, nil, nil, 0)
	got := joined(ident, frags)
	want := []string{"foo", "Bar", "Baz"}
	if !equalStrings(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSplitAcronymCamelBoundary(t *testing.T) {
	ident := []byte("HTTPServer")
	frags := Split(ident, nil, nil, 0)
	got := joined(ident, frags)
	want := []string{"HTTP", "Server"}
	if !equalStrings(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSplitCoversWholeIdentifier(t *testing.T) {
	ident := []byte("some_longIdentifierHere")
	frags := Split(ident, nil, nil, 0)
	// Underscores are hard boundaries and never belong to a fragment, so
	// the expected next offset steps over them.
	total := 0
	for i, f := range frags {
		for total < len(ident) && ident[total] == '_' {
			total++
		}
		if f.Offset != total {
			t.Fatalf("fragment %d starts at %d, expected contiguous offset %d", i, f.Offset, total)
		}
		total += f.Length
	}
	if total != len(ident) {
		t.Fatalf("fragments cover %d bytes, want %d (full identifier)", total, len(ident))
	}
}

func TestSplitEntropyGuardRejectsShortFragments(t *testing.T) {
	m := bigram.New()
	// Build up evidence for byte 'a' via a well-worn transition so
	// totals['a'] clears the evidence floor, while leaving a->b
	// untrained: that makes Surprise('a','b') high (rare transition,
	// sufficient evidence), which is the scenario the length guard
	// exists to suppress on a too-short identifier.
	for i := 0; i < 50; i++ {
		m.Train([]byte("ac"))
	}
	ident := []byte("ab") // too short on both sides for any soft split
	frags := Split(ident, m, nil, 1.0)
	if len(frags) != 1 {
		t.Fatalf("expected short identifier to stay whole under the length guard, got %v", joined(ident, frags))
	}
}

func TestSplitEntropyGuardAllowsLongEnoughFragments(t *testing.T) {
	m := bigram.New()
	// Give 'z' plenty of evidence via a frequent z->x transition while
	// leaving z->a untrained, so the z->a transition inside ident below
	// carries high surprise (rare pair, sufficient evidence for 'z').
	for i := 0; i < 50; i++ {
		m.Train([]byte("zx"))
	}
	ident := []byte("foozabcde") // left="fooz" (4, meets minLeftLen), right="abcde" (5, meets minRightLen)
	frags := Split(ident, m, nil, 1.0)
	if len(frags) < 2 {
		t.Fatalf("expected a soft split once both fragment-length guards are satisfied, got %v", joined(ident, frags))
	}
}

func TestSplitEmptyIdentifier(t *testing.T) {
	if frags := Split(nil, nil, nil, 0); frags != nil {
		t.Fatalf("expected nil fragments for empty identifier, got %v", frags)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
