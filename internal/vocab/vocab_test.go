package vocab

import "testing"

func TestContainsBuiltinWords(t *testing.T) {
	s := New()
	for _, w := range []string{"parser", "cursor", "tree", "node", "uint32_t"} {
		if !s.Contains([]byte(w)) {
			t.Errorf("expected %q to be in the locked vocabulary", w)
		}
	}
}

func TestContainsIsCaseInsensitive(t *testing.T) {
	s := New()
	if !s.Contains([]byte("PARSER")) {
		t.Fatal("expected case-insensitive match for PARSER")
	}
	if !s.Contains([]byte("Cursor")) {
		t.Fatal("expected case-insensitive match for Cursor")
	}
}

func TestContainsRejectsUnknownWord(t *testing.T) {
	s := New()
	if s.Contains([]byte("xyzzyfrobnicate")) {
		t.Fatal("expected unknown word to not be locked")
	}
}

func TestContainsRejectsOverlongWord(t *testing.T) {
	s := New()
	long := make([]byte, maxWordLen+1)
	for i := range long {
		long[i] = 'a'
	}
	if s.Contains(long) {
		t.Fatal("expected overlong word to never be locked")
	}
}

func TestNewDeduplicatesExtras(t *testing.T) {
	s := New("parser", "myextraword", "MYEXTRAWORD")
	if !s.Contains([]byte("myextraword")) {
		t.Fatal("expected extra word to be registered")
	}
	// Duplicate (case-insensitive) extras and an already-built-in extra
	// should not blow up or create duplicate entries; Contains is the
	// only externally observable behavior to assert here.
	if !s.Contains([]byte("parser")) {
		t.Fatal("expected builtin word to remain locked after New with overlapping extras")
	}
}

func TestContainsEmptyAlwaysFalse(t *testing.T) {
	s := New()
	if s.Contains(nil) {
		t.Fatal("expected empty input to never be locked")
	}
}
