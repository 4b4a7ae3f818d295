package cstwalk

import (
	"testing"

	"github.com/cetinfurkan/nset/internal/arena"
	"github.com/cetinfurkan/nset/internal/token"
	"github.com/cetinfurkan/nset/internal/vocab"
)

func TestDispatcherSplitsIdentifierIntoWordTokens(t *testing.T) {
	src := []byte("foo_bar")
	a := arena.New(16, nil)
	d := &Dispatcher{
		Src:    src,
		Locked: vocab.New(),
		Arena:  a,
	}
	d.VisitLeaf(Node{StartByte: 0, EndByte: uint32(len(src)), Type: "identifier"}, 0)

	toks := a.Tokens()
	if len(toks) != 2 {
		t.Fatalf("expected 2 word tokens from underscore split, got %d", len(toks))
	}
	if toks[0].Type != token.Word || toks[1].Type != token.Word {
		t.Fatal("expected both fragments to be Word tokens")
	}
	if !toks[0].HasJoiner || toks[1].HasJoiner {
		t.Fatal("expected the fragment preceding the underscore to carry HasJoiner, not the trailing one")
	}
}

func TestDispatcherBlobByTypeSubstring(t *testing.T) {
	src := []byte(`"hello world"`)
	a := arena.New(16, nil)
	d := &Dispatcher{Src: src, Arena: a}
	d.VisitLeaf(Node{StartByte: 0, EndByte: uint32(len(src)), Type: "string_literal"}, 0)

	toks := a.Tokens()
	if len(toks) != 2 {
		t.Fatalf("expected a string_literal node to split into 2 Blob fragments on the quote/space delimiters, got %+v", toks)
	}
	for _, tok := range toks {
		if tok.Type != token.Blob {
			t.Fatalf("expected all blob fragments to be Blob-typed, got %+v", toks)
		}
	}
	got := []string{string(src[toks[0].Offset : toks[0].Offset+uint32(toks[0].Length)]), string(src[toks[1].Offset : toks[1].Offset+uint32(toks[1].Length)])}
	if got[0] != "hello" || got[1] != "world" {
		t.Fatalf("expected fragments [hello world], got %v", got)
	}
}

func TestDispatcherPreprocByPrefix(t *testing.T) {
	src := []byte("#define FOO 42")
	a := arena.New(16, nil)
	d := &Dispatcher{Src: src, Arena: a}
	d.VisitLeaf(Node{StartByte: 0, EndByte: uint32(len(src)), Type: "preproc_def"}, 0)

	toks := a.Tokens()
	if len(toks) != 3 {
		t.Fatalf("expected a preproc node to blob-split into 3 fragments, got %+v", toks)
	}
	for i, tok := range toks {
		if tok.Type != token.Blob {
			t.Fatalf("fragment %d: expected Blob type, got %+v", i, tok)
		}
	}
	want := []string{"define", "FOO", "42"}
	for i, tok := range toks {
		got := string(src[tok.Offset : tok.Offset+uint32(tok.Length)])
		if got != want[i] {
			t.Fatalf("fragment %d: got %q, want %q", i, got, want[i])
		}
	}
}

func TestDispatcherMacroBlobLongLeaf(t *testing.T) {
	src := []byte("superlongmacroblobtextwithoutanypunctuationatallxyz")
	a := arena.New(16, nil)
	d := &Dispatcher{Src: src, Arena: a}
	d.VisitLeaf(Node{StartByte: 0, EndByte: uint32(len(src)), Type: "text"}, 0)

	toks := a.Tokens()
	if len(toks) != 1 || toks[0].Type != token.Blob {
		t.Fatalf("expected a long non-identifier leaf to become a single Blob fragment (no internal punctuation), got %+v", toks)
	}
}

func TestDispatcherNumericLiteral(t *testing.T) {
	src := []byte("42")
	a := arena.New(16, nil)
	d := &Dispatcher{Src: src, Arena: a}
	d.VisitLeaf(Node{StartByte: 0, EndByte: uint32(len(src)), Type: "number_literal"}, 0)

	toks := a.Tokens()
	if len(toks) != 1 || toks[0].Type != token.Numeric {
		t.Fatalf("expected number_literal node to be a Numeric token, got %+v", toks)
	}
}

func TestDispatcherEmptySpanNoOp(t *testing.T) {
	a := arena.New(16, nil)
	d := &Dispatcher{Src: []byte("x"), Arena: a}
	d.VisitLeaf(Node{StartByte: 0, EndByte: 0, Type: "identifier"}, 0)
	if len(a.Tokens()) != 0 {
		t.Fatal("expected zero-length span to push no tokens")
	}
}
