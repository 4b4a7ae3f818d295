// Package tokenizer wires the pipeline together behind one
// explicit-ownership value: a Tokenizer owns its bigram model and
// vocabulary registry rather than reaching for package-level
// singletons, per the spec's own design guidance against hidden
// global state.
package tokenizer

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tsgo "github.com/tree-sitter/tree-sitter-go"

	"github.com/cetinfurkan/nset/internal/arena"
	"github.com/cetinfurkan/nset/internal/bigram"
	"github.com/cetinfurkan/nset/internal/config"
	"github.com/cetinfurkan/nset/internal/cstwalk"
	"github.com/cetinfurkan/nset/internal/registry"
	"github.com/cetinfurkan/nset/internal/srcbuf"
	"github.com/cetinfurkan/nset/internal/token"
	"github.com/cetinfurkan/nset/internal/vocab"
)

// pretrainPasses is the number of passes the bigram model is seeded
// with over seedCorpus before the first real file runs.
const pretrainPasses = 20

// Tokenizer holds everything a run needs: the entropy model, the
// persistent vocabulary registry, and the locked-word set. A fresh
// Tokenizer should be constructed per process, not shared across
// concurrent goroutines without external synchronization.
type Tokenizer struct {
	model  *bigram.Model
	reg    *registry.Registry
	locked *vocab.Set
	cfg    config.Config

	parser *sitter.Parser
	lang   *sitter.Language
}

// New constructs a Tokenizer from cfg, opening the vocabulary registry
// named by cfg.RegistryPath and pre-training the bigram model on
// seedCorpus.
func New(cfg config.Config) (*Tokenizer, error) {
	reg, err := registry.Open(cfg.RegistryPath)
	if err != nil {
		return nil, fmt.Errorf("open vocabulary registry: %w", err)
	}

	locked := vocab.New(cfg.ExtraLockedWords...)
	model := bigram.New()
	model.PreTrain([]byte(seedCorpus), pretrainPasses)

	lang := sitter.NewLanguage(tsgo.Language())
	parser := sitter.NewParser()
	if err := parser.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("set tree-sitter language: %w", err)
	}

	return &Tokenizer{
		model:  model,
		reg:    reg,
		locked: locked,
		cfg:    cfg,
		parser: parser,
		lang:   lang,
	}, nil
}

// seedCorpus is a stand-in training text built from common identifier
// shapes, used only to give the bigram model nonzero evidence before
// any real source has been seen. It is a fixed text, not the locked
// vocabulary Set: it covers only some locked words, and words added
// through cfg.ExtraLockedWords are not part of it.
const seedCorpus = "parser cursor node tree root offset length buffer struct typedef " +
	"register static const volatile size_t uint32_t int8_t memcpy malloc free"

// Result is the output of tokenizing one file.
type Result struct {
	Tokens       []token.Token
	Dropped      int
	RegistryErrs int
	LastRegErr   error
}

// TokenizeFile reads path, parses it, and walks the resulting tree,
// returning the accumulated tokens.
func (t *Tokenizer) TokenizeFile(path string) (Result, error) {
	src, err := srcbuf.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("acquire source %s: %w", path, err)
	}
	defer src.Close()

	return t.TokenizeBytes(src.Bytes())
}

// TokenizeBytes runs the full pipeline over an in-memory source
// buffer: parse, traverse, segment, and accumulate into the arena.
func (t *Tokenizer) TokenizeBytes(src []byte) (Result, error) {
	tree := t.parser.Parse(src, nil)
	if tree == nil {
		return Result{}, fmt.Errorf("parse failed: tree-sitter returned nil tree")
	}
	defer tree.Close()

	// Capacity equals the source length: no token span can exceed one
	// byte per position, so this bound can never be exhausted by a
	// well-formed traversal.
	ar := arena.New(len(src), t.reg)
	cursor := tree.Root().Walk()
	defer cursor.Close()

	dispatcher := &cstwalk.Dispatcher{
		Src:        src,
		Model:      t.model,
		Locked:     t.locked,
		Arena:      ar,
		Threshold:  t.cfg.SurpriseThreshold,
		PreSpaceAt: func(offset uint32) bool { return precededBySpace(src, offset) },
		PreBreakAt: func(offset uint32) bool { return precededByNewline(src, offset) },
	}

	cstwalk.Walk(cstwalk.NewTreeSitterCursor(cursor), dispatcher)

	stats := ar.Stats()
	return Result{
		Tokens:       ar.Tokens(),
		Dropped:      stats.Dropped,
		RegistryErrs: stats.RegistryErrs,
		LastRegErr:   stats.LastRegErr,
	}, nil
}

// Close releases the registry log handle and the tree-sitter parser.
func (t *Tokenizer) Close() error {
	if t.parser != nil {
		t.parser.Close()
	}
	if t.reg == nil {
		return nil
	}
	return t.reg.Close()
}

func precededBySpace(src []byte, offset uint32) bool {
	if offset == 0 || offset > uint32(len(src)) {
		return false
	}
	prev := src[offset-1]
	return prev == ' ' || prev == '\t'
}

func precededByNewline(src []byte, offset uint32) bool {
	if offset == 0 || offset > uint32(len(src)) {
		return false
	}
	return src[offset-1] == '\n'
}
