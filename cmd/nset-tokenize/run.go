package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/norm"

	"github.com/cetinfurkan/nset/internal/registry"
	"github.com/cetinfurkan/nset/internal/token"
	"github.com/cetinfurkan/nset/internal/tokenizer"
)

type tokenizeOpts struct {
	vocabPath  string
	emit       string
	outPath    string
	configPath string
	watch      bool
	normalize  bool
	verify     bool
}

func runTokenize(cmd *cobra.Command, path string, opts tokenizeOpts) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("vocab") && opts.vocabPath != "" {
		cfg.RegistryPath = opts.vocabPath
	}

	if opts.verify {
		if err := registry.VerifySidecar(cfg.RegistryPath); err != nil {
			return err
		}
	}

	if _, err := os.Stat(cfg.RegistryPath); err == nil {
		fmt.Fprintln(os.Stdout, ">> Loading existing vocabulary into RAM...")
	}

	tok, err := tokenizer.New(cfg)
	if err != nil {
		return err
	}
	defer tok.Close()

	run := func() error {
		return tokenizeOnce(tok, path, opts)
	}

	if !opts.watch {
		if err := run(); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, ">> Tokenization Complete.")
		if err := registry.WriteSidecar(cfg.RegistryPath); err != nil {
			return err
		}
		return nil
	}

	return watchAndRun(path, run)
}

func tokenizeOnce(tok *tokenizer.Tokenizer, path string, opts tokenizeOpts) error {
	reader, closeFunc, err := getInputReader(path)
	if err != nil {
		return err
	}
	defer closeFunc()

	src, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if opts.normalize {
		src = norm.NFC.Bytes(src)
	}

	result, err := tok.TokenizeBytes(src)
	if err != nil {
		return err
	}
	if result.Dropped > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d tokens dropped, arena at capacity\n", result.Dropped)
	}
	if result.RegistryErrs > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d vocabulary registry append failures (last: %v)\n", result.RegistryErrs, result.LastRegErr)
	}

	return writeOutput(opts, result.Tokens)
}

func writeOutput(opts tokenizeOpts, tokens []token.Token) error {
	w := os.Stdout
	if opts.outPath != "-" && opts.outPath != "" {
		f, err := os.Create(opts.outPath)
		if err != nil {
			return fmt.Errorf("create output %s: %w", opts.outPath, err)
		}
		defer f.Close()
		return encodeTokens(f, opts.emit, tokens)
	}
	return encodeTokens(w, opts.emit, tokens)
}

func encodeTokens(w io.Writer, emit string, tokens []token.Token) error {
	switch emit {
	case "", "binary":
		return token.WriteBinary(w, tokens)
	case "cbor":
		return token.WriteCBOR(w, tokens)
	default:
		return fmt.Errorf("unknown --emit encoding %q", emit)
	}
}

func watchAndRun(path string, run func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	if err := run(); err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, ">> Tokenization Complete.")

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := run(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				continue
			}
			fmt.Fprintln(os.Stdout, ">> Tokenization Complete.")
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}
