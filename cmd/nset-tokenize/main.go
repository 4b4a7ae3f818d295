// Command nset-tokenize is the CLI entry point: lex a source file into
// atomic tokens, maintaining a persistent vocabulary registry across
// runs. Flag handling and the piped-stdin input pattern follow the
// teacher's cli/main.go (PersistentFlags, getInputReader/hasPipedInput,
// RunE returning an error that main converts into an exit code).
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cetinfurkan/nset/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		vocabPath  string
		emit       string
		outPath    string
		configPath string
		watch      bool
		normalize  bool
		verify     bool
	)

	root := &cobra.Command{
		Use:   "nset-tokenize [file]",
		Short: "Tokenize a source file into atomic entropy-guided tokens",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokenize(cmd, args[0], tokenizeOpts{
				vocabPath:  vocabPath,
				emit:       emit,
				outPath:    outPath,
				configPath: configPath,
				watch:      watch,
				normalize:  normalize,
				verify:     verify,
			})
		},
	}

	root.PersistentFlags().StringVar(&vocabPath, "vocab", "nset_vocab.bin", "Path to the persistent vocabulary log")
	root.PersistentFlags().StringVar(&emit, "emit", "binary", "Output encoding: binary or cbor")
	root.PersistentFlags().StringVar(&outPath, "out", "-", "Output path, - for stdout")
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON config file")
	root.PersistentFlags().BoolVar(&watch, "watch", false, "Re-tokenize on file change")
	root.PersistentFlags().BoolVar(&normalize, "normalize-unicode", false, "Apply NFC normalization before tokenizing")
	root.PersistentFlags().BoolVar(&verify, "verify", false, "Verify the vocabulary log's .b2sum sidecar before running")

	root.AddCommand(newVocabCmd(&vocabPath))
	root.AddCommand(newVersionCmd())
	return root
}

// getInputReader mirrors the teacher's stdin/file dispatch: "-" means
// stdin explicitly, otherwise the named file is opened.
func getInputReader(path string) (io.Reader, func() error, error) {
	if path == "-" {
		return os.Stdin, func() error { return nil }, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, f.Close, nil
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}
