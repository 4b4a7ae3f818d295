package main

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// vocabEntry is one decoded record from the vocabulary log, used by
// both `vocab search` and `vocab dump`.
type vocabEntry struct {
	ID   uint32 `json:"id" yaml:"id"`
	Word string `json:"word" yaml:"word"`
}

func newVocabCmd(vocabPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Inspect the persistent vocabulary registry",
	}
	cmd.AddCommand(newVocabSearchCmd(vocabPath))
	cmd.AddCommand(newVocabDumpCmd(vocabPath))
	return cmd
}

func newVocabSearchCmd(vocabPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "Fuzzy-search the registered vocabulary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := readVocabLog(*vocabPath)
			if err != nil {
				return err
			}
			words := make([]string, len(entries))
			for i, e := range entries {
				words[i] = e.Word
			}
			matches := fuzzy.RankFindFold(args[0], words)
			for _, m := range matches {
				fmt.Fprintln(cmd.OutOrStdout(), m.Target)
			}
			return nil
		},
	}
}

func newVocabDumpCmd(vocabPath *string) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Dump the full registered vocabulary",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := readVocabLog(*vocabPath)
			if err != nil {
				return err
			}
			switch format {
			case "", "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			case "yaml":
				out, err := yaml.Marshal(entries)
				if err != nil {
					return fmt.Errorf("marshal vocabulary as yaml: %w", err)
				}
				_, err = cmd.OutOrStdout().Write(out)
				return err
			default:
				return fmt.Errorf("unknown --format %q", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or yaml")
	return cmd
}

// readVocabLog reads the raw append-only log directly (rather than
// through the registry's in-memory set) so dump/search can report the
// words themselves, which the in-memory hash set does not retain.
func readVocabLog(path string) ([]vocabEntry, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open vocabulary log %s: %w", path, err)
	}
	defer f.Close()

	var entries []vocabEntry
	br := bufio.NewReader(f)
	var header [5]byte
	for {
		if _, err := io.ReadFull(br, header[:]); err != nil {
			break
		}
		id := binary.LittleEndian.Uint32(header[0:4])
		length := int(header[4])
		word := make([]byte, length)
		if _, err := io.ReadFull(br, word); err != nil {
			break
		}
		entries = append(entries, vocabEntry{ID: id, Word: string(word)})
	}
	return entries, nil
}
