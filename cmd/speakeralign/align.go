package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kbukum/speakeralign/alignment"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

type alignOptions struct {
	wordsPath string
	turnsPath string
	format    string
}

func newAlignCmd() *cobra.Command {
	opts := alignOptions{}
	cmd := &cobra.Command{
		Use:   "align",
		Short: "Attribute transcribed words to speakers offline",
		Long: `Reads a JSON list of words ({"word","start","end"}) and an optional JSON
list of speaker turns ({"speaker","start","end"}) and prints the speaker
segments. Without turns every word goes to a single UNKNOWN segment.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAlign(cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.wordsPath, "words", "w", "", "words JSON file (- for stdin)")
	cmd.Flags().StringVarP(&opts.turnsPath, "turns", "t", "", "speaker turns JSON file")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatJSON, "output format: json or yaml")
	_ = cmd.MarkFlagRequired("words")
	return cmd
}

func runAlign(out io.Writer, opts alignOptions) error {
	if opts.format != formatJSON && opts.format != formatYAML {
		return fmt.Errorf("unknown format %q (want %s or %s)", opts.format, formatJSON, formatYAML)
	}

	var words []alignment.Word
	if err := readJSON(opts.wordsPath, &words); err != nil {
		return fmt.Errorf("words: %w", err)
	}
	var turns []alignment.SpeakerTurn
	if opts.turnsPath != "" {
		if err := readJSON(opts.turnsPath, &turns); err != nil {
			return fmt.Errorf("turns: %w", err)
		}
	}

	segments := alignment.Align(words, turns)

	if opts.format == formatYAML {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(segments); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(segments)
}

func readJSON(path string, dst any) error {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		r = f
	}
	return json.NewDecoder(r).Decode(dst)
}
