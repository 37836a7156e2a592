package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/jackal/format"
	"github.com/dhamidi/jackal/jack/grammar"
	"github.com/dhamidi/jackal/jack/parser"
)

func newParseCmd() *cobra.Command {
	var outputFormat string
	var includePositions bool
	var check bool

	cmd := &cobra.Command{
		Use:   "parse <file.jack | ->",
		Short: "Parse one Jack file and print its parse tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			data, err := readInput(cmd, filename)
			if err != nil {
				return err
			}

			node, err := parser.Parse(bytes.NewReader(data), parser.WithFile(filename))
			if err != nil {
				return err
			}

			if check {
				g, err := grammar.Default()
				if err != nil {
					return err
				}
				if err := grammar.NewMatcher(g).CheckTree(node); err != nil {
					return fmt.Errorf("grammar check: %w", err)
				}
				if err := recognize(g, data); err != nil {
					return fmt.Errorf("grammar check: %w", err)
				}
			}

			enc, err := format.NewEncoder(outputFormat, cmd.OutOrStdout(), format.Options{Positions: includePositions})
			if err != nil {
				return err
			}
			if err := enc.Encode(node); err != nil {
				return fmt.Errorf("encode %s: %w", outputFormat, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format (xml, json, yaml, tree)")
	cmd.Flags().BoolVar(&includePositions, "positions", false, "include source spans in tree output")
	cmd.Flags().BoolVar(&check, "check", false, "verify the tree and its tokens against the grammar")

	return cmd
}

// recognize runs the grammar-driven recognizer over the source tokens,
// independently of the parser.
func recognize(g ebnf.Grammar, data []byte) error {
	tokens, err := parser.Tokenize(string(data))
	if err != nil {
		return err
	}
	r, err := grammar.NewRecognizer(g, grammar.Start)
	if err != nil {
		return err
	}
	return r.Recognize(tokens)
}

// readInput reads a file, or standard input when name is "-".
func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}
