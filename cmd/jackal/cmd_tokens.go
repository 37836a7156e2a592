package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/jackal/format"
	"github.com/dhamidi/jackal/jack/grammar"
	"github.com/dhamidi/jackal/jack/parser"
)

func newTokensCmd() *cobra.Command {
	var indent string
	var check bool

	cmd := &cobra.Command{
		Use:   "tokens <file.jack | ->",
		Short: "Print the token listing of a Jack file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			tokens, err := parser.NewLexer(data, args[0]).Tokenize()
			if err != nil {
				return err
			}

			if check {
				g, err := grammar.Default()
				if err != nil {
					return err
				}
				if err := grammar.NewMatcher(g).CheckTokens(tokens); err != nil {
					return err
				}
			}

			return format.NewTokenEncoder(cmd.OutOrStdout(), indent).Encode(tokens)
		},
	}

	cmd.Flags().StringVar(&indent, "indent", "\t", "indentation of each token element")
	cmd.Flags().BoolVar(&check, "check", false, "verify every token against the grammar's lexical productions")

	return cmd
}
