package main

import (
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/spf13/cobra"
	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/jackal/jack/grammar"
)

func newGrammarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Inspect the Jack grammar",
	}

	cmd.AddCommand(newGrammarCheckCmd())
	cmd.AddCommand(newGrammarPrintCmd())

	return cmd
}

func newGrammarCheckCmd() *cobra.Command {
	var startProduction string

	cmd := &cobra.Command{
		Use:   "check [file.ebnf]",
		Short: "Parse and verify the built-in grammar or an EBNF file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				g, err := grammar.Load()
				if err != nil {
					printErrors(cmd.ErrOrStderr(), err)
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d productions, start %s\n", grammar.File, len(g), grammar.Start)
				return nil
			}

			filename := args[0]
			f, err := os.Open(filename)
			if err != nil {
				return fmt.Errorf("open file: %w", err)
			}
			defer f.Close()

			g, err := ebnf.Parse(filename, f)
			if err != nil {
				printErrors(cmd.ErrOrStderr(), err)
				return err
			}
			if err := ebnf.Verify(g, startProduction); err != nil {
				printErrors(cmd.ErrOrStderr(), err)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d productions, start %s\n", filename, len(g), startProduction)
			return nil
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", grammar.Start, "start production for verification")

	return cmd
}

func newGrammarPrintCmd() *cobra.Command {
	var productions bool

	cmd := &cobra.Command{
		Use:   "print",
		Short: "Print the built-in grammar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !productions {
				fmt.Fprint(cmd.OutOrStdout(), grammar.Source())
				return nil
			}

			g, err := grammar.Default()
			if err != nil {
				return err
			}
			for _, name := range grammar.Names(g) {
				role := "inline"
				switch {
				case grammar.IsLexical(name):
					role = "lexical"
				case !grammar.IsInline(name):
					kind, _ := grammar.NodeKind(name)
					role = kind.String()
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", name, role)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&productions, "productions", false, "list productions and the node each one builds")

	return cmd
}

// printErrors prints each error of an ebnf error list on its own line.
func printErrors(w io.Writer, err error) {
	v := reflect.ValueOf(err)
	if v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			fmt.Fprintln(w, v.Index(i).Interface())
		}
	} else {
		fmt.Fprintln(w, err)
	}
}
