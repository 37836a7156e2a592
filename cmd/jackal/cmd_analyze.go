package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jackal/format"
	"github.com/dhamidi/jackal/project"
)

// analyzeFlags override the [output] section of the configuration.
type analyzeFlags struct {
	format    string
	extension string
	tokens    bool
}

func (f *analyzeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "format", "f", "xml", "output format (xml, json, yaml, tree)")
	cmd.Flags().StringVar(&f.extension, "ext", "", "output file extension (default depends on the format)")
	cmd.Flags().BoolVar(&f.tokens, "tokens", false, "also write the token listing <name>T.xml")
}

func (f *analyzeFlags) apply(cmd *cobra.Command, cfg *project.Config) error {
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Output.Format = f.format
		if !flags.Changed("ext") {
			cfg.Output.Extension = format.Extension(f.format)
		}
	}
	if flags.Changed("ext") {
		cfg.Output.Extension = f.extension
	}
	if flags.Changed("tokens") {
		cfg.Output.Tokens = f.tokens
	}
	return cfg.Validate()
}

func newAnalyzeCmd(opts *globalOptions) *cobra.Command {
	var af analyzeFlags

	cmd := &cobra.Command{
		Use:   "analyze <file.jack | directory>",
		Short: "Parse Jack sources and write their parse trees",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, opts, &af, args[0])
		},
	}
	af.register(cmd)

	return cmd
}

func runAnalyze(cmd *cobra.Command, opts *globalOptions, af *analyzeFlags, target string) error {
	cfg, err := opts.loadConfig(target)
	if err != nil {
		return err
	}
	if err := af.apply(cmd, cfg); err != nil {
		return err
	}

	p, err := project.Load(target, cfg)
	if err != nil {
		return err
	}
	if len(p.Sources) == 0 {
		log.Warningf("no %s files in %s", project.SourceExt, target)
		return nil
	}

	results := p.Analyze()
	for _, r := range results {
		if r.Err == nil {
			fmt.Fprintln(cmd.OutOrStdout(), r.Output)
		}
	}
	return project.Errors(results)
}
