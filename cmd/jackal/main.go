package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/jackal/project"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

var log = commonlog.GetLogger("jackal.cli")

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	verbose    int
	logFile    string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	var af analyzeFlags

	rootCmd := &cobra.Command{
		Use:           "jackal [file.jack | directory]",
		Short:         "Syntax analyzer for the Jack language",
		Long:          "Parses Jack sources and writes one parse tree per file, next to the source, with the extension replaced.",
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.configureLogging(nil)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runAnalyze(cmd, opts, &af, args[0])
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "configuration file (default: jackal.toml next to the sources)")
	rootCmd.PersistentFlags().CountVarP(&opts.verbose, "verbose", "v", "increase log verbosity (repeatable)")
	rootCmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "write logs to this file instead of stderr")
	af.register(rootCmd)

	rootCmd.AddCommand(newAnalyzeCmd(opts))
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newTokensCmd())
	rootCmd.AddCommand(newGrammarCmd())
	rootCmd.AddCommand(newWatchCmd(opts))
	rootCmd.AddCommand(newLSPCmd())

	return rootCmd
}

// configureLogging applies the flags, falling back to the config file for
// settings the flags leave unset.
func (o *globalOptions) configureLogging(cfg *project.Config) {
	verbosity := o.verbose
	path := o.logFile
	if cfg != nil {
		if verbosity == 0 {
			verbosity = cfg.Log.Verbosity
		}
		if path == "" {
			path = cfg.Log.File
		}
	}
	if path == "" {
		commonlog.Configure(verbosity, nil)
	} else {
		commonlog.Configure(verbosity, &path)
	}
}

// loadConfig reads --config when given, otherwise jackal.toml from the
// directory of target.
func (o *globalOptions) loadConfig(target string) (*project.Config, error) {
	var cfg *project.Config
	var err error
	if o.configPath != "" {
		cfg, err = project.LoadConfig(o.configPath)
	} else {
		dir := target
		if info, statErr := os.Stat(target); statErr == nil && !info.IsDir() {
			dir = filepath.Dir(target)
		}
		cfg, err = project.FindConfig(dir)
	}
	if err != nil {
		return nil, err
	}
	o.configureLogging(cfg)
	return cfg, nil
}
