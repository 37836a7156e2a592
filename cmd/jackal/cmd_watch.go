package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jackal/project"
	"github.com/dhamidi/jackal/workspace"
)

func newWatchCmd(opts *globalOptions) *cobra.Command {
	var af analyzeFlags

	cmd := &cobra.Command{
		Use:   "watch [directory]",
		Short: "Re-analyze Jack files in a directory whenever they change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cfg, err := opts.loadConfig(dir)
			if err != nil {
				return err
			}
			if err := af.apply(cmd, cfg); err != nil {
				return err
			}

			w := workspace.NewWatcher(dir, cfg.Watch.Interval.Duration)
			w.OnChange(func(path string) {
				res := project.AnalyzeFile(path, cfg)
				if res.Err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), res.Err)
					return
				}
				fmt.Fprintln(cmd.OutOrStdout(), res.Output)
			})
			w.OnRemove(func(path string) {
				log.Infof("%s removed", path)
			})

			log.Noticef("watching %s every %s", dir, cfg.Watch.Interval)
			return w.Run(cmd.Context())
		},
	}
	af.register(cmd)

	return cmd
}
