package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"lameta/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var follow bool
	var lines int
	var exportID string

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent lines from lameta.log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if lines < 0 {
				return fmt.Errorf("--lines must be zero or positive, got %d", lines)
			}
			path := filepath.Join(cfg.Paths.LogDir, "lameta.log")
			match := logs.MatchExport(exportID)

			out := cmd.OutOrStdout()
			recent, offset, err := logs.Last(path, lines, match)
			if err != nil {
				return err
			}
			for _, line := range recent {
				fmt.Fprintln(out, line)
			}
			if !follow {
				return nil
			}
			return logs.Follow(cmd.Context(), path, offset, 0, match, func(line string) {
				fmt.Fprintln(out, line)
			})
		},
	}
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Follow log output")
	cmd.Flags().IntVarP(&lines, "lines", "n", 20, "Number of lines to show (0 for none before following)")
	cmd.Flags().StringVar(&exportID, "export", "", "Only show lines for this export ID (a prefix is enough)")
	return cmd
}
