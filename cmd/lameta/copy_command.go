package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"lameta/internal/config"
	"lameta/internal/copymanager"
)

func newCopyCommand(ctx *commandContext) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "copy <source> <destination>",
		Short: "Copy one file the way exports do, with progress and Ctrl-C cancellation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			src, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			dst, err := config.ExpandPath(args[1])
			if err != nil {
				return err
			}
			if info, err := os.Stat(dst); err == nil && info.IsDir() {
				dst = filepath.Join(dst, filepath.Base(src))
			}

			mgr := copymanager.NewFromConfig(cfg, ctx.log())
			stop := context.AfterFunc(cmd.Context(), func() { mgr.CancelAll() })
			defer stop()

			var onProgress copymanager.ProgressFunc
			if !quiet {
				bar := progressbar.NewOptions(100,
					progressbar.OptionSetWriter(cmd.ErrOrStderr()),
					progressbar.OptionSetDescription(filepath.Base(src)),
					progressbar.OptionShowElapsedTimeOnFinish(),
					progressbar.OptionClearOnFinish(),
				)
				defer bar.Close()
				onProgress = func(percent int) { _ = bar.Set(percent) }
			}

			result := mgr.Copy(cmd.Context(), src, dst, onProgress)
			if !result.Success {
				if result.Kind == copymanager.KindCancelled {
					return context.Canceled
				}
				return errors.New(result.Error)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Copied %s to %s (%s)\n",
				filepath.Base(src), result.Destination, humanize.Bytes(uint64(result.Bytes)))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Hide the progress bar")
	return cmd
}
