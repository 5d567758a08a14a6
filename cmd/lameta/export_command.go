package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"lameta/internal/logging"
	"lameta/internal/services"
	"lameta/internal/validator"
	"lameta/internal/workflow"
)

var exportDescriptions = map[workflow.Format]string{
	workflow.FormatROCrate:   "Write an RO-Crate package and validate it",
	workflow.FormatIMDI:      "Write an IMDI corpus with one document per session",
	workflow.FormatCSV:       "Write project, session and people tables as a zip",
	workflow.FormatParadisec: "Write the PARADISEC collection and item sheet",
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export a project",
	}
	for _, format := range workflow.Formats() {
		exportCmd.AddCommand(newExportFormatCommand(ctx, format))
	}
	return exportCmd
}

func newExportFormatCommand(ctx *commandContext, format workflow.Format) *cobra.Command {
	var asJSON bool
	var opex bool

	cmd := &cobra.Command{
		Use:   string(format) + " <project> <destination>",
		Short: exportDescriptions[format],
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			runCfg := *cfg
			if opex {
				runCfg.Export.IMDIOpex = true
			}
			logger := ctx.log()

			store, err := ctx.historyStore()
			if err != nil {
				logging.WarnWithContext(logger, "export history unavailable", "history_open_failed",
					logging.Error(err),
					logging.String(logging.FieldImpact, "this export will not be recorded"),
				)
			}
			mgr := workflow.NewManager(&runCfg,
				workflow.WithHistory(store),
				workflow.WithLogger(logger),
			)

			runCtx := cmd.Context()
			stop := context.AfterFunc(runCtx, func() { mgr.CancelCopies() })
			defer stop()

			summary, runErr := mgr.Run(runCtx, workflow.Request{
				Format:      format,
				ProjectDir:  args[0],
				Destination: args[1],
			})

			out := cmd.OutOrStdout()
			if asJSON {
				if err := writeJSON(out, summary); err != nil {
					return err
				}
			} else {
				printExportSummary(out, summary, shouldColorize(out))
			}
			if runErr != nil {
				return runErr
			}
			if summary.Status == services.StatusInvalid {
				return &exitError{code: 1, message: "Export finished with validation errors"}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the export summary as JSON")
	if format == workflow.FormatIMDI {
		cmd.Flags().BoolVar(&opex, "opex", false, "Wrap every document in OPEX metadata")
	}
	return cmd
}

func printExportSummary(out io.Writer, s workflow.Summary, colorize bool) {
	rows := [][]string{
		{"Export", s.ID},
		{"Format", string(s.Format)},
		{"Project", s.Project},
		{"Destination", s.Destination},
		{"Status", s.Status},
	}
	if s.Documents > 0 {
		rows = append(rows, []string{"Documents", strconv.Itoa(s.Documents)})
	}
	for _, kind := range []string{"session", "person", "file", "language"} {
		if n := s.Entities[kind]; n > 0 {
			rows = append(rows, []string{strings.ToUpper(kind[:1]) + kind[1:] + " entities", strconv.Itoa(n)})
		}
	}
	rows = append(rows,
		[]string{"Files copied", fmt.Sprintf("%d (%s)", s.Copied, humanize.Bytes(uint64(s.Bytes)))},
		[]string{"Files unchanged", strconv.Itoa(s.Skipped)},
	)
	if s.Failed > 0 {
		rows = append(rows, []string{"Copy failures", strconv.Itoa(s.Failed)})
	}
	rows = append(rows, []string{"Duration", s.Duration.Round(time.Millisecond).String()})
	for _, output := range s.Outputs {
		rows = append(rows, []string{"Output", output})
	}

	fmt.Fprintln(out, renderTable(tableSpec{
		headers: []string{"Field", "Value"},
		rows:    rows,
	}))

	if len(s.Warnings) > 0 {
		fmt.Fprintf(out, "\nWarnings (%d):\n", len(s.Warnings))
		for _, w := range s.Warnings {
			fmt.Fprintf(out, "  - %s\n", w)
		}
	}
	if s.Error != "" {
		fmt.Fprintf(out, "\nError: %s\n", s.Error)
	}
	if s.Validation != nil {
		fmt.Fprintln(out)
		validator.WriteReport(out, *s.Validation, colorize)
	}
}
