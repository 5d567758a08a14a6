package validator

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

// WriteReport prints a human-readable report. Errors are red and warnings
// yellow when colorize is set.
func WriteReport(w io.Writer, r Result, colorize bool) {
	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow)
	green := color.New(color.FgGreen, color.Bold)
	for _, c := range []*color.Color{red, yellow, green} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	rule := strings.Repeat("=", 50)
	fmt.Fprintln(w, rule)
	if len(r.Errors) > 0 {
		red.Fprintf(w, "ERRORS (%d):\n", len(r.Errors))
		for _, rec := range r.Errors {
			red.Fprintf(w, "   x %s\n", describe(rec))
		}
	}
	if len(r.Warnings) > 0 {
		yellow.Fprintf(w, "WARNINGS (%d):\n", len(r.Warnings))
		for _, rec := range r.Warnings {
			yellow.Fprintf(w, "   ! %s\n", describe(rec))
		}
	}
	fmt.Fprintln(w, rule)

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Errors", "Warnings", "Info"})
	tw.AppendRow(table.Row{len(r.Errors), len(r.Warnings), len(r.Info)})
	fmt.Fprintln(w, tw.Render())

	if r.Success {
		green.Fprintln(w, "Validation passed")
	} else {
		red.Fprintln(w, "Validation failed")
	}
}

func describe(rec Record) string {
	var where []string
	if rec.Entity != "" {
		where = append(where, rec.Entity)
	}
	if rec.Property != "" {
		where = append(where, rec.Property)
	}
	if len(where) == 0 {
		return rec.Message
	}
	return fmt.Sprintf("%s (%s)", rec.Message, strings.Join(where, " "))
}
