package workflow

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"lameta/internal/metrics"
	"lameta/internal/project"
	"lameta/internal/validator"
	"lameta/internal/warnings"
)

// Format names an export target.
type Format string

const (
	FormatROCrate   Format = "rocrate"
	FormatIMDI      Format = "imdi"
	FormatCSV       Format = "csv"
	FormatParadisec Format = "paradisec"
)

// Formats lists the supported formats in CLI order.
func Formats() []Format {
	return []Format{FormatROCrate, FormatIMDI, FormatCSV, FormatParadisec}
}

// ParseFormat resolves a user-supplied format name.
func ParseFormat(value string) (Format, error) {
	normalized := Format(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case "ro-crate":
		return FormatROCrate, nil
	case "opex":
		return FormatIMDI, nil
	}
	for _, f := range Formats() {
		if f == normalized {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown export format %q", value)
}

// Request describes one export.
type Request struct {
	Format      Format
	ProjectDir  string
	Destination string
}

// Summary is the outcome of one export.
type Summary struct {
	ID          string            `json:"id"`
	Format      Format            `json:"format"`
	Project     string            `json:"project"`
	Destination string            `json:"destination"`
	Status      string            `json:"status"`
	Entities    map[string]int    `json:"entities,omitempty"`
	Documents   int               `json:"documents,omitempty"`
	Copied      int               `json:"copied"`
	Skipped     int               `json:"skipped"`
	Failed      int               `json:"failed"`
	Bytes       int64             `json:"bytes"`
	Outputs     []string          `json:"outputs,omitempty"`
	Warnings    []string          `json:"warnings"`
	Validation  *validator.Result `json:"validation,omitempty"`
	StartedAt   time.Time         `json:"started_at"`
	Duration    time.Duration     `json:"duration"`
	Error       string            `json:"error,omitempty"`
}

// ValidationErrors returns the number of validation errors, zero when the
// format is not validated.
func (s Summary) ValidationErrors() int {
	if s.Validation == nil {
		return 0
	}
	return len(s.Validation.Errors)
}

// job carries the state shared by a format writer during one run.
type job struct {
	project  *project.Project
	dest     string
	logger   *slog.Logger
	warnings *warnings.Collector
	metrics  *metrics.Run
	summary  *Summary
}

func (j *job) countEntities(kind string, n int) {
	if n <= 0 {
		return
	}
	if j.summary.Entities == nil {
		j.summary.Entities = make(map[string]int)
	}
	j.summary.Entities[kind] += n
	j.metrics.AddEntities(kind, n)
}

func (j *job) countCopies(copied, skipped, failed int, bytes int64) {
	j.summary.Copied += copied
	j.summary.Skipped += skipped
	j.summary.Failed += failed
	j.summary.Bytes += bytes
	j.metrics.AddCopied(copied, bytes)
}
