// Package logging assembles structured slog loggers and formatting helpers used
// across the lameta exporters.
//
// It owns the console and JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so export code can tag log lines with the
// export run ID, format, and copy job ID. The package also provides a no-op
// logger for tests and wiring code that cannot fail.
package logging
