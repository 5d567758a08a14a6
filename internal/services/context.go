package services

import "context"

type contextKey string

const (
	exportIDKey contextKey = "export_id"
	formatKey   contextKey = "format"
	jobIDKey    contextKey = "job_id"
)

// WithExportID annotates context with the export run identifier.
func WithExportID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, exportIDKey, id)
}

// ExportIDFromContext extracts the export run identifier if present.
func ExportIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(exportIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithFormat annotates context with the export format (rocrate, imdi, csv, paradisec).
func WithFormat(ctx context.Context, format string) context.Context {
	if format == "" {
		return ctx
	}
	return context.WithValue(ctx, formatKey, format)
}

// FormatFromContext returns the export format if present.
func FormatFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(formatKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithJobID annotates context with a copy job identifier.
func WithJobID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, jobIDKey, id)
}

// JobIDFromContext extracts the copy job identifier if present.
func JobIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(jobIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
