// Package services defines shared utilities consumed by the exporters, the
// copy manager and the validator.
//
// Key responsibilities:
//   - Context helpers that stamp export run IDs, formats, and copy job
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent history statuses (failed, invalid, cancelled).
//
// Use these helpers when wiring new export logic so error handling and
// observability stay uniform across formats.
package services
