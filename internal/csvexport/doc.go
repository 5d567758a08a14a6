// Package csvexport writes the spreadsheet exports: a zip of generic
// project, session and people tables, and the single-sheet layout PARADISEC
// uses for bulk item ingest.
package csvexport
