// Package fileformat holds the static knowledge of file formats used by every
// exporter: extension to format type, IMDI resource type, RO-Crate file types
// and MIME types.
//
// The format table is ordered and scanned linearly so that the first entry
// listing an extension wins. MIME lookups never fail: they fall through the
// custom table, an embedded extension database, and finally the extension
// itself.
package fileformat
