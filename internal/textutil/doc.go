// Package textutil provides name sanitizing shared by the exporters.
//
// SanitizeForArchive produces the file names written into IMDI resource links
// and export directories; SanitizeForIRI produces RO-Crate @id path segments.
package textutil
