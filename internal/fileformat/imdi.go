package fileformat

import "strings"

// ImdiResourceType returns the IMDI resource type for an extension. Unknown
// formats and formats without an IMDI type fall back to "Document" when the
// MIME major type is application, and to Unspecified otherwise.
func ImdiResourceType(ext string) string {
	if info, ok := LookupExtension(ext); ok && info.ImdiType != "" && info.ImdiType != Unspecified {
		return info.ImdiType
	}
	if strings.HasPrefix(MimeType(ext), "application/") {
		return "Document"
	}
	return Unspecified
}

// ImdiResourceTypeForPath resolves the IMDI resource type of a file.
func ImdiResourceTypeForPath(path string) string {
	return ImdiResourceType(ExtensionOf(path))
}
