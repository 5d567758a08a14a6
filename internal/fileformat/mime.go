package fileformat

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed mimetypes.yaml
var mimeDatabaseYAML []byte

// customMimeTypes holds archive-specific types that the general database gets
// wrong or does not know.
var customMimeTypes = map[string]string{
	"pfsx":     "text/x-pfsx+xml",
	"eaf":      "text/x-eaf+xml",
	"tbt":      "text/x-toolbox-text",
	"flextext": "application/xml",
	"fwbackup": "application/zip",
	"fwdata":   "application/xml",
	"lift":     "application/xml",
	"TextGrid": "text/praat-textgrid",
	"textgrid": "text/praat-textgrid",
	"trs":      "text/x-trs+xml",
	"cha":      "text/x-chat",
	"session":  "application/xml",
	"person":   "application/xml",
	"sprj":     "application/xml",
}

var (
	mimeOnce     sync.Once
	mimeDatabase map[string]string
)

func loadMimeDatabase() map[string]string {
	mimeOnce.Do(func() {
		var byType map[string][]string
		if err := yaml.Unmarshal(mimeDatabaseYAML, &byType); err != nil {
			panic(fmt.Sprintf("fileformat: embedded mime database: %v", err))
		}
		mimeDatabase = make(map[string]string)
		for mimeType, extensions := range byType {
			for _, ext := range extensions {
				mimeDatabase[NormalizeExtension(ext)] = mimeType
			}
		}
	})
	return mimeDatabase
}

// MimeType resolves the MIME type for an extension. The custom table is
// consulted first (exact key, then lower-case key), then the embedded
// database. When nothing matches, the normalized extension itself is returned.
func MimeType(ext string) string {
	trimmed := strings.TrimPrefix(strings.TrimSpace(ext), ".")
	if v, ok := customMimeTypes[trimmed]; ok {
		return v
	}
	normalized := NormalizeExtension(trimmed)
	if v, ok := customMimeTypes[normalized]; ok {
		return v
	}
	if v, ok := loadMimeDatabase()[normalized]; ok {
		return v
	}
	return normalized
}

// MimeTypeForPath resolves the MIME type of a file by its extension.
func MimeTypeForPath(path string) string {
	return MimeType(ExtensionOf(path))
}
