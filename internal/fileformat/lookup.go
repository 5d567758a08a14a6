package fileformat

import (
	"path/filepath"
	"strings"
)

// NormalizeExtension trims whitespace and a leading dot and lower-cases ext.
func NormalizeExtension(ext string) string {
	ext = strings.TrimSpace(ext)
	ext = strings.TrimPrefix(ext, ".")
	return strings.ToLower(strings.TrimSpace(ext))
}

// ExtensionOf returns the normalized extension of a path.
func ExtensionOf(path string) string {
	return NormalizeExtension(filepath.Ext(strings.TrimSpace(path)))
}

// LookupExtension returns the first format in table order that lists ext.
func LookupExtension(ext string) (Info, bool) {
	ext = NormalizeExtension(ext)
	if ext == "" {
		return Info{}, false
	}
	for _, info := range formats {
		for _, candidate := range strings.Split(info.Extensions, ",") {
			if candidate == ext {
				return info, true
			}
		}
	}
	return Info{}, false
}

// LookupPath resolves a file path by its extension.
func LookupPath(path string) (Info, bool) {
	return LookupExtension(ExtensionOf(path))
}

// TypeForPath returns the format type of path, or fallback when unknown.
func TypeForPath(path, fallback string) string {
	if info, ok := LookupPath(path); ok {
		return info.Type
	}
	return fallback
}

// IsMedia reports whether path is an audio, video or image file.
func IsMedia(path string) bool {
	info, ok := LookupPath(path)
	return ok && info.IsMediaType
}

// ROCrateTypes returns the RO-Crate @type values for a file. Media files get
// a second schema.org type; every other file is a plain File.
func ROCrateTypes(path string) []string {
	info, _ := LookupPath(path)
	switch info.Type {
	case "Audio":
		return []string{"File", "AudioObject"}
	case "Video":
		return []string{"File", "VideoObject"}
	case "Image":
		return []string{"File", "ImageObject"}
	default:
		return []string{"File"}
	}
}
