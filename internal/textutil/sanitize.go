package textutil

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters are removed. The result is trimmed of leading/trailing whitespace.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}

// FoldASCII strips diacritics and replaces every remaining non-ASCII rune
// with replacement.
func FoldASCII(value string, replacement rune) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, value)
	if err != nil {
		folded = value
	}
	return strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return replacement
		}
		return r
	}, folded)
}

// SanitizeForArchive makes a file name acceptable to archives. With
// imdiOnly, the name is folded to ASCII, whitespace becomes underscores and
// anything outside [A-Za-z0-9_.-] becomes an underscore.
func SanitizeForArchive(name string, imdiOnly bool) string {
	n := name
	if imdiOnly {
		n = FoldASCII(n, 'X')
		n = strings.TrimSpace(n)
		n = strings.Map(func(r rune) rune {
			switch {
			case unicode.IsSpace(r):
				return '_'
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.', r == '-':
				return r
			default:
				return '_'
			}
		}, n)
	}
	return SanitizeFileName(n)
}

// SanitizeForIRI percent-encodes the characters that break RO-Crate @id
// values: percent signs, whitespace, parentheses and exclamation marks.
// The result decodes back to value with url.PathUnescape.
func SanitizeForIRI(value string) string {
	var b strings.Builder
	for _, r := range value {
		switch {
		case r == '%':
			b.WriteString("%25")
		case r == ' ':
			b.WriteString("%20")
		case r == '(':
			b.WriteString("%28")
		case r == ')':
			b.WriteString("%29")
		case r == '!':
			b.WriteString("%21")
		case unicode.IsSpace(r):
			var buf [utf8.UTFMax]byte
			for _, c := range buf[:utf8.EncodeRune(buf[:], r)] {
				fmt.Fprintf(&b, "%%%02X", c)
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
