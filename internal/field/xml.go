package field

import "strings"

// Serialized is a field rendered for an XML document.
type Serialized struct {
	Key   string
	Value string
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// EscapeXML applies the five predefined XML entity escapes.
func EscapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

// SerializeForXML escapes each language value and then applies the
// multilingual tagging. The [[tag]] markers themselves are never escaped.
func (f *Field) SerializeForXML() Serialized {
	if f == nil {
		return Serialized{}
	}
	return Serialized{Key: f.Key, Value: f.render(EscapeXML)}
}
