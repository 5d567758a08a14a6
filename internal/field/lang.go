package field

import "golang.org/x/text/language"

// IsWellFormedTag reports whether tag parses as a BCP 47 or ISO 639 tag.
func IsWellFormedTag(tag string) bool {
	tag = NormalizeTag(tag)
	if tag == "" {
		return false
	}
	_, err := language.Parse(tag)
	return err == nil
}

// MalformedTags lists the field's language tags that do not parse.
func (f *Field) MalformedTags() []string {
	var bad []string
	for _, a := range f.axes {
		if !IsWellFormedTag(a.tag) {
			bad = append(bad, a.tag)
		}
	}
	return bad
}
