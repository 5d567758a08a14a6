package field

import (
	"fmt"
	"regexp"
	"strings"
)

var tagDelimiter = regexp.MustCompile(`\[\[|\]\]`)

// Parse reads the stored multilingual form into a text field with key.
func Parse(key, text string) (*Field, error) {
	f := New(key, Text)
	if err := f.SetSerialized(text); err != nil {
		return nil, err
	}
	if len(f.Languages()) > 1 || (len(f.axes) == 1 && f.axes[0].tag != DefaultLanguage) {
		f.Type = MultilingualText
	}
	return f, nil
}

func parse(text string) ([]axis, error) {
	if !strings.Contains(text, "[[") || !strings.HasPrefix(text, "[[") {
		if text == "" {
			return nil, nil
		}
		return []axis{{tag: DefaultLanguage, value: text}}, nil
	}
	parts := tagDelimiter.Split(text, -1)
	if parts[0] != "" {
		return nil, fmt.Errorf("text before first language tag in %q", text)
	}
	parts = parts[1:]
	if len(parts)%2 != 0 {
		return nil, fmt.Errorf("unbalanced language tags in %q", text)
	}
	var axes []axis
	seen := make(map[string]int)
	for i := 0; i < len(parts); i += 2 {
		tag := NormalizeTag(parts[i])
		if tag == "" {
			return nil, fmt.Errorf("empty language tag in %q", text)
		}
		if idx, ok := seen[tag]; ok {
			axes[idx].value = parts[i+1]
			continue
		}
		seen[tag] = len(axes)
		axes = append(axes, axis{tag: tag, value: parts[i+1]})
	}
	return axes, nil
}
