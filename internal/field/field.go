package field

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// DefaultLanguage is the language tag assumed for untagged values.
const DefaultLanguage = "en"

// Type identifies how a field's value is interpreted.
type Type int

const (
	Text Type = iota
	MultilingualText
	LanguageChoices
	Date
	Choice
	Contributions
	Personality
)

func (t Type) String() string {
	switch t {
	case Text:
		return "text"
	case MultilingualText:
		return "multilingual"
	case LanguageChoices:
		return "languageChoices"
	case Date:
		return "date"
	case Choice:
		return "choice"
	case Contributions:
		return "contributions"
	case Personality:
		return "personality"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// ParseType maps the type attribute used in lameta metadata files.
func ParseType(value string) Type {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "multilingual", "multilingualstring", "multilanguage":
		return MultilingualText
	case "languagechoices", "language":
		return LanguageChoices
	case "date":
		return Date
	case "choice":
		return Choice
	case "contributions":
		return Contributions
	case "personality":
		return Personality
	default:
		return Text
	}
}

// ErrEmptyLanguageTag is returned when a value is set without a language tag.
var ErrEmptyLanguageTag = errors.New("field: language tag is empty")

type axis struct {
	tag   string
	value string
}

// Field is one metadata value of a session, person, project or file. Values
// are stored per language tag in insertion order; a tag appears at most once.
type Field struct {
	Key        string
	Type       Type
	Additional bool
	Custom     bool
	axes       []axis
}

// New returns an empty field.
func New(key string, typ Type) *Field {
	return &Field{Key: key, Type: typ}
}

// NewText returns a text field holding value in the default language.
func NewText(key, value string) *Field {
	f := New(key, Text)
	_ = f.SetTextAxis(DefaultLanguage, value)
	return f
}

// NormalizeTag trims and lower-cases a language tag.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// SetTextAxis stores value under tag, replacing an existing value for the
// same tag in place. A blank value removes the axis, so a language set again
// later moves to the end of the display order.
func (f *Field) SetTextAxis(tag, value string) error {
	tag = NormalizeTag(tag)
	if tag == "" {
		return fmt.Errorf("%w (field %q)", ErrEmptyLanguageTag, f.Key)
	}
	blank := strings.TrimSpace(value) == ""
	for i := range f.axes {
		if f.axes[i].tag != tag {
			continue
		}
		if blank {
			f.axes = slices.Delete(f.axes, i, i+1)
		} else {
			f.axes[i].value = value
		}
		return nil
	}
	if !blank {
		f.axes = append(f.axes, axis{tag: tag, value: value})
	}
	return nil
}

// TextAxis returns the value for tag, or "".
func (f *Field) TextAxis(tag string) string {
	tag = NormalizeTag(tag)
	for _, a := range f.axes {
		if a.tag == tag {
			return a.value
		}
	}
	return ""
}

// FirstNonEmpty returns the first non-empty value among tags, in the order
// given. With no tags it returns the first non-empty value in insertion order.
func (f *Field) FirstNonEmpty(tags ...string) string {
	if len(tags) == 0 {
		for _, a := range f.axes {
			if strings.TrimSpace(a.value) != "" {
				return a.value
			}
		}
		return ""
	}
	for _, tag := range tags {
		if v := f.TextAxis(tag); strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// Text returns the default-language value, falling back to the first
// non-empty value.
func (f *Field) Text() string {
	if f == nil {
		return ""
	}
	if v := f.TextAxis(DefaultLanguage); strings.TrimSpace(v) != "" {
		return v
	}
	return f.FirstNonEmpty()
}

// Languages lists the tags that carry a non-empty value, in insertion order.
func (f *Field) Languages() []string {
	var tags []string
	for _, a := range f.axes {
		if strings.TrimSpace(a.value) != "" {
			tags = append(tags, a.tag)
		}
	}
	return tags
}

// IsEmpty reports whether no tag carries a non-empty value.
func (f *Field) IsEmpty() bool {
	return f == nil || len(f.Languages()) == 0
}

func (f *Field) nonEmptyAxes() []axis {
	out := make([]axis, 0, len(f.axes))
	for _, a := range f.axes {
		if strings.TrimSpace(a.value) != "" {
			out = append(out, a)
		}
	}
	return out
}

// Serialize renders the stored form: the bare value when only the default
// language is present, otherwise "[[tag]]value" pairs in insertion order.
func (f *Field) Serialize() string {
	return f.render(func(s string) string { return s })
}

func (f *Field) render(escape func(string) string) string {
	if f == nil {
		return ""
	}
	axes := f.nonEmptyAxes()
	if len(axes) == 0 {
		return ""
	}
	if len(axes) == 1 && axes[0].tag == DefaultLanguage {
		return escape(axes[0].value)
	}
	var b strings.Builder
	for _, a := range axes {
		b.WriteString("[[")
		b.WriteString(a.tag)
		b.WriteString("]]")
		b.WriteString(escape(a.value))
	}
	return b.String()
}

// SetSerialized replaces the field's values with the parsed form of text.
func (f *Field) SetSerialized(text string) error {
	axes, err := parse(text)
	if err != nil {
		return fmt.Errorf("field %q: %w", f.Key, err)
	}
	f.axes = axes
	return nil
}

// Clone returns a deep copy of the field.
func (f *Field) Clone() *Field {
	if f == nil {
		return nil
	}
	clone := *f
	clone.axes = append([]axis(nil), f.axes...)
	return &clone
}
