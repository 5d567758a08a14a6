package language

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Undetermined is the ISO 639-3 code for an unspecified language.
const Undetermined = "und"

type entry struct {
	code2   string // ISO 639-1 (2-letter)
	code3   string // ISO 639-3
	alt3    string // ISO 639-2/B alternate (e.g. "fre" vs "fra")
	display string
}

var languages = []entry{
	{"en", "eng", "", "English"},
	{"es", "spa", "", "Spanish"},
	{"fr", "fra", "fre", "French"},
	{"de", "deu", "ger", "German"},
	{"pt", "por", "", "Portuguese"},
	{"id", "ind", "", "Indonesian"},
	{"ms", "msa", "may", "Malay"},
	{"zh", "zho", "chi", "Chinese"},
	{"ru", "rus", "", "Russian"},
	{"ar", "ara", "", "Arabic"},
	{"hi", "hin", "", "Hindi"},
	{"nl", "nld", "dut", "Dutch"},
	{"sw", "swa", "", "Swahili"},
	{"th", "tha", "", "Thai"},
	{"", "tpi", "", "Tok Pisin"},
	{"", "bis", "", "Bislama"},
	{"", "etr", "", "Edolo"},
	{"", Undetermined, "", "Undetermined"},
}

var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	for i := range languages {
		e := &languages[i]
		if e.code2 != "" {
			byCode2[e.code2] = e
		}
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byCode2[code]; ok {
		return e
	}
	return byCode3[code]
}

// ToISO3 converts a 2-letter code or a bibliographic 3-letter code to its
// ISO 639-3 form. Unknown codes are returned lower-cased.
func ToISO3(code string) string {
	if e := lookup(code); e != nil {
		return e.code3
	}
	if base := baseOf(code); base != "" {
		if e := lookup(base); e != nil {
			return e.code3
		}
	}
	return strings.ToLower(strings.TrimSpace(code))
}

// DisplayName returns an English name for a language code. The local table
// wins over CLDR names; when neither knows the code, the code is returned.
func DisplayName(code string) string {
	if e := lookup(code); e != nil {
		return e.display
	}
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return ""
	}
	tag, err := language.Parse(trimmed)
	if err == nil {
		if name := display.English.Languages().Name(tag); name != "" {
			return name
		}
	}
	return trimmed
}

// LexvoURI returns the lexvo.org identifier for an ISO 639-3 code.
func LexvoURI(code string) string {
	return "https://lexvo.org/id/iso639-3/" + ToISO3(code)
}

// ParseCodeAndName splits values such as "etr: Edolo" into code and name.
// A value without a colon is treated as a bare code.
func ParseCodeAndName(value string) (string, string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", ""
	}
	code, name, found := strings.Cut(value, ":")
	code = strings.ToLower(strings.TrimSpace(code))
	if !found {
		return code, DisplayName(code)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = DisplayName(code)
	}
	return code, name
}

// SplitList splits a semicolon or comma separated list of codes, dropping
// blanks and duplicates while keeping order.
func SplitList(value string) []string {
	fields := strings.FieldsFunc(value, func(r rune) bool { return r == ';' || r == ',' })
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		code, _ := ParseCodeAndName(f)
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}

func baseOf(code string) string {
	tag, err := language.Parse(strings.TrimSpace(code))
	if err != nil {
		return ""
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return ""
	}
	return base.String()
}
