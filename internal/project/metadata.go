package project

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"lameta/internal/field"
)

type xmlNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Content  string     `xml:",chardata"`
	Children []xmlNode  `xml:",any"`
}

func (n xmlNode) attr(name string) string {
	for _, a := range n.Attrs {
		if strings.EqualFold(a.Name.Local, name) {
			return a.Value
		}
	}
	return ""
}

func (n xmlNode) child(name string) (xmlNode, bool) {
	for _, c := range n.Children {
		if strings.EqualFold(c.XMLName.Local, name) {
			return c, true
		}
	}
	return xmlNode{}, false
}

func (n xmlNode) childText(name string) string {
	c, ok := n.child(name)
	if !ok {
		return ""
	}
	return strings.TrimSpace(c.Content)
}

// metadata is the parsed content of a .sprj, .session, .person or .meta file.
type metadata struct {
	rootName      string
	fields        Fields
	contributions []Contribution
	languages     []PersonLanguage
	problems      []string
}

func readMetadata(path string) (*metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseMetadata(f, path)
}

func parseMetadata(r io.Reader, source string) (*metadata, error) {
	var root xmlNode
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}
	md := &metadata{rootName: root.XMLName.Local}
	for _, child := range root.Children {
		switch strings.ToLower(child.XMLName.Local) {
		case "contributions":
			md.loadContributions(child)
		case "languages":
			if len(child.Children) == 0 {
				md.loadField(child, false, false, source)
				continue
			}
			md.loadLanguages(child)
		case "customfields":
			for _, c := range child.Children {
				md.loadField(c, false, true, source)
			}
		case "additionalfields":
			for _, c := range child.Children {
				md.loadField(c, true, false, source)
			}
		default:
			if len(child.Children) > 0 {
				continue
			}
			md.loadField(child, false, false, source)
		}
	}
	return md, nil
}

func (md *metadata) loadField(n xmlNode, additional, custom bool, source string) {
	if len(n.Children) > 0 {
		return
	}
	tag := n.XMLName.Local
	key := FieldKey(tag)
	value := strings.TrimSpace(n.Content)
	typ := field.ParseType(n.attr("type"))

	if strings.Contains(strings.ToLower(tag), "date") {
		typ = field.Date
		if value != "" {
			normalized, ok := NormalizeDate(value)
			if !ok {
				md.problems = append(md.problems, fmt.Sprintf("%s: could not parse %s %q", source, key, value))
			}
			value = normalized
		}
	}

	f, err := field.Parse(key, value)
	if err != nil {
		md.problems = append(md.problems, fmt.Sprintf("%s: %v", source, err))
		f = field.NewText(key, value)
	}
	if typ != field.Text {
		f.Type = typ
	}
	f.Additional = additional
	f.Custom = custom
	md.fields.Set(f)
}

func (md *metadata) loadContributions(n xmlNode) {
	for _, c := range n.Children {
		if !strings.EqualFold(c.XMLName.Local, "contributor") {
			continue
		}
		role := c.childText("role")
		if smx, ok := c.child("smxrole"); ok {
			role = strings.TrimSpace(smx.Content)
			if role == "unspecified" {
				role = ""
			}
		}
		date := c.childText("date")
		if date != "" {
			if normalized, ok := NormalizeDate(date); ok {
				date = normalized
			}
		}
		md.contributions = append(md.contributions, Contribution{
			Name:     c.childText("name"),
			Role:     role,
			Date:     date,
			Comments: c.childText("comments"),
		})
	}
}

func (md *metadata) loadLanguages(n xmlNode) {
	for _, c := range n.Children {
		if !strings.EqualFold(c.XMLName.Local, "language") {
			continue
		}
		code := strings.TrimSpace(c.attr("tag"))
		if code == "" {
			continue
		}
		md.languages = append(md.languages, PersonLanguage{
			Code:    code,
			Primary: c.attr("primary") == "true",
			Mother:  c.attr("mother") == "true",
			Father:  c.attr("father") == "true",
		})
	}
}

// legacyLanguages builds a language list from the older primaryLanguage and
// otherLanguageN fields when a person file has no languages section.
func legacyLanguages(fs *Fields) []PersonLanguage {
	var out []PersonLanguage
	add := func(key string, primary bool) {
		code, _, _ := strings.Cut(fs.Text(key), ":")
		code = strings.TrimSpace(code)
		if code == "" {
			return
		}
		for _, existing := range out {
			if existing.Code == code {
				return
			}
		}
		out = append(out, PersonLanguage{Code: code, Primary: primary})
	}
	add("primaryLanguage", true)
	for i := 0; i < 4; i++ {
		add(fmt.Sprintf("otherLanguage%d", i), false)
	}
	return out
}

// FieldKey converts an XML element name to a field key. Element names with
// separators are camel-cased ("Location_Country" becomes "locationCountry");
// other names only get their first letter lower-cased.
func FieldKey(tag string) string {
	parts := strings.FieldsFunc(tag, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	if len(parts) == 0 {
		return ""
	}
	if len(parts) == 1 {
		return lowerFirst(parts[0])
	}
	var b strings.Builder
	for i, part := range parts {
		part = strings.ToLower(part)
		if i == 0 {
			b.WriteString(part)
			continue
		}
		b.WriteString(upperFirst(part))
	}
	return b.String()
}

func lowerFirst(s string) string {
	for i, r := range s {
		return string(unicode.ToLower(r)) + s[i+len(string(r)):]
	}
	return s
}

func upperFirst(s string) string {
	for i, r := range s {
		return string(unicode.ToUpper(r)) + s[i+len(string(r)):]
	}
	return s
}
