package testsupport

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Field is one element written into a generated metadata file.
type Field struct {
	Tag   string
	Type  string
	Value string
}

// F returns a plain string field.
func F(tag, value string) Field {
	return Field{Tag: tag, Type: "string", Value: value}
}

// Contributor is one <contributor> entry of a generated metadata file.
type Contributor struct {
	Name     string
	Role     string
	Date     string
	Comments string
}

// Language is one <language> entry of a generated person file.
type Language struct {
	Tag     string
	Primary bool
	Mother  bool
}

// ProjectBuilder writes a lameta project tree under a temp directory.
type ProjectBuilder struct {
	t    testing.TB
	Root string
	Name string
}

// NewProject creates <tmp>/<name>/<name>.sprj with the given fields.
func NewProject(t testing.TB, name string, fields ...Field) *ProjectBuilder {
	t.Helper()
	root := filepath.Join(t.TempDir(), name)
	b := &ProjectBuilder{t: t, Root: root, Name: name}
	b.writeXML(name+".sprj", "Project", fields, nil, nil)
	return b
}

// AddSession writes Sessions/<id>/<id>.session and returns the folder path.
func (b *ProjectBuilder) AddSession(id string, fields []Field, contributors ...Contributor) string {
	b.t.Helper()
	rel := filepath.Join("Sessions", id)
	fields = append([]Field{F("id", id)}, fields...)
	b.writeXML(filepath.Join(rel, id+".session"), "Session", fields, contributors, nil)
	return filepath.Join(b.Root, rel)
}

// AddPerson writes People/<id>/<id>.person and returns the folder path.
func (b *ProjectBuilder) AddPerson(id string, fields []Field, languages ...Language) string {
	b.t.Helper()
	rel := filepath.Join("People", id)
	fields = append([]Field{F("name", id)}, fields...)
	b.writeXML(filepath.Join(rel, id+".person"), "Person", fields, nil, languages)
	return filepath.Join(b.Root, rel)
}

// AddFile writes a content file of size bytes at rel and returns its path.
func (b *ProjectBuilder) AddFile(rel string, size int64) string {
	b.t.Helper()
	full := filepath.Join(b.Root, filepath.FromSlash(rel))
	WriteFile(b.t, full, size)
	return full
}

// AddMeta writes the .meta sidecar for the content file at rel.
func (b *ProjectBuilder) AddMeta(rel string, fields []Field, contributors ...Contributor) {
	b.t.Helper()
	b.writeXML(filepath.FromSlash(rel)+".meta", "MetaData", fields, contributors, nil)
}

// Path joins rel onto the project root.
func (b *ProjectBuilder) Path(rel string) string {
	return filepath.Join(b.Root, filepath.FromSlash(rel))
}

func (b *ProjectBuilder) writeXML(rel, rootName string, fields []Field, contributors []Contributor, languages []Language) {
	b.t.Helper()
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="utf-8"?>` + "\n")
	sb.WriteString("<" + rootName + ">\n")
	for _, f := range fields {
		sb.WriteString("  <" + f.Tag)
		if f.Type != "" {
			sb.WriteString(` type="` + f.Type + `"`)
		}
		sb.WriteString(">" + escape(f.Value) + "</" + f.Tag + ">\n")
	}
	if len(languages) > 0 {
		sb.WriteString("  <languages type=\"xml\">\n")
		for _, l := range languages {
			sb.WriteString(`    <language tag="` + escape(l.Tag) + `" primary="` + boolString(l.Primary) +
				`" mother="` + boolString(l.Mother) + `" father="false"/>` + "\n")
		}
		sb.WriteString("  </languages>\n")
	}
	if len(contributors) > 0 {
		sb.WriteString("  <contributions type=\"xml\">\n")
		for _, c := range contributors {
			sb.WriteString("    <contributor>")
			sb.WriteString("<name>" + escape(c.Name) + "</name>")
			sb.WriteString("<role>" + escape(c.Role) + "</role>")
			sb.WriteString("<date>" + escape(c.Date) + "</date>")
			sb.WriteString("<comments>" + escape(c.Comments) + "</comments>")
			sb.WriteString("</contributor>\n")
		}
		sb.WriteString("  </contributions>\n")
	}
	sb.WriteString("</" + rootName + ">\n")

	full := filepath.Join(b.Root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		b.t.Fatalf("mkdir for %s: %v", full, err)
	}
	if err := os.WriteFile(full, []byte(sb.String()), 0o644); err != nil {
		b.t.Fatalf("write %s: %v", full, err)
	}
}

func escape(s string) string {
	var sb strings.Builder
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}

func boolString(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

// SampleProject builds a small Edolo project with two sessions, two people,
// a consent form and one description document.
func SampleProject(t testing.TB) *ProjectBuilder {
	t.Helper()
	b := NewProject(t, "edolo",
		F("title", "Edolo Sample"),
		F("collectionDescription", "Recordings of Edolo speakers."),
		F("grantId", "EDOLO1"),
		F("fundingProjectTitle", "Documenting Edolo"),
		F("depositor", "Awi Heole"),
		F("country", "Papua New Guinea"),
		F("continent", "Oceania"),
		Field{Tag: "collectionSubjectLanguages", Type: "languageChoices", Value: "etr"},
		Field{Tag: "collectionWorkingLanguages", Type: "languageChoices", Value: "tpi;en"},
		F("vernacularIso3CodeAndName", "etr: Edolo"),
		F("analysisIso3CodeAndName", "tpi: Tok Pisin"),
		F("accessProtocol", "REAP"),
	)

	b.AddSession("ETR008", []Field{
		F("title", "Awi and Sisi talk"),
		F("description", "Conversation about gardens"),
		F("date", "2011-10-09"),
		F("genre", "dialog"),
		Field{Tag: "languages", Type: "languageChoices", Value: "etr"},
		Field{Tag: "workingLanguages", Type: "languageChoices", Value: "tpi"},
		F("access", "F: Free to All"),
		F("keyword", "garden, family"),
		Field{Tag: "Location_Country", Type: "string", Value: "Papua New Guinea"},
		Field{Tag: "Location_Region", Type: "string", Value: "Southern Highlands"},
	},
		Contributor{Name: "Awi Heole", Role: "speaker"},
		Contributor{Name: "Sisi Ari", Role: "participant"},
	)
	b.AddFile("Sessions/ETR008/ETR008_Tiny.mp3", 64)
	b.AddFile("Sessions/ETR008/ETR008.eaf", 32)
	b.AddMeta("Sessions/ETR008/ETR008.eaf", []Field{F("notes", "time aligned")},
		Contributor{Name: "Sisi Ari", Role: "transcriber"})

	b.AddSession("ETR009", []Field{
		F("title", "Hunting story"),
		F("date", "2011-10-10"),
		F("genre", "narrative"),
		Field{Tag: "languages", Type: "languageChoices", Value: "etr"},
	},
		Contributor{Name: "Awi Heole", Role: "speaker"},
	)
	b.AddFile("Sessions/ETR009/ETR009_Tiny.mp4", 48)

	b.AddPerson("Awi Heole", []Field{
		F("birthYear", "1972"),
		F("gender", "Male"),
		F("howToContact", "via the village school"),
		F("education", "primary"),
	}, Language{Tag: "etr", Primary: true, Mother: true}, Language{Tag: "tpi"})
	b.AddFile("People/Awi Heole/Awi Heole_Consent.pdf", 16)
	b.AddFile("People/Awi Heole/Awi Heole_Photo.jpg", 16)

	b.AddPerson("Sisi Ari", []Field{
		F("birthYear", "~1980"),
		F("gender", "Female"),
	}, Language{Tag: "etr", Primary: true})

	b.AddFile("DescriptionDocuments/Protocol.pdf", 24)
	return b
}
