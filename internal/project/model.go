package project

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Folder names inside a project root.
const (
	SessionsDir             = "Sessions"
	PeopleDir               = "People"
	DescriptionDocumentsDir = "DescriptionDocuments"
	OtherDocumentsDir       = "OtherDocuments"
)

// Metadata file extensions.
const (
	ProjectExt = ".sprj"
	SessionExt = ".session"
	PersonExt  = ".person"
	MetaExt    = ".meta"
)

// Contribution records a person's role in a session or file.
type Contribution struct {
	Name     string
	Role     string
	Date     string
	Comments string
}

// PersonLanguage is one entry of a person's language list.
type PersonLanguage struct {
	Code    string
	Primary bool
	Mother  bool
	Father  bool
}

// File is a content file inside a project folder.
type File struct {
	Name          string
	Path          string
	RelPath       string
	Size          int64
	ModTime       time.Time
	Fields        Fields
	Contributions []Contribution
}

// Ext returns the lower-case extension without the dot.
func (f File) Ext() string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(f.Name), "."))
}

// Session is one recording session folder.
type Session struct {
	ID            string
	Dir           string
	RelDir        string
	MetadataFile  File
	Fields        Fields
	Contributions []Contribution
	Files         []File
}

// Title returns the session title, falling back to its id.
func (s *Session) Title() string {
	if t := s.Fields.Text("title"); t != "" {
		return t
	}
	return s.ID
}

// Date returns the session date when it is a valid ISO date.
func (s *Session) Date() (time.Time, bool) {
	value := s.Fields.Text("date")
	if value == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// AllContributions returns session-level contributions followed by those
// recorded on the session's files.
func (s *Session) AllContributions() []Contribution {
	out := append([]Contribution(nil), s.Contributions...)
	for _, f := range s.Files {
		out = append(out, f.Contributions...)
	}
	return out
}

// Person is one entry in the People folder.
type Person struct {
	ID           string
	Dir          string
	RelDir       string
	MetadataFile File
	Fields       Fields
	Languages    []PersonLanguage
	Files        []File
}

// Name returns the person's name, falling back to the folder id.
func (p *Person) Name() string {
	if n := p.Fields.Text("name"); n != "" {
		return n
	}
	return p.ID
}

// BirthYear parses the birth year. "~1960" style approximations are accepted.
func (p *Person) BirthYear() (int, bool) {
	value := strings.TrimPrefix(p.Fields.Text("birthYear"), "~")
	if value == "" {
		return 0, false
	}
	year, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || year <= 0 {
		return 0, false
	}
	return year, true
}

// AgeAt returns the person's age at the given date when the birth year is
// known.
func (p *Person) AgeAt(t time.Time) (int, bool) {
	year, ok := p.BirthYear()
	if !ok || t.IsZero() || t.Year() < year {
		return 0, false
	}
	return t.Year() - year, true
}

// LanguageCodes returns the person's language codes, primary first.
func (p *Person) LanguageCodes() []string {
	var out []string
	for _, l := range p.Languages {
		if l.Primary {
			out = append(out, l.Code)
		}
	}
	for _, l := range p.Languages {
		if !l.Primary {
			out = append(out, l.Code)
		}
	}
	return out
}

// ConsentFiles returns the person's consent documents.
func (p *Person) ConsentFiles() []File {
	var out []File
	for _, f := range p.Files {
		if IsConsentFile(f.Name) {
			out = append(out, f)
		}
	}
	return out
}

// IsConsentFile reports whether a file name marks a consent document.
func IsConsentFile(name string) bool {
	return strings.Contains(name, "_Consent")
}

// Project is a loaded lameta project.
type Project struct {
	Root                 string
	Name                 string
	MetadataFile         File
	Fields               Fields
	Sessions             []*Session
	People               []*Person
	DescriptionDocuments []File
	OtherDocuments       []File
	// Problems lists non-fatal issues met while loading, such as
	// unparsable dates or sidecars.
	Problems []string
}

// Title returns the project title, falling back to the project name.
func (p *Project) Title() string {
	if t := p.Fields.Text("title"); t != "" {
		return t
	}
	return p.Name
}

// FindPerson resolves a contributor name to a person by id, name or code,
// ignoring case and surrounding whitespace.
func (p *Project) FindPerson(name string) *Person {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil
	}
	for _, person := range p.People {
		if strings.ToLower(person.ID) == needle || strings.ToLower(person.Name()) == needle {
			return person
		}
	}
	for _, person := range p.People {
		if code := person.Fields.Text("code"); code != "" && strings.ToLower(code) == needle {
			return person
		}
	}
	return nil
}

// ConsentFiles returns every person's consent documents in person order.
func (p *Project) ConsentFiles() []File {
	var out []File
	for _, person := range p.People {
		out = append(out, person.ConsentFiles()...)
	}
	return out
}

// FileCount returns the number of content files, excluding metadata files.
func (p *Project) FileCount() int {
	n := len(p.DescriptionDocuments) + len(p.OtherDocuments)
	for _, s := range p.Sessions {
		n += len(s.Files)
	}
	for _, person := range p.People {
		n += len(person.Files)
	}
	return n
}
