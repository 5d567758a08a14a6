package vocab

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed roles.yaml
var rolesYAML []byte

//go:embed genres.yaml
var genresYAML []byte

// Term is one entry of a controlled vocabulary.
type Term struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
	LDAC  string `yaml:"ldac"`
}

// GenreTermSet is the LDAC set holding mapped genres.
const GenreTermSet = "ldac:LinguisticGenreTerms"

// CustomGenreTermSet holds genres without an LDAC equivalent.
const CustomGenreTermSet = "#CustomGenreTerms"

type table struct {
	terms []Term
	byID  map[string]int
}

var (
	loadOnce sync.Once
	roles    table
	genres   table
)

func mustLoad(data []byte, name string) table {
	var terms []Term
	if err := yaml.Unmarshal(data, &terms); err != nil {
		panic(fmt.Sprintf("vocab: embedded %s: %v", name, err))
	}
	t := table{terms: terms, byID: make(map[string]int, len(terms))}
	for i, term := range terms {
		t.byID[normalizeID(term.ID)] = i
	}
	return t
}

func load() {
	loadOnce.Do(func() {
		roles = mustLoad(rolesYAML, "roles.yaml")
		genres = mustLoad(genresYAML, "genres.yaml")
	})
}

func normalizeID(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	return strings.ReplaceAll(id, " ", "_")
}

func (t table) lookup(id string) (Term, bool) {
	idx, ok := t.byID[normalizeID(id)]
	if !ok {
		return Term{}, false
	}
	return t.terms[idx], true
}

// Role looks up an OLAC role by id or label ("data inputter" finds
// data_inputter).
func Role(id string) (Term, bool) {
	load()
	return roles.lookup(id)
}

// Roles returns every known role in table order.
func Roles() []Term {
	load()
	return append([]Term(nil), roles.terms...)
}

// Genre looks up a genre by id or label.
func Genre(id string) (Term, bool) {
	load()
	return genres.lookup(id)
}

// RoleProperty returns the RO-Crate property linking a session to people in
// role. Unknown roles become "ldac:<role>" and a blank role is a participant.
func RoleProperty(role string) string {
	if strings.TrimSpace(role) == "" {
		return "ldac:participant"
	}
	if term, ok := Role(role); ok && term.LDAC != "" {
		return term.LDAC
	}
	return "ldac:" + normalizeID(role)
}

// GenreTerm describes how a genre is exported to RO-Crate.
type GenreTerm struct {
	ID    string
	Name  string
	InSet string
}

// ResolveGenre maps a session genre to its RO-Crate term. Genres without an
// LDAC mapping get a tag: URI scoped to the project.
func ResolveGenre(genre, projectTitle string) GenreTerm {
	genre = strings.TrimSpace(genre)
	if genre == "" {
		return GenreTerm{ID: "tag:lameta/unknown", Name: "unknown", InSet: CustomGenreTermSet}
	}
	term, ok := Genre(genre)
	if ok && term.LDAC != "" {
		return GenreTerm{ID: term.LDAC, Name: term.Label, InSet: GenreTermSet}
	}
	label := genre
	if ok {
		label = term.Label
	}
	scope := normalizeID(projectTitle)
	if scope == "" {
		scope = "project"
	}
	return GenreTerm{
		ID:    fmt.Sprintf("tag:lameta,%s:genre/%s", scope, normalizeID(label)),
		Name:  label,
		InSet: CustomGenreTermSet,
	}
}
