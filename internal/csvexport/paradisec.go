package csvexport

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"lameta/internal/fileutil"
	"lameta/internal/language"
	"lameta/internal/project"
	"lameta/internal/services"
)

var projectDescriptionBlacklist = []string{
	"modifiedDate", "size", "type", "filename", "projectDescription",
	"id", "grantId", "depositor", "fundingProjectTitle",
}

var sessionDescriptionBlacklist = []string{
	"modifiedDate", "size", "type", "filename", "description",
	"id", "title", "languages", "date", "genre",
}

var projectKeyLabels = strings.NewReplacer(
	"vernacularIso3CodeAndName", "subject-lang",
	"analysisIso3CodeAndName", "working-lang",
)

// describeWithExtras joins the description with "key: value" entries for
// every field the sheet has no column for.
func describeWithExtras(fields *project.Fields, descriptionKey string, skip []string, label func(string) string) string {
	parts := []string{fields.Text(descriptionKey)}
	for _, f := range fields.All() {
		if slices.Contains(skip, f.Key) {
			continue
		}
		if value := f.Text(); value != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", label(f.Key), value))
		}
	}
	return strings.Join(parts, " | ")
}

// ParadisecProjectRows are the collection rows at the top of the sheet.
func ParadisecProjectRows(p *project.Project) [][]string {
	first, last := ParseName(p.Fields.Text("depositor"))
	return [][]string{
		{"Collection ID", p.Fields.Text("grantId")},
		{"Collection Title", p.Fields.Text("fundingProjectTitle")},
		{"Collection Description", describeWithExtras(&p.Fields, "projectDescription", projectDescriptionBlacklist, projectKeyLabels.Replace)},
		{"Collector First Name", first},
		{"Collector Last Name", last},
	}
}

type sessionColumn struct {
	header string
	value  func(*project.Session) string
}

func field(key string) func(*project.Session) string {
	return func(s *project.Session) string { return s.Fields.Text(key) }
}

func blank(*project.Session) string { return "" }

// In PARADISEC terms lameta's working language is the content language and
// its subject language is the subject language.
var sessionColumns = []sessionColumn{
	{"Item Identifier", field("id")},
	{"Item Title", field("title")},
	{"Item Description", func(s *project.Session) string {
		return describeWithExtras(&s.Fields, "description", sessionDescriptionBlacklist, func(k string) string { return k })
	}},
	{"Content Language", func(s *project.Session) string {
		return strings.Join(language.SplitList(s.Fields.Text("workingLanguages")), ",")
	}},
	{"Subject Language", func(s *project.Session) string {
		return strings.Join(language.SplitList(s.Fields.Text("languages")), ",")
	}},
	{"Country/Countries", field("locationCountry")},
	{"Origination Date", field("date")},
	{"Region", field("locationRegion")},
	{"Original media", blank},
	{"Data Categories", blank},
	{"Data Type", blank},
	{"Discourse Type", field("genre")},
	{"Dialect", blank},
	{"Language as given", blank},
}

// ParadisecSessionRows is the item table: a header, then one row per
// session with a Role/First Name/Last Name group per contribution.
func ParadisecSessionRows(p *project.Project) [][]string {
	groups := 0
	for _, s := range p.Sessions {
		groups = max(groups, len(s.AllContributions()))
	}
	header := make([]string, 0, len(sessionColumns)+3*groups)
	for _, c := range sessionColumns {
		header = append(header, c.header)
	}
	for range groups {
		header = append(header, "Role", "First Name", "Last Name")
	}
	rows := [][]string{header}
	for _, s := range p.Sessions {
		line := make([]string, 0, len(header))
		for _, c := range sessionColumns {
			line = append(line, c.value(s))
		}
		for _, contribution := range s.AllContributions() {
			first, last := ParseName(contribution.Name)
			line = append(line, contribution.Role, first, last)
		}
		rows = append(rows, line)
	}
	return rows
}

// ParadisecCSV renders the collection rows, a blank line and the item table.
func ParadisecCSV(p *project.Project) string {
	return Rows(ParadisecProjectRows(p)) + EOL + EOL + Rows(ParadisecSessionRows(p))
}

// WriteParadisec writes the PARADISEC sheet to path.
func WriteParadisec(ctx context.Context, p *project.Project, path string) error {
	if err := ctx.Err(); err != nil {
		return services.Wrap(services.ErrCancelled, "paradisec", "write csv", "Export cancelled", err)
	}
	if err := fileutil.WriteFileAtomic(path, []byte(ParadisecCSV(p)), 0o644); err != nil {
		return services.Wrap(services.ErrTransient, "paradisec", "write csv", "Cannot write "+path, err)
	}
	return nil
}

// ParseName splits "Last, First" or "First [Middle ...] Last" into first and
// last name.
func ParseName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ""
	}
	if before, after, found := strings.Cut(name, ","); found {
		after, _, _ = strings.Cut(after, ",")
		return strings.TrimSpace(after), strings.TrimSpace(before)
	}
	words := strings.Fields(name)
	if len(words) == 1 {
		return words[0], ""
	}
	return strings.Join(words[:len(words)-1], " "), words[len(words)-1]
}
