package csvexport

import (
	"bytes"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"

	"lameta/internal/fileutil"
	"lameta/internal/project"
	"lameta/internal/services"
)

// Keys left out of the generic tables.
var genericBlacklist = []string{"modifiedDate", "size", "type"}

// Column order for well-known fields. Anything else follows alphabetically.
var (
	knownProjectFields = []string{
		"title", "grantId", "projectDescription", "collectionDescription",
		"fundingProjectTitle", "fundingProjectFunder", "fundingProjectAffiliation",
		"depositor", "contactPerson", "collectionSteward", "collectionDeputySteward",
		"collectionKey", "collectionSubjectLanguages", "collectionWorkingLanguages",
		"vernacularIso3CodeAndName", "analysisIso3CodeAndName",
		"country", "continent", "region", "location",
		"dateAvailable", "accessProtocol", "archiveConfigurationName",
	}
	knownSessionFields = []string{
		"id", "title", "description", "date", "genre", "subgenre",
		"languages", "workingLanguages",
		"locationContinent", "locationCountry", "locationRegion", "location",
		"setting", "situation", "planningType", "involvement", "socialContext",
		"access", "accessDescription", "keyword", "topic", "status", "notes",
	}
	knownPersonFields = []string{
		"name", "code", "nickname", "languages", "birthYear", "gender",
		"education", "primaryOccupation", "ethnicGroup", "howToContact", "description",
	}
)

// row is one folder's values by key, plus the key order they were found in.
type row struct {
	keys   []string
	values map[string]string
}

func fieldsRow(fields *project.Fields) row {
	r := row{values: map[string]string{}}
	for _, f := range fields.All() {
		r.keys = append(r.keys, f.Key)
		r.values[f.Key] = f.Text()
	}
	return r
}

// table builds a header from the union of keys and one line per row.
func table(rows []row, known []string) string {
	if len(rows) == 0 {
		return ""
	}
	var header []string
	for _, r := range rows {
		for _, k := range r.keys {
			if !slices.Contains(genericBlacklist, k) && !slices.Contains(header, k) {
				header = append(header, k)
			}
		}
	}
	rank := func(k string) int {
		if i := slices.Index(known, k); i >= 0 {
			return i
		}
		return len(known)
	}
	slices.SortStableFunc(header, func(a, b string) int {
		if ra, rb := rank(a), rank(b); ra != rb {
			return ra - rb
		}
		return strings.Compare(a, b)
	})

	out := [][]string{header}
	for _, r := range rows {
		line := make([]string, len(header))
		for i, k := range header {
			line[i] = r.values[k]
		}
		out = append(out, line)
	}
	return Rows(out)
}

// ProjectCSV is the project-level table.
func ProjectCSV(p *project.Project) string {
	return table([]row{fieldsRow(&p.Fields)}, knownProjectFields)
}

// SessionsCSV has one line per session.
func SessionsCSV(p *project.Project) string {
	rows := make([]row, 0, len(p.Sessions))
	for _, s := range p.Sessions {
		rows = append(rows, fieldsRow(&s.Fields))
	}
	return table(rows, knownSessionFields)
}

// PeopleCSV has one line per person. Person languages are folded into a
// languages column.
func PeopleCSV(p *project.Project) string {
	rows := make([]row, 0, len(p.People))
	for _, person := range p.People {
		r := fieldsRow(&person.Fields)
		if codes := person.LanguageCodes(); len(codes) > 0 {
			if _, ok := r.values["languages"]; !ok {
				r.keys = append(r.keys, "languages")
			}
			r.values["languages"] = strings.Join(codes, ";")
		}
		rows = append(rows, r)
	}
	return table(rows, knownPersonFields)
}

// Zip returns the archive holding project.csv, sessions.csv and people.csv.
// Entries are stamped with modified so identical projects give identical
// archives.
func Zip(p *project.Project, modified time.Time) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	entries := []struct {
		name string
		body string
	}{
		{"project.csv", ProjectCSV(p)},
		{"sessions.csv", SessionsCSV(p)},
		{"people.csv", PeopleCSV(p)},
	}
	for _, e := range entries {
		fw, err := w.CreateHeader(&zip.FileHeader{Name: e.name, Method: zip.Deflate, Modified: modified})
		if err != nil {
			return nil, err
		}
		if _, err := fw.Write([]byte(e.body)); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteZip writes the generic CSV zip to path.
func WriteZip(ctx context.Context, p *project.Project, path string, modified time.Time) error {
	if err := ctx.Err(); err != nil {
		return services.Wrap(services.ErrCancelled, "csv", "write zip", "Export cancelled", err)
	}
	data, err := Zip(p, modified)
	if err != nil {
		return services.Wrap(services.ErrTransient, "csv", "build zip", "Cannot build CSV archive", err)
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return services.Wrap(services.ErrTransient, "csv", "write zip", "Cannot write "+path, err)
	}
	return nil
}
