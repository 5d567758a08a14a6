package rocrate

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"lameta/internal/exportstrings"
	"lameta/internal/fileformat"
	"lameta/internal/language"
	"lameta/internal/logging"
	"lameta/internal/materialtype"
	"lameta/internal/project"
	"lameta/internal/textutil"
	"lameta/internal/vocab"
	"lameta/internal/warnings"
)

// Options configure Build.
type Options struct {
	Logger   *slog.Logger
	Warnings *warnings.Collector
}

// Identifiers of the vocabulary entities the builder emits.
const (
	CollectionLicenseID = "#collection-license"
	AccessTypesID       = "ldac:AccessTypes"
	OpenAccess          = "ldac:OpenAccess"
	AuthorizedAccess    = "ldac:AuthorizedAccess"
	RoleTermSetID       = "#OLACRoles"
	PeopleDatasetID     = "People/"
)

// Person fields folded into the description. Contact details, nicknames,
// the raw birth year and custom fields are never exported.
var describedPersonFields = []struct{ key, label string }{
	{"education", "Education"},
	{"primaryOccupation", "Primary Occupation"},
	{"ethnicGroup", "Ethnic Group"},
}

type builder struct {
	project  *project.Project
	crate    *Crate
	logger   *slog.Logger
	warnings *warnings.Collector

	personAgeDate map[string]time.Time
	usedRoles     []vocab.Term
	hasFiles      bool
}

// Build produces the crate for a project. Build never fails on content
// problems; they are reported to the warnings collector and left for the
// validator.
func Build(p *project.Project, opts Options) (*Crate, error) {
	if p == nil {
		return nil, fmt.Errorf("rocrate: nil project")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	collector := opts.Warnings
	if collector == nil {
		collector = warnings.New(nil)
	}
	b := &builder{
		project:       p,
		crate:         NewCrate(),
		logger:        logging.NewComponentLogger(logger, "rocrate"),
		warnings:      collector,
		personAgeDate: make(map[string]time.Time),
	}
	for _, problem := range p.Problems {
		b.warnings.Add(problem)
	}
	b.build()
	b.crate.DedupeHasPart()
	b.logger.Debug("crate built",
		logging.Int("entities", b.crate.Len()),
		logging.Int("sessions", len(p.Sessions)),
		logging.Int("people", len(p.People)),
	)
	return b.crate, nil
}

func (b *builder) build() {
	p := b.project
	b.indexPersonSessionDates()
	b.crate.Add(NewEntity(MetadataFileName, Single("CreativeWork")).
		Set("conformsTo", RefTo(SpecURL)).
		Set("about", RefTo(RootID)))

	root := b.crate.Add(NewEntity(RootID, Multiple("Dataset", "RepositoryCollection")))
	root.Set("conformsTo", RefTo(CollectionProfile))
	// A missing title stays missing so repository validation rejects it.
	root.Set("name", p.Fields.Text("title"))
	root.Set("description", p.Fields.Text("collectionDescription"))
	root.Set("identifier", p.Fields.Text("grantId"))
	root.Set("datePublished", p.Fields.Text("dateAvailable"))
	root.Set("license", RefTo(CollectionLicenseID))

	subject := b.collectionSubjectLanguages()
	if len(subject) == 0 {
		b.warnings.Add("The project has no subject language; using 'und'")
		subject = []string{language.Undetermined}
	}
	for _, code := range subject {
		root.AddRef("ldac:subjectLanguage", b.languageEntity(code))
	}
	for _, code := range b.collectionWorkingLanguages() {
		root.AddRef("inLanguage", b.languageEntity(code))
	}
	for _, place := range []string{p.Fields.Text("country"), p.Fields.Text("continent")} {
		if id := b.placeEntity(place); id != "" {
			root.AddRef("contentLocation", id)
		}
	}
	if depositor := p.Fields.Text("depositor"); depositor != "" {
		root.Set("ldac:depositor", RefTo(b.personRef(depositor, "the project depositor")))
	}

	for _, s := range p.Sessions {
		root.AddPart(b.sessionEntity(s, subject))
	}
	if id := b.peopleDataset(); id != "" {
		root.AddPart(id)
	}
	for _, bundle := range exportstrings.Bundles() {
		if id := b.bundleDataset(bundle, subject); id != "" {
			root.AddPart(id)
		}
	}

	b.crate.Add(NewEntity(CollectionLicenseID, Single("ldac:DataReuseLicense")).
		Set("name", "Collection license").
		Set("description", fmt.Sprintf("Marked with the %s-specific term, 'public' which means 'This is an open access license.'", b.archiveName("current archive"))).
		Set("ldac:access", RefTo(OpenAccess)))
	b.accessTypes()
	b.roleTerms()
	if b.hasFiles {
		for _, term := range materialtype.Definitions() {
			e := NewEntity(term.ID, Single(term.Type)).Set("name", term.Name).Set("description", term.Description)
			if term.InSet != "" {
				e.Set("inDefinedTermSet", RefTo(term.InSet))
			}
			b.crate.Add(e)
		}
	}
}

func (b *builder) collectionSubjectLanguages() []string {
	p := b.project
	if codes := language.SplitList(p.Fields.Text("collectionSubjectLanguages")); len(codes) > 0 {
		return codes
	}
	if code, _ := language.ParseCodeAndName(p.Fields.Text("vernacularIso3CodeAndName")); code != "" {
		return []string{code}
	}
	var out []string
	seen := map[string]bool{}
	for _, s := range p.Sessions {
		for _, code := range language.SplitList(s.Fields.Text("languages")) {
			if !seen[code] {
				seen[code] = true
				out = append(out, code)
			}
		}
	}
	return out
}

func (b *builder) collectionWorkingLanguages() []string {
	p := b.project
	if codes := language.SplitList(p.Fields.Text("collectionWorkingLanguages")); len(codes) > 0 {
		return codes
	}
	if code, _ := language.ParseCodeAndName(p.Fields.Text("analysisIso3CodeAndName")); code != "" {
		return []string{code}
	}
	return nil
}

// languageEntity adds the Language entity for code and returns its id.
func (b *builder) languageEntity(code string) string {
	iso3 := language.ToISO3(code)
	id := "#language_" + iso3
	if !b.crate.Has(id) {
		b.crate.Add(NewEntity(id, Single("Language")).
			Set("name", language.DisplayName(iso3)).
			Set("code", iso3).
			Set("sameAs", RefTo(language.LexvoURI(iso3))))
	}
	return id
}

func (b *builder) placeEntity(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "unspecified") {
		return ""
	}
	id := "#place_" + textutil.SanitizeForIRI(name)
	if !b.crate.Has(id) {
		b.crate.Add(NewEntity(id, Single("Place")).Set("name", name))
	}
	return id
}

// personRef resolves a contributor name to a person entity id. Names with
// no matching person get a stand-alone Person entity and a warning.
func (b *builder) personRef(name, where string) string {
	if person := b.project.FindPerson(name); person != nil {
		return b.personEntity(person)
	}
	id := "#" + textutil.SanitizeForIRI(strings.TrimSpace(name))
	if !b.crate.Has(id) {
		b.warnings.Addf("Contributor '%s' in %s has no matching person", strings.TrimSpace(name), where)
		b.crate.Add(NewEntity(id, Single("Person")).Set("name", strings.TrimSpace(name)))
	}
	return id
}

func sessionID(s *project.Session) string {
	return project.SessionsDir + "/" + textutil.SanitizeForIRI(s.ID) + "/"
}

func personID(p *project.Person) string {
	return project.PeopleDir + "/" + textutil.SanitizeForIRI(p.ID) + "/"
}

func (b *builder) indexPersonSessionDates() {
	for _, s := range b.project.Sessions {
		date, ok := s.Date()
		if !ok {
			continue
		}
		for _, c := range s.AllContributions() {
			person := b.project.FindPerson(c.Name)
			if person == nil {
				continue
			}
			if existing, ok := b.personAgeDate[person.ID]; !ok || date.Before(existing) {
				b.personAgeDate[person.ID] = date
			}
		}
	}
}

func (b *builder) sessionEntity(s *project.Session, collectionSubject []string) string {
	id := sessionID(s)
	e := b.crate.Add(NewEntity(id, Multiple("Dataset", "RepositoryObject", "CollectionEvent")))
	e.Set("conformsTo", RefTo(ObjectProfile))
	e.Set("name", s.Title())
	e.Set("description", s.Fields.Text("description"))
	e.Set("dateCreated", s.Fields.Text("date"))
	e.Set("keywords", s.Fields.Text("keyword"))
	e.Set("isPartOf", RefTo(RootID))

	subject := language.SplitList(s.Fields.Text("languages"))
	if len(subject) == 0 {
		b.warnings.Addf("Session '%s' has no subject language; using 'und'", s.ID)
		subject = []string{language.Undetermined}
	}
	for _, code := range subject {
		e.AddRef("ldac:subjectLanguage", b.languageEntity(code))
	}
	for _, code := range language.SplitList(s.Fields.Text("workingLanguages")) {
		e.AddRef("inLanguage", b.languageEntity(code))
	}
	for _, place := range []string{s.Fields.Text("locationCountry"), s.Fields.Text("locationRegion"), s.Fields.Text("location")} {
		if placeID := b.placeEntity(place); placeID != "" {
			e.AddRef("contentLocation", placeID)
		}
	}

	if genre := s.Fields.Text("genre"); genre != "" {
		e.Set("ldac:linguisticGenre", RefTo(b.genreEntity(genre)))
	}

	for _, c := range s.AllContributions() {
		if strings.TrimSpace(c.Name) == "" {
			continue
		}
		property := vocab.RoleProperty(c.Role)
		personRef := b.personRef(c.Name, "session '"+s.ID+"'")
		if !containsString(e.RefIDs(property), personRef) {
			e.AddRef(property, personRef)
		}
		if term, ok := vocab.Role(c.Role); ok {
			b.noteRole(term)
		}
	}

	licenseID := b.sessionLicense(s)
	e.Set("license", RefTo(licenseID))

	e.AddPart(b.fileEntity(s.MetadataFile, id, licenseID))
	for _, f := range s.Files {
		e.AddPart(b.fileEntity(f, id, licenseID))
	}
	return id
}

func (b *builder) genreEntity(genre string) string {
	term := vocab.ResolveGenre(genre, b.project.Title())
	if !b.crate.Has(term.ID) {
		b.crate.Add(NewEntity(term.ID, Single("DefinedTerm")).
			Set("name", term.Name).
			Set("inDefinedTermSet", RefTo(term.InSet)))
	}
	if !b.crate.Has(term.InSet) {
		name := "Linguistic Genre Terms"
		if term.InSet == vocab.CustomGenreTermSet {
			name = "Custom Genre Terms"
		}
		b.crate.Add(NewEntity(term.InSet, Single("DefinedTermSet")).Set("name", name))
	}
	return term.ID
}

func (b *builder) noteRole(term vocab.Term) {
	for _, used := range b.usedRoles {
		if used.ID == term.ID {
			return
		}
	}
	b.usedRoles = append(b.usedRoles, term)
}

func (b *builder) roleTerms() {
	if len(b.usedRoles) == 0 {
		return
	}
	set := b.crate.Add(NewEntity(RoleTermSetID, Single("DefinedTermSet")).Set("name", "OLAC Roles"))
	for _, term := range b.usedRoles {
		id := "#role_" + term.ID
		e := b.crate.Add(NewEntity(id, Single("DefinedTerm")).
			Set("name", term.Label).
			Set("termCode", term.ID).
			Set("inDefinedTermSet", RefTo(RoleTermSetID)))
		if term.LDAC != "" {
			e.Set("sameAs", RefTo(term.LDAC))
		}
		set.AddRef("hasDefinedTerm", id)
	}
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]`)

func (b *builder) archiveName(fallback string) string {
	if name := b.project.Fields.Text("archiveConfigurationName"); name != "" {
		return name
	}
	return fallback
}

// sessionLicense adds the license entity for the session's access code.
func (b *builder) sessionLicense(s *project.Session) string {
	access := s.Fields.Text("access")
	specified := access != "" && access != "unspecified"
	normalized := "public"
	if specified {
		normalized = access
	}
	key, _, _ := strings.Cut(normalized, ":")
	archive := b.archiveName("unknown")
	id := fmt.Sprintf("#license-%s-%s",
		nonAlnum.ReplaceAllString(strings.ToLower(archive), "-"),
		nonAlnum.ReplaceAllString(strings.ToLower(strings.TrimSpace(key)), "-"))
	if b.crate.Has(id) {
		return id
	}

	category := OpenAccess
	description := fmt.Sprintf("Marked with the %s-specific term, 'public' which means 'This is an open access license.'", b.archiveName("current archive"))
	if specified {
		category = accessCategory(access)
		description = fmt.Sprintf("Marked with the %s-specific term, '%s'", b.archiveName("current archive"), access)
		if detail := s.Fields.Text("accessDescription"); detail != "" {
			description += fmt.Sprintf(" which means '%s'", detail)
		}
	}
	b.crate.Add(NewEntity(id, Single("ldac:DataReuseLicense")).
		Set("name", normalized).
		Set("description", description).
		Set("ldac:access", RefTo(category)))
	return id
}

func accessCategory(access string) string {
	lower := strings.ToLower(access)
	for _, term := range []string{"public", "open", "free", "unrestricted"} {
		if strings.Contains(lower, term) {
			return OpenAccess
		}
	}
	return AuthorizedAccess
}

func (b *builder) accessTypes() {
	used := map[string]bool{}
	for _, e := range b.crate.entities {
		for _, id := range e.RefIDs("ldac:access") {
			used[id] = true
		}
	}
	if len(used) == 0 {
		return
	}
	b.crate.Add(NewEntity(AccessTypesID, Single("DefinedTermSet")).Set("name", "Access Types"))
	terms := []struct{ id, name, description string }{
		{OpenAccess, "Open Access", "Data covered by this license may be accessed as long as the license is served alongside it, and does not require any specific authorization step."},
		{AuthorizedAccess, "Authorized Access", "Data covered by this license may only be accessed by users who have been granted access by the data steward."},
	}
	for _, term := range terms {
		if !used[term.id] {
			continue
		}
		b.crate.Add(NewEntity(term.id, Single("DefinedTerm")).
			Set("name", term.name).
			Set("description", term.description).
			Set("inDefinedTermSet", RefTo(AccessTypesID)))
	}
}

func (b *builder) personEntity(person *project.Person) string {
	id := personID(person)
	if b.crate.Has(id) {
		return id
	}
	e := b.crate.Add(NewEntity(id, Single("Person")))
	e.Set("name", person.Name())
	if gender := person.Fields.Text("gender"); gender != "" && gender != "unspecified" {
		e.Set("gender", gender)
	}
	if date, ok := b.personAgeDate[person.ID]; ok {
		if age, ok := person.AgeAt(date); ok {
			e.Set("ldac:age", strconv.Itoa(age))
		}
	}
	var description []string
	if d := person.Fields.Text("description"); d != "" {
		description = append(description, d)
	}
	for _, f := range describedPersonFields {
		if v := person.Fields.Text(f.key); v != "" && v != "unspecified" {
			description = append(description, fmt.Sprintf("%s: %s.", f.label, v))
		}
	}
	e.Set("description", strings.Join(description, " "))
	for _, code := range person.LanguageCodes() {
		e.AddRef("knowsLanguage", b.languageEntity(code))
	}
	return id
}

// peopleDataset groups person files. People themselves are contextual
// entities and cannot carry hasPart, so their files point back with about.
func (b *builder) peopleDataset() string {
	var files []string
	for _, person := range b.project.People {
		if len(person.Files) == 0 {
			continue
		}
		personRef := b.personEntity(person)
		for _, f := range person.Files {
			fileID := b.fileEntity(f, PeopleDatasetID, "")
			b.crate.Get(fileID).Set("about", RefTo(personRef))
			files = append(files, fileID)
		}
	}
	if len(files) == 0 {
		return ""
	}
	e := b.crate.Add(NewEntity(PeopleDatasetID, Single("Dataset")).
		Set("name", "People").
		Set("isPartOf", RefTo(RootID)))
	for _, id := range files {
		e.AddPart(id)
	}
	return PeopleDatasetID
}

func (b *builder) bundleDataset(bundle exportstrings.Bundle, subject []string) string {
	var files []project.File
	parent := string(bundle) + "/"
	switch bundle {
	case exportstrings.DescriptionDocuments:
		files = b.project.DescriptionDocuments
	case exportstrings.OtherDocuments:
		files = b.project.OtherDocuments
	case exportstrings.ConsentDocuments:
		files = b.project.ConsentFiles()
		parent = PeopleDatasetID
	}
	if len(files) == 0 {
		return ""
	}
	id := string(bundle) + "/"
	e := b.crate.Add(NewEntity(id, Multiple("Dataset", "RepositoryObject")))
	e.Set("conformsTo", RefTo(ObjectProfile))
	e.Set("name", exportstrings.Title(bundle))
	e.Set("description", exportstrings.Description(bundle))
	e.Set("isPartOf", RefTo(RootID))
	e.Set("license", RefTo(CollectionLicenseID))
	for _, code := range subject {
		e.AddRef("ldac:subjectLanguage", b.languageEntity(code))
	}
	for _, f := range files {
		e.AddPart(b.fileEntity(f, parent, CollectionLicenseID))
	}
	return id
}

func (b *builder) fileID(f project.File, parent string) string {
	if parent == PeopleDatasetID {
		dir := strings.TrimSuffix(f.RelPath, "/"+f.Name)
		personDir := strings.TrimPrefix(dir, project.PeopleDir+"/")
		return project.PeopleDir + "/" + textutil.SanitizeForIRI(personDir) + "/" + textutil.SanitizeForIRI(f.Name)
	}
	return parent + textutil.SanitizeForIRI(f.Name)
}

// fileEntity adds the File entity for f under parent and returns its id.
func (b *builder) fileEntity(f project.File, parent, licenseID string) string {
	id := b.fileID(f, parent)
	if b.crate.Has(id) {
		return id
	}
	b.hasFiles = true
	e := b.crate.Add(NewEntity(id, TypesOf(fileformat.ROCrateTypes(f.Name))))
	e.Set("name", f.Name)
	e.Set("encodingFormat", fileformat.MimeTypeForPath(f.Name))
	e.Set("contentSize", f.Size)
	e.Set("ldac:materialType", RefTo(string(materialtype.ClassifyByPath(f.Name))))
	e.Set("description", f.Fields.Text("notes"))
	e.Set("isPartOf", RefTo(parent))
	if licenseID != "" {
		e.Set("license", RefTo(licenseID))
	}
	b.crate.SetSource(id, f.Path)
	if _, known := fileformat.LookupPath(f.Name); !known {
		b.logger.Debug("unclassified file type", logging.String("file", f.RelPath))
	}
	return id
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
