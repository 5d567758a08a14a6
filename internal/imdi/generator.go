package imdi

import (
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	textlang "golang.org/x/text/language"

	"lameta/internal/fileformat"
	"lameta/internal/language"
	"lameta/internal/logging"
	"lameta/internal/project"
	"lameta/internal/textutil"
	"lameta/internal/vocab"
	"lameta/internal/warnings"
)

// Mode selects plain IMDI or IMDI wrapped in OPEX descriptive metadata.
type Mode int

const (
	ModeIMDI Mode = iota
	ModeOPEX
)

// Extension is the metadata file extension for the mode, with the dot.
func (m Mode) Extension() string {
	if m == ModeOPEX {
		return ".opex"
	}
	return ".imdi"
}

func (m Mode) String() string {
	if m == ModeOPEX {
		return "opex"
	}
	return "imdi"
}

const (
	schemaBase      = "http://www.mpi.nl/IMDI/Schema/"
	imdiNamespace   = "http://www.mpi.nl/IMDI/Schema/IMDI"
	xsiNamespace    = "http://www.w3.org/2001/XMLSchema-instance"
	schemaLocation  = "http://www.mpi.nl/IMDI/Schema/IMDI_3.0.xsd"
	opexNamespace   = "http://www.openpreservationexchange.org/opex/v1.2"
	formatID        = "IMDI 3.0"
	unspecified     = "Unspecified"
	closedVocab     = "ClosedVocabulary"
	openVocab       = "OpenVocabulary"
	openVocabList   = "OpenVocabularyList"
	tildeBirthYears = `lameta found one or more Persons with Birth Years of the form "~1234". These will be converted to a range, e.g. "1233/1235".`
)

// Options configure a Generator.
type Options struct {
	Mode Mode
	// Originator is written to the METATRANSCRIPT Originator attribute.
	Originator string
	// Now fixes the document date; time.Now when nil.
	Now      func() time.Time
	Logger   *slog.Logger
	Warnings *warnings.Collector
	// OmitNamespaces drops the schema attributes from the root element.
	OmitNamespaces bool
}

// Generator builds IMDI documents for one project.
type Generator struct {
	project  *project.Project
	opts     Options
	logger   *slog.Logger
	warnings *warnings.Collector
}

// NewGenerator returns a generator for p.
func NewGenerator(p *project.Project, opts Options) *Generator {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	collector := opts.Warnings
	if collector == nil {
		collector = warnings.New(nil)
	}
	if opts.Originator == "" {
		opts.Originator = "lameta"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Generator{
		project:  p,
		opts:     opts,
		logger:   logging.NewComponentLogger(logger, "imdi"),
		warnings: collector,
	}
}

func (g *Generator) today() string {
	return g.opts.Now().Format(time.DateOnly)
}

// root starts a document. It returns the outermost element and the
// METATRANSCRIPT element, which differ only in OPEX mode.
func (g *Generator) root(kind string) (*Node, *Node) {
	transcript := NewNode("METATRANSCRIPT", "")
	if !g.opts.OmitNamespaces {
		transcript.Attr("xmlns", imdiNamespace).
			Attr("xmlns:xsi", xsiNamespace).
			Attr("xsi:schemaLocation", schemaLocation).
			Attr("Type", kind).
			Attr("Version", "0")
	}
	transcript.Attr("Date", g.today()).
		Attr("Originator", g.opts.Originator).
		Attr("FormatId", formatID)
	if g.opts.Mode != ModeOPEX {
		return transcript, transcript
	}
	wrapper := NewNode("opex:OPEXMetadata", "").Attr("xmlns:opex", opexNamespace)
	wrapper.Add("opex:DescriptiveMetadata", "").Children = []*Node{transcript}
	return wrapper, transcript
}

// Transcript returns the METATRANSCRIPT element of a generated document.
func Transcript(doc *Node) *Node {
	if doc.Name == "METATRANSCRIPT" {
		return doc
	}
	return doc.Find("opex:DescriptiveMetadata/METATRANSCRIPT")
}

// el adds an element. IMDI spells its vocabulary value with a capital U.
func el(parent *Node, name, value string) *Node {
	if value == "unspecified" {
		value = unspecified
	}
	return parent.Add(name, value)
}

// vocabEl adds an element bound to an IMDI vocabulary.
func vocabEl(parent *Node, name, value, vocabulary, kind string) *Node {
	return el(parent, name, value).Attr("Link", schemaBase+vocabulary).Attr("Type", kind)
}

// optional adds an element only when value is non-empty.
func optional(parent *Node, name, value string) {
	if value != "" {
		el(parent, name, value)
	}
}

// Corpus builds the corpus document. links are the bundle-relative paths
// of the session documents, in CorpusLink order.
func (g *Generator) Corpus(links []string) *Node {
	p := g.project
	doc, transcript := g.root("CORPUS")
	corpus := transcript.Add("Corpus", "")
	el(corpus, "Name", p.Name)
	el(corpus, "Title", p.Fields.Text("title"))
	el(corpus, "Description", p.Fields.Text("collectionDescription")).Attr("Name", "short_description")

	corpus.Group("MDGroup", func(md *Node) {
		g.location(md, nil)
		g.projectInfo(md)
		md.Group("Keys", func(keys *Node) {
			key(keys, "CorpusId", p.Fields.Text("collectionKey"))
			key(keys, "Funding Body", p.Fields.Text("fundingProjectFunder"))
		})
		md.Group("Content", func(content *Node) {
			el(content, "Genre", unspecified)
			content.Add("CommunicationContext", "")
			content.Add("Languages", "")
			content.Add("Keys", "")
		})
		md.Group("Actors", func(actors *Node) {
			g.simpleActor(actors, "Collection Steward", p.Fields.Text("collectionSteward"))
			for _, name := range splitNames(p.Fields.Text("collectionDeputySteward")) {
				g.simpleActor(actors, "Deputy Collection Steward", name)
			}
			for _, name := range splitNames(p.Fields.Text("depositor")) {
				g.simpleActor(actors, "Depositor", name)
			}
		})
	})

	for _, link := range links {
		name := strings.TrimSuffix(path.Base(link), ModeIMDI.Extension())
		name = strings.TrimSuffix(name, ModeOPEX.Extension())
		el(corpus, "CorpusLink", link).Attr("Name", name)
	}
	return doc
}

func key(parent *Node, name, value string) {
	el(parent, "Key", value).Attr("Name", name)
}

func splitNames(value string) []string {
	var out []string
	for _, name := range strings.Split(value, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func (g *Generator) simpleActor(actors *Node, role, name string) {
	actor := actors.Add("Actor", "")
	el(actor, "Role", role)
	el(actor, "Name", name)
	el(actor, "FullName", name)
	for _, empty := range []string{"Code", "FamilySocialRole", "Languages", "EthnicGroup"} {
		actor.Add(empty, "")
	}
	el(actor, "Age", unspecified)
	el(actor, "BirthDate", unspecified)
	actor.Add("Sex", "")
	actor.Add("Education", "")
	el(actor, "Anonymized", "false")
	actor.Add("Contact", "")
	actor.Add("Keys", "")
	actor.Add("Description", "")
}

func (g *Generator) projectInfo(md *Node) {
	p := g.project
	md.Group("Project", func(info *Node) {
		el(info, "Name", p.Fields.Text("title"))
		el(info, "Title", p.Fields.Text("fundingProjectTitle"))
		el(info, "Id", p.Fields.Text("grantId"))
		info.Group("Contact", func(contact *Node) {
			optional(contact, "Name", p.Fields.Text("contactPerson"))
			optional(contact, "Description", p.Fields.Text("projectDescription"))
			optional(contact, "Organisation", p.Fields.Text("fundingProjectAffiliation"))
		})
	})
}

// location writes the Location group, falling back to project fields when
// the session leaves them empty.
func (g *Generator) location(md *Node, s *project.Session) {
	p := g.project
	pick := func(sessionKey, projectKey string) string {
		if s != nil {
			if v := s.Fields.Text(sessionKey); v != "" {
				return v
			}
		}
		return p.Fields.Text(projectKey)
	}
	md.Group("Location", func(loc *Node) {
		el(loc, "Continent", pick("locationContinent", "continent"))
		el(loc, "Country", pick("locationCountry", "country"))
		el(loc, "Region", pick("locationRegion", "region"))
		optional(loc, "Address", pick("location", "region"))
	})
}

// Session fields with an explicit home in the session document.
var sessionHandled = []string{
	"id", "title", "date", "description",
	"locationContinent", "locationCountry", "locationRegion", "location",
	"genre", "subgenre", "planningType", "involvement", "socialContext",
	"languages", "workingLanguages",
}

// Person fields with an explicit home in an Actor, or withheld as personal
// information.
var personHandled = []string{
	"name", "code", "ethnicGroup", "birthYear", "gender", "education",
	"howToContact", "description",
	"primaryLanguage", "otherLanguage0", "otherLanguage1", "otherLanguage2", "otherLanguage3",
	"mothersLanguage", "fathersLanguage",
}

// Fields that never become Keys.
var keyBlacklist = []string{
	"modifiedDate", "displayName", "type", "filename", "size",
	"contributions", "access", "notes", "accessDescription",
}

// Session builds the document for one session.
func (g *Generator) Session(s *project.Session) *Node {
	doc, transcript := g.root("SESSION")
	transcript.Attr("ArchiveHandle", "")
	session := transcript.Add("Session", "")
	el(session, "Name", strings.ReplaceAll(s.Fields.Text("id"), " ", "_"))
	el(session, "Title", s.Fields.Text("title"))
	el(session, "Date", imdiDate(s.Fields.Text("date")))
	el(session, "Description", s.Fields.Text("description"))

	session.Group("MDGroup", func(md *Node) {
		g.location(md, s)
		g.projectInfo(md)
		md.Add("Keys", "")
		g.content(md, s)
		g.actors(md, s)
	})
	g.resources(session, s.Files, filepath.Base(s.Dir), s)
	g.logger.Debug("session document built",
		logging.String("session", s.ID),
		logging.Int("files", len(s.Files)),
	)
	return doc
}

func imdiDate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return unspecified
	}
	if len(value) > len(time.DateOnly) {
		return value[:len(time.DateOnly)]
	}
	return value
}

func (g *Generator) content(md *Node, s *project.Session) {
	md.Group("Content", func(content *Node) {
		el(content, "Genre", genreLabel(s.Fields.Text("genre")))
		el(content, "SubGenre", vocabularyLabel(s.Fields.Text("subgenre")))
		vocabEl(content, "Task", "", "Content-Task.xml", openVocab)
		vocabEl(content, "Modalities", "", "Content-Modalities.xml", openVocab)
		vocabEl(content, "Subject", "", "Content-Subject.xml", openVocabList)
		content.Group("CommunicationContext", func(cc *Node) {
			vocabEl(cc, "Interactivity", "unspecified", "Content-Interactivity.xml", closedVocab)
			el(cc, "PlanningType", s.Fields.Text("planningType"))
			el(cc, "Involvement", s.Fields.Text("involvement"))
			el(cc, "SocialContext", vocabularyLabel(s.Fields.Text("socialContext")))
			vocabEl(cc, "EventStructure", "unspecified", "Content-EventStructure.xml", closedVocab)
			vocabEl(cc, "Channel", "unspecified", "Content-Channel.xml", closedVocab)
		})
		content.Group("Languages", func(langs *Node) {
			g.sessionLanguages(langs, s.Fields.Text("languages"), "collectionSubjectLanguages", "vernacularIso3CodeAndName", "Subject Language")
			g.sessionLanguages(langs, s.Fields.Text("workingLanguages"), "collectionWorkingLanguages", "analysisIso3CodeAndName", "Working Language")
		})
		keys := content.Add("Keys", "")
		addKeys(keys, &s.Fields, slices.Concat(sessionHandled, keyBlacklist))
	})
}

func (g *Generator) sessionLanguages(langs *Node, value, projectList, projectCodeAndName, description string) {
	codes := language.SplitList(value)
	if len(codes) == 0 {
		codes = language.SplitList(g.project.Fields.Text(projectList))
	}
	if len(codes) == 0 {
		if code, _ := language.ParseCodeAndName(g.project.Fields.Text(projectCodeAndName)); code != "" {
			codes = []string{code}
		}
	}
	for _, code := range codes {
		langs.Group("Language", func(l *Node) {
			el(l, "Id", "ISO639-3:"+language.ToISO3(code))
			vocabEl(l, "Name", language.DisplayName(code), "MPI-Languages.xml", openVocab)
			el(l, "Description", description)
		})
	}
}

func genreLabel(genre string) string {
	if term, ok := vocab.Genre(genre); ok {
		return vocabularyLabel(term.Label)
	}
	return vocabularyLabel(genre)
}

func vocabularyLabel(value string) string {
	return sentenceCase(strings.ReplaceAll(strings.TrimSpace(value), "_", " "))
}

func (g *Generator) actors(md *Node, s *project.Session) {
	date, hasDate := s.Date()
	md.Group("Actors", func(actors *Node) {
		for _, c := range s.AllContributions() {
			name := strings.TrimSpace(c.Name)
			if name == "" {
				continue
			}
			person := g.project.FindPerson(name)
			if person == nil {
				actor := actors.Add("Actor", "")
				actor.Comment(fmt.Sprintf("Could not find a person with name %q", name))
				g.unknownActor(actor, roleOutput(c.Role), name)
				continue
			}
			g.actor(actors, person, c, date, hasDate)
		}
	})
}

func (g *Generator) unknownActor(actor *Node, role, name string) {
	el(actor, "Role", role)
	el(actor, "Name", name)
	el(actor, "FullName", name)
	for _, empty := range []string{"Code", "FamilySocialRole", "Languages", "EthnicGroup"} {
		actor.Add(empty, "")
	}
	el(actor, "Age", unspecified)
	el(actor, "BirthDate", unspecified)
	for _, empty := range []string{"Sex", "Education"} {
		actor.Add(empty, "")
	}
	el(actor, "Anonymized", "false")
	for _, empty := range []string{"Contact", "Keys", "Description"} {
		actor.Add(empty, "")
	}
}

// roleOutput turns a role id into the IMDI label: underscores become
// spaces and the first letter is upper-cased.
func roleOutput(role string) string {
	role = strings.TrimSpace(role)
	if role == "" {
		return unspecified
	}
	role = strings.ReplaceAll(role, "_", " ")
	first, size := utf8.DecodeRuneInString(role)
	return cases.Upper(textlang.Und).String(string(first)) + role[size:]
}

func (g *Generator) actor(actors *Node, person *project.Person, c project.Contribution, date time.Time, hasDate bool) {
	actor := actors.Add("Actor", "")
	el(actor, "Role", roleOutput(c.Role))
	el(actor, "Name", person.Name())
	el(actor, "FullName", person.Name())
	el(actor, "Code", person.Fields.Text("code"))
	actor.Add("FamilySocialRole", "")
	actor.Group("Languages", func(langs *Node) {
		for _, l := range person.Languages {
			actorLanguage(langs, l)
		}
	})
	el(actor, "EthnicGroup", person.Fields.Text("ethnicGroup"))

	birthYear := strings.TrimSpace(person.Fields.Text("birthYear"))
	switch {
	case birthYear == "?":
		el(actor, "Age", "Unknown")
	case birthYear == "":
		actor.Comment("Could not compute age")
		el(actor, "Age", unspecified)
	default:
		age := unspecified
		if !hasDate {
			actor.Comment("Could not compute age")
		} else if years, ok := person.AgeAt(date); ok {
			age = strconv.Itoa(years)
		}
		el(actor, "Age", age)
	}

	birthDate := ConformantBirthDate(birthYear)
	if birthYear != "" && birthYear != "?" && birthDate != birthYear {
		if tildeBirthYear.MatchString(birthYear) {
			g.warnings.Add(tildeBirthYears)
		} else {
			g.warnings.Addf("Person %q: BirthYear %q is not valid for IMDI export. Using %q instead.", person.Name(), birthYear, unspecified)
		}
	}
	el(actor, "BirthDate", birthDate)

	gender := person.Fields.Text("gender")
	if gender == "Other" {
		actor.Comment("Gender was actually 'Other'. The IMDI Schema does not have an 'other' option, so we are using 'Unspecified'.")
		gender = unspecified
	}
	vocabEl(actor, "Sex", gender, "Actor-Sex.xml", closedVocab)
	el(actor, "Education", person.Fields.Text("education"))
	el(actor, "Anonymized", "false")
	if person.Fields.Text("howToContact") != "" {
		actor.Comment("Omitting howToContact, which is personally identifiable information.")
	}
	keys := actor.Add("Keys", "")
	addKeys(keys, &person.Fields, slices.Concat(personHandled, keyBlacklist))
	if comments := strings.TrimSpace(c.Comments); comments != "" {
		key(keys, "contribution-comments", comments)
	}
	el(actor, "Description", person.Fields.Text("description"))
}

func actorLanguage(langs *Node, l project.PersonLanguage) {
	langs.Group("Language", func(n *Node) {
		el(n, "Id", "ISO639-3:"+language.ToISO3(l.Code))
		el(n, "Name", language.DisplayName(l.Code)).Attr("Link", schemaBase+"MPI-Languages.xml")
		el(n, "PrimaryLanguage", strconv.FormatBool(l.Primary)).
			Attr("Type", closedVocab).
			Attr("Link", schemaBase+"Boolean.xml")
		var spoken []string
		if l.Father {
			spoken = append(spoken, "Also spoken by father.")
		}
		if l.Mother {
			spoken = append(spoken, "Also spoken by mother.")
		}
		optional(n, "Description", strings.Join(spoken, " "))
	})
}

var (
	imdiDatePattern = regexp.MustCompile(`^([0-9]{4}(-(0[1-9]|1[012])(-([0-2][0-9]|3[01]))?)?)(/[0-9]{4}(-(0[1-9]|1[012])(-([0-2][0-9]|3[01]))?)?)?$|^Unknown$|^Unspecified$`)
	tildeBirthYear  = regexp.MustCompile(`^~(\d{4})$`)
)

// ConformantBirthDate maps a lameta birth year onto an IMDI date. Valid IMDI
// dates pass through, "~1964" becomes the range "1963/1965" and anything
// else is Unspecified.
func ConformantBirthDate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return unspecified
	}
	if imdiDatePattern.MatchString(value) {
		return value
	}
	if m := tildeBirthYear.FindStringSubmatch(value); m != nil {
		year, _ := strconv.Atoi(m[1])
		return fmt.Sprintf("%d/%d", year-1, year+1)
	}
	return unspecified
}

// addKeys writes the fields IMDI has no element for as Key entries.
func addKeys(keys *Node, fields *project.Fields, skip []string) {
	for _, f := range fields.All() {
		if slices.Contains(skip, f.Key) {
			continue
		}
		value := strings.TrimSpace(f.Text())
		if value == "" {
			continue
		}
		values := []string{value}
		if f.Key == "topic" || f.Key == "keyword" {
			values = splitNames(value)
		}
		for _, v := range values {
			if f.Key == "status" {
				v = sentenceCaseUnlessAcronym(v)
			}
			key(keys, capitalCase(f.Key), v)
		}
	}
}

var titleCaser = cases.Title(textlang.Und)

// capitalCase turns a field key such as "fundingProjectFunder" or
// "location_notes" into "Funding Project Funder" or "Location Notes".
func capitalCase(key string) string {
	var words []string
	var current []rune
	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}
	runes := []rune(key)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			flush()
			continue
		case unicode.IsUpper(r) && i > 0 && unicode.IsLower(runes[i-1]):
			flush()
		}
		current = append(current, r)
	}
	flush()
	return titleCaser.String(strings.Join(words, " "))
}

func sentenceCase(value string) string {
	if value == "" {
		return ""
	}
	lower := cases.Lower(textlang.Und).String(value)
	first, size := utf8.DecodeRuneInString(lower)
	return string(unicode.ToUpper(first)) + lower[size:]
}

func sentenceCaseUnlessAcronym(value string) string {
	if value == strings.ToUpper(value) {
		return value
	}
	return sentenceCase(value)
}

// skippedExtensions never appear in Resources.
var skippedExtensions = []string{".sprj", ".session", ".person", ".skip", ".meta"}

// IncludeFile reports whether a file is listed as a resource.
func IncludeFile(name string) bool {
	return !slices.Contains(skippedExtensions, strings.ToLower(filepath.Ext(name)))
}

// ResourceName is the archive-safe name a file is exported under.
func ResourceName(name string) string {
	return textutil.SanitizeForArchive(name, true)
}

// resources writes MediaFile entries before WrittenResource entries, each
// sorted by link, as the schema's xs:sequence requires.
func (g *Generator) resources(parent *Node, files []project.File, linkDir string, s *project.Session) {
	sorted := slices.Clone(files)
	slices.SortFunc(sorted, func(a, b project.File) int { return strings.Compare(a.Name, b.Name) })
	parent.Group("Resources", func(res *Node) {
		for _, f := range sorted {
			if IncludeFile(f.Name) && fileformat.IsMedia(f.Name) {
				g.mediaFile(res, f, linkDir, s)
			}
		}
		for _, f := range sorted {
			if IncludeFile(f.Name) && !fileformat.IsMedia(f.Name) {
				g.writtenResource(res, f, linkDir, s)
			}
		}
	})
}

func resourceLink(linkDir string, f project.File) string {
	return linkDir + "/" + ResourceName(f.Name)
}

func formatOf(name string) string {
	ext := fileformat.ExtensionOf(name)
	if mime := fileformat.MimeType(ext); mime != "" && mime != ext {
		return mime
	}
	return filepath.Ext(name)
}

func (g *Generator) mediaFile(res *Node, f project.File, linkDir string, s *project.Session) {
	media := res.Add("MediaFile", "")
	el(media, "ResourceLink", resourceLink(linkDir, f)).Attr("ArchiveHandle", "")
	vocabEl(media, "Type", fileformat.TypeForPath(f.Name, unspecified), "MediaFile-Type.xml", openVocab)
	el(media, "Format", formatOf(f.Name)).
		Attr("Link", "https://www.mpi.nl/IMDI/Schema/MediaFile-Format.xml").
		Attr("Type", openVocab)
	el(media, "Size", humanize.Bytes(uint64(f.Size)))
	el(media, "Quality", unspecified)
	media.Add("RecordingConditions", "")
	media.Group("TimePosition", func(tp *Node) {
		el(tp, "Start", unspecified)
		el(tp, "End", unspecified)
	})
	access(media, s)
	addKeys(media.Add("Keys", ""), &f.Fields, keyBlacklist)
}

func (g *Generator) writtenResource(res *Node, f project.File, linkDir string, s *project.Session) {
	written := res.Add("WrittenResource", "")
	el(written, "ResourceLink", resourceLink(linkDir, f)).Attr("ArchiveHandle", "")
	written.Add("MediaResourceLink", "")
	written.Add("Date", "")
	vocabEl(written, "Type", fileformat.ImdiResourceTypeForPath(f.Name), "WrittenResource-Type.xml", openVocab)
	written.Add("SubType", "")
	el(written, "Format", formatOf(f.Name)).
		Attr("Link", "https://www.mpi.nl/IMDI/Schema/WrittenResource-Format.xml").
		Attr("Type", openVocab)
	el(written, "Size", humanize.Bytes(uint64(f.Size)))
	written.Group("Validation", func(v *Node) {
		v.Add("Type", "")
		v.Add("Methodology", "")
		el(v, "Level", unspecified)
	})
	for _, empty := range []string{"Derivation", "CharacterEncoding", "ContentEncoding", "LanguageId"} {
		written.Add(empty, "")
	}
	el(written, "Anonymized", unspecified)
	access(written, s)
	addKeys(written.Add("Keys", ""), &f.Fields, keyBlacklist)
}

// access writes the Access group. Only sessions carry an access code.
func access(parent *Node, s *project.Session) {
	code := ""
	if s != nil {
		code = s.Fields.Text("access")
	}
	parent.Group("Access", func(a *Node) {
		el(a, "Availability", code)
		for _, empty := range []string{"Date", "Owner", "Publisher", "Contact"} {
			a.Add(empty, "")
		}
		description := ""
		if code != "" {
			description = s.Fields.Text("accessDescription")
		}
		el(a, "Description", description)
	})
}

// PseudoSession builds a session document for a folder of project documents,
// such as DescriptionDocuments or the gathered consent forms.
func (g *Generator) PseudoSession(name string, files []project.File) *Node {
	doc, transcript := g.root("SESSION")
	transcript.Attr("ArchiveHandle", "")
	session := transcript.Add("Session", "")
	el(session, "Name", name)
	el(session, "Title", name)
	el(session, "Date", g.today())
	session.Group("MDGroup", func(md *Node) {
		g.projectInfo(md)
		md.Group("Location", func(loc *Node) {
			vocabEl(loc, "Continent", "", "Continents.xml", closedVocab)
			vocabEl(loc, "Country", "", "Countries.xml", openVocab)
		})
		md.Add("Keys", "")
		md.Group("Content", func(content *Node) {
			vocabEl(content, "Genre", "", "Content-Genre.xml", openVocab)
			vocabEl(content, "SubGenre", "", "Content-SubGenre.xml", openVocab)
			vocabEl(content, "Task", "", "Content-Task.xml", openVocab)
			vocabEl(content, "Modalities", "", "Content-Modalities.xml", openVocab)
			vocabEl(content, "Subject", "", "Content-Subject.xml", openVocabList)
			content.Group("CommunicationContext", func(cc *Node) {
				for _, item := range []struct{ name, vocabulary string }{
					{"Interactivity", "Content-Interactivity.xml"},
					{"PlanningType", "Content-PlanningType.xml"},
					{"Involvement", "Content-Involvement.xml"},
					{"SocialContext", "Content-SocialContext.xml"},
					{"EventStructure", "Content-EventStructure.xml"},
					{"Channel", "Content-Channel.xml"},
				} {
					vocabEl(cc, item.name, unspecified, item.vocabulary, closedVocab)
				}
			})
			content.Add("Languages", "")
			content.Add("Keys", "")
		})
		md.Add("Actors", "")
	})
	g.resources(session, files, name, nil)
	return doc
}
