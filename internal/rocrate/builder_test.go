package rocrate

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lameta/internal/copymanager"
	"lameta/internal/project"
	"lameta/internal/testsupport"
	"lameta/internal/warnings"
)

func loadSample(t *testing.T) (*testsupport.ProjectBuilder, *project.Project) {
	t.Helper()
	b := testsupport.SampleProject(t)
	p, err := project.Load(context.Background(), b.Root, project.Options{})
	require.NoError(t, err)
	return b, p
}

func TestBuildSampleProject(t *testing.T) {
	_, p := loadSample(t)
	collector := warnings.New(nil)
	c, err := Build(p, Options{Warnings: collector})
	require.NoError(t, err)

	root := c.Root()
	require.NotNil(t, root)
	assert.Equal(t, []string{"Dataset", "RepositoryCollection"}, root.Type.Values())
	assert.Equal(t, "Edolo Sample", root.String("name"))
	assert.Equal(t, []string{"#language_etr"}, root.RefIDs("ldac:subjectLanguage"))
	assert.Equal(t, []string{"People/Awi%20Heole/"}, root.RefIDs("ldac:depositor"))
	assert.Equal(t,
		Refs("Sessions/ETR008/", "Sessions/ETR009/", "People/", "DescriptionDocuments/", "ConsentDocuments/"),
		root.HasPart())

	session := c.Get("Sessions/ETR008/")
	require.NotNil(t, session)
	assert.Equal(t, []string{"Dataset", "RepositoryObject", "CollectionEvent"}, session.Type.Values())
	assert.Equal(t, []string{"People/Awi%20Heole/"}, session.RefIDs("ldac:speaker"))
	assert.Equal(t, []string{"People/Sisi%20Ari/"}, session.RefIDs("ldac:participant"))
	assert.Equal(t, []string{"People/Sisi%20Ari/"}, session.RefIDs("ldac:transcriber"))
	assert.Equal(t, Refs(
		"Sessions/ETR008/ETR008.session",
		"Sessions/ETR008/ETR008.eaf",
		"Sessions/ETR008/ETR008_Tiny.mp3",
	), session.HasPart())

	audio := c.Get("Sessions/ETR008/ETR008_Tiny.mp3")
	require.NotNil(t, audio)
	assert.Equal(t, []string{"File", "AudioObject"}, audio.Type.Values())
	assert.Equal(t, []string{"ldac:PrimaryMaterial"}, audio.RefIDs("ldac:materialType"))
	assert.Equal(t, "audio/mpeg", audio.String("encodingFormat"))

	eaf := c.Get("Sessions/ETR008/ETR008.eaf")
	require.NotNil(t, eaf)
	assert.False(t, eaf.Type.IsMultiple())
	assert.Equal(t, []string{"ldac:Annotation"}, eaf.RefIDs("ldac:materialType"))
	assert.Equal(t, "text/x-eaf+xml", eaf.String("encodingFormat"))

	awi := c.Get("People/Awi%20Heole/")
	require.NotNil(t, awi)
	assert.Equal(t, "39", awi.String("ldac:age"))
	assert.Equal(t, "Education: primary.", awi.String("description"))
	_, hasContact := awi.Get("howToContact")
	assert.False(t, hasContact)

	consentID := "People/Awi%20Heole/Awi%20Heole_Consent.pdf"
	assert.Contains(t, c.Get("ConsentDocuments/").HasPart(), RefTo(consentID))
	assert.Contains(t, c.Get("People/").HasPart(), RefTo(consentID))
	assert.Equal(t, []string{"People/Awi%20Heole/"}, c.Get(consentID).RefIDs("about"))

	genre := c.Get("tag:lameta,edolo_sample:genre/dialog")
	require.NotNil(t, genre, "unmapped genre should get a project-scoped term")
	assert.NotNil(t, c.Get("ldac:Narrative"))
	assert.NotNil(t, c.Get("ldac:PrimaryMaterial"))
	assert.NotNil(t, c.Get(CollectionLicenseID))
	assert.NotNil(t, c.Get("#license-unknown-f"))

	for _, issue := range Check(c) {
		assert.NotEqual(t, SeverityError, issue.Severity, issue.Message)
	}
	assert.Empty(t, collector.Warnings())
}

func TestBuildLeavesMissingNameAbsent(t *testing.T) {
	b := testsupport.NewProject(t, "untitled")
	b.AddSession("S1", nil)
	p, err := project.Load(context.Background(), b.Root, project.Options{})
	require.NoError(t, err)

	collector := warnings.New(nil)
	c, err := Build(p, Options{Warnings: collector})
	require.NoError(t, err)
	_, hasName := c.Root().Get("name")
	assert.False(t, hasName)
	assert.Equal(t, []string{"#language_und"}, c.Get("Sessions/S1/").RefIDs("ldac:subjectLanguage"))
	assert.Contains(t, collector.Warnings(), "Session 'S1' has no subject language; using 'und'")
}

func TestBuildWarnsAboutUnknownContributor(t *testing.T) {
	b := testsupport.NewProject(t, "p", testsupport.F("title", "P"))
	b.AddSession("S1", []testsupport.Field{{Tag: "languages", Type: "languageChoices", Value: "etr"}},
		testsupport.Contributor{Name: "Nobody Known", Role: "recorder"})
	p, err := project.Load(context.Background(), b.Root, project.Options{})
	require.NoError(t, err)

	collector := warnings.New(nil)
	c, err := Build(p, Options{Warnings: collector})
	require.NoError(t, err)
	assert.Equal(t, []string{"#Nobody%20Known"}, c.Get("Sessions/S1/").RefIDs("ldac:recorder"))
	assert.Contains(t, collector.Warnings(), "Contributor 'Nobody Known' in session 'S1' has no matching person")
}

func TestBuildIsDeterministic(t *testing.T) {
	_, p := loadSample(t)
	first, err := Build(p, Options{})
	require.NoError(t, err)
	second, err := Build(p, Options{})
	require.NoError(t, err)

	a, err := first.Encode()
	require.NoError(t, err)
	b, err := second.Encode()
	require.NoError(t, err)
	assert.True(t, bytes.Equal(a, b), "two builds of the same project must serialize identically")

	parsed, err := Parse(a)
	require.NoError(t, err)
	assert.Equal(t, first.Len(), parsed.Len())
	assert.Empty(t, parsed.Duplicates())
}

func TestWriteCrateCopiesAndSkipsUnchanged(t *testing.T) {
	_, p := loadSample(t)
	c, err := Build(p, Options{})
	require.NoError(t, err)

	dest := t.TempDir()
	copier := copymanager.New()
	stats, err := WriteCrate(context.Background(), c, dest, copier, nil)
	require.NoError(t, err)
	assert.Equal(t, len(c.Sources()), stats.Copied)
	assert.Zero(t, stats.Failed)

	_, err = os.Stat(filepath.Join(dest, MetadataFileName))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dest, "People", "Awi Heole", "Awi Heole_Consent.pdf"))
	require.NoError(t, err)

	again, err := WriteCrate(context.Background(), c, dest, copier, nil)
	require.NoError(t, err)
	assert.Zero(t, again.Copied)
	assert.Equal(t, len(c.Sources()), again.Skipped)
}

func TestWriteCrateStopsOnCancel(t *testing.T) {
	_, p := loadSample(t)
	c, err := Build(p, Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = WriteCrate(ctx, c, t.TempDir(), copymanager.New(), nil)
	require.Error(t, err)
}

func TestDiskPath(t *testing.T) {
	got, err := DiskPath("/out", "People/Awi%20Heole/a%28b%29.pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/out", "People", "Awi Heole", "a(b).pdf"), got)
}

func TestWriteCratePlacesFilesWithPercentInName(t *testing.T) {
	b := testsupport.NewProject(t, "p", testsupport.F("title", "P"))
	b.AddSession("S1", []testsupport.Field{{Tag: "languages", Type: "languageChoices", Value: "etr"}})
	b.AddFile("Sessions/S1/take 100%.wav", 16)
	b.AddFile("Sessions/S1/a%20b.wav", 8)
	b.AddFile("Sessions/S1/tab\there.txt", 4)
	p, err := project.Load(context.Background(), b.Root, project.Options{})
	require.NoError(t, err)

	collector := warnings.New(nil)
	c, err := Build(p, Options{Warnings: collector})
	require.NoError(t, err)
	require.True(t, c.Has("Sessions/S1/take%20100%25.wav"))
	require.True(t, c.Has("Sessions/S1/a%2520b.wav"))
	require.True(t, c.Has("Sessions/S1/tab%09here.txt"))

	dest := t.TempDir()
	stats, err := WriteCrate(context.Background(), c, dest, copymanager.New(), collector)
	require.NoError(t, err)
	assert.Zero(t, stats.Failed)
	assert.Equal(t, len(c.Sources()), stats.Copied)

	for _, name := range []string{"take 100%.wav", "a%20b.wav", "tab\there.txt"} {
		_, err := os.Stat(filepath.Join(dest, "Sessions", "S1", name))
		require.NoError(t, err, name)
	}
	for _, src := range c.Sources() {
		path, err := DiskPath(dest, src.ID)
		require.NoError(t, err)
		_, err = os.Stat(path)
		require.NoError(t, err, src.ID)
	}
	for _, issue := range Check(c) {
		assert.NotEqual(t, SeverityError, issue.Severity, issue.Message)
	}
}
