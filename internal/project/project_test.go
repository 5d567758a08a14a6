package project_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"lameta/internal/field"
	"lameta/internal/project"
	"lameta/internal/services"
	"lameta/internal/testsupport"
)

func TestLoadSampleProject(t *testing.T) {
	b := testsupport.SampleProject(t)

	p, err := project.Load(context.Background(), b.Root, project.Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Name != "edolo" {
		t.Fatalf("Name = %q", p.Name)
	}
	if p.Title() != "Edolo Sample" {
		t.Fatalf("Title = %q", p.Title())
	}
	if len(p.Sessions) != 2 || p.Sessions[0].ID != "ETR008" || p.Sessions[1].ID != "ETR009" {
		t.Fatalf("unexpected sessions: %+v", p.Sessions)
	}
	if len(p.People) != 2 || p.People[0].ID != "Awi Heole" {
		t.Fatalf("unexpected people: %+v", p.People)
	}

	s := p.Sessions[0]
	if got := s.Fields.Text("locationCountry"); got != "Papua New Guinea" {
		t.Fatalf("locationCountry = %q", got)
	}
	if len(s.Files) != 2 || s.Files[0].Name != "ETR008.eaf" || s.Files[1].Name != "ETR008_Tiny.mp3" {
		t.Fatalf("unexpected session files: %+v", s.Files)
	}
	if s.Files[0].RelPath != "Sessions/ETR008/ETR008.eaf" {
		t.Fatalf("RelPath = %q", s.Files[0].RelPath)
	}
	if s.MetadataFile.Name != "ETR008.session" {
		t.Fatalf("metadata file = %q", s.MetadataFile.Name)
	}
	if len(s.Contributions) != 2 || s.Contributions[0].Role != "speaker" {
		t.Fatalf("unexpected contributions: %+v", s.Contributions)
	}
	if got := len(s.AllContributions()); got != 3 {
		t.Fatalf("AllContributions = %d, want 3", got)
	}
	if d, ok := s.Date(); !ok || d.Year() != 2011 {
		t.Fatalf("Date = %v %v", d, ok)
	}

	awi := p.FindPerson("  awi heole ")
	if awi == nil {
		t.Fatal("FindPerson returned nil")
	}
	if codes := awi.LanguageCodes(); len(codes) != 2 || codes[0] != "etr" {
		t.Fatalf("LanguageCodes = %v", codes)
	}
	if consent := p.ConsentFiles(); len(consent) != 1 || consent[0].Name != "Awi Heole_Consent.pdf" {
		t.Fatalf("ConsentFiles = %+v", consent)
	}
	if len(p.DescriptionDocuments) != 1 || len(p.OtherDocuments) != 0 {
		t.Fatalf("documents: %d description, %d other", len(p.DescriptionDocuments), len(p.OtherDocuments))
	}
	if got := p.FileCount(); got != 6 {
		t.Fatalf("FileCount = %d, want 6", got)
	}
}

func TestLoadSkipsMetadataAndExcludedFiles(t *testing.T) {
	b := testsupport.NewProject(t, "skip", testsupport.F("title", "Skip"))
	b.AddSession("S1", nil)
	b.AddFile("Sessions/S1/keep.wav", 8)
	b.AddFile("Sessions/S1/ro-crate-metadata.json", 8)
	b.AddFile("Sessions/S1/.DS_Store", 8)
	b.AddFile("Sessions/S1/scratch.tmp", 8)
	b.AddFile("Sessions/S1/backup/old.wav", 8)
	b.AddMeta("Sessions/S1/keep.wav", []testsupport.Field{testsupport.F("notes", "n")})

	p, err := project.Load(context.Background(), b.Root, project.Options{ExcludePatterns: []string{"*.tmp"}})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	files := p.Sessions[0].Files
	if len(files) != 1 || files[0].Name != "keep.wav" {
		t.Fatalf("unexpected files: %+v", files)
	}
	if files[0].Fields.Text("notes") != "n" {
		t.Fatalf("sidecar not loaded: %v", files[0].Fields.Keys())
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := project.Load(context.Background(), t.TempDir()+"/missing", project.Options{})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("missing dir: expected ErrNotFound, got %v", err)
	}

	_, err = project.Load(context.Background(), t.TempDir(), project.Options{})
	if !errors.Is(err, services.ErrValidation) || !strings.Contains(err.Error(), ".sprj") {
		t.Fatalf("empty dir: expected ErrValidation mentioning .sprj, got %v", err)
	}

	b := testsupport.NewProject(t, "bad")
	_, err = project.Load(context.Background(), b.Root, project.Options{ExcludePatterns: []string{"[abc"}})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("bad pattern: expected ErrConfiguration, got %v", err)
	}
}

func TestLoadHonoursCancellation(t *testing.T) {
	b := testsupport.SampleProject(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := project.Load(ctx, b.Root, project.Options{})
	if !errors.Is(err, services.ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}

func TestLoadMultilingualAndDates(t *testing.T) {
	b := testsupport.NewProject(t, "ml")
	b.AddSession("S1", []testsupport.Field{
		{Tag: "title", Type: "multiLanguage", Value: "[[en]]House[[es]]Casa"},
		testsupport.F("date", "2/2/2022"),
	})
	p, err := project.Load(context.Background(), b.Root, project.Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	title := p.Sessions[0].Fields.Get("title")
	if title.TextAxis("es") != "Casa" || title.Type != field.MultilingualText {
		t.Fatalf("title = %q (%v)", title.Serialize(), title.Type)
	}
	if got := p.Sessions[0].Fields.Text("date"); got != "" {
		t.Fatalf("ambiguous date should be cleared, got %q", got)
	}
	if len(p.Problems) == 0 {
		t.Fatal("expected a load problem for the ambiguous date")
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2013-01-08", "2013-01-08", true},
		{"2013-01-08T09:34:32.000Z", "2013-01-08", true},
		{"11/23/2011 4:26:36 AM", "2011-11-23", true},
		{"24/11/2011 4:26:36 AM", "2011-11-24", true},
		{"25/11/2011", "2011-11-25", true},
		{"2/2/2022", "", false},
		{"1985", "1985", true},
		{"", "", true},
		{"someday", "", false},
	}
	for _, tt := range tests {
		got, ok := project.NormalizeDate(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("NormalizeDate(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFieldKey(t *testing.T) {
	tests := map[string]string{
		"Location_Country": "locationCountry",
		"Planning_Type":    "planningType",
		"title":            "title",
		"Title":            "title",
		"primaryLanguage":  "primaryLanguage",
	}
	for in, want := range tests {
		if got := project.FieldKey(in); got != want {
			t.Errorf("FieldKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPersonAge(t *testing.T) {
	b := testsupport.SampleProject(t)
	p, err := project.Load(context.Background(), b.Root, project.Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	date, _ := p.Sessions[0].Date()
	if age, ok := p.FindPerson("Sisi Ari").AgeAt(date); !ok || age != 31 {
		t.Fatalf("AgeAt = %d %v, want 31", age, ok)
	}
}
