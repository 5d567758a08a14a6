package field_test

import (
	"errors"
	"testing"

	"lameta/internal/field"
)

func TestSerializeDefaultLanguageOnlyIsBare(t *testing.T) {
	f := field.NewText("title", "The Frog Story")
	if got := f.Serialize(); got != "The Frog Story" {
		t.Fatalf("Serialize() = %q", got)
	}
}

func TestSerializeMultipleLanguagesInInsertionOrder(t *testing.T) {
	f := field.New("title", field.MultilingualText)
	if err := f.SetTextAxis("es", "casa"); err != nil {
		t.Fatal(err)
	}
	if err := f.SetTextAxis("en", "house"); err != nil {
		t.Fatal(err)
	}
	if got := f.Serialize(); got != "[[es]]casa[[en]]house" {
		t.Fatalf("Serialize() = %q", got)
	}

	// Replacing a value keeps its position.
	if err := f.SetTextAxis("ES", "casita"); err != nil {
		t.Fatal(err)
	}
	if got := f.Serialize(); got != "[[es]]casita[[en]]house" {
		t.Fatalf("Serialize() after replace = %q", got)
	}
}

func TestClearedLanguageRejoinsAtEnd(t *testing.T) {
	f := field.New("title", field.MultilingualText)
	steps := []struct{ tag, value string }{
		{"es", "casa"},
		{"es", ""},
		{"en", "house"},
		{"es", "casa"},
	}
	for _, s := range steps {
		if err := f.SetTextAxis(s.tag, s.value); err != nil {
			t.Fatal(err)
		}
	}
	if got := f.Serialize(); got != "[[en]]house[[es]]casa" {
		t.Fatalf("Serialize() = %q", got)
	}
	if err := f.SetTextAxis("en", "  "); err != nil {
		t.Fatal(err)
	}
	if got := f.Languages(); len(got) != 1 || got[0] != "es" {
		t.Fatalf("Languages() = %v", got)
	}
}

func TestSerializeEmptyField(t *testing.T) {
	f := field.New("description", field.Text)
	if got := f.Serialize(); got != "" {
		t.Fatalf("expected empty serialization, got %q", got)
	}
	if err := f.SetTextAxis("fr", "   "); err != nil {
		t.Fatal(err)
	}
	if got := f.Serialize(); got != "" {
		t.Fatalf("blank values must be omitted, got %q", got)
	}
	var nilField *field.Field
	if got := nilField.SerializeForXML(); got.Value != "" {
		t.Fatalf("nil field should serialize empty, got %q", got.Value)
	}
}

func TestSingleNonDefaultLanguageKeepsTag(t *testing.T) {
	f := field.New("title", field.MultilingualText)
	_ = f.SetTextAxis("tpi", "haus")
	if got := f.Serialize(); got != "[[tpi]]haus" {
		t.Fatalf("Serialize() = %q", got)
	}
}

func TestSetTextAxisRejectsEmptyTag(t *testing.T) {
	f := field.New("title", field.Text)
	err := f.SetTextAxis("  ", "x")
	if !errors.Is(err, field.ErrEmptyLanguageTag) {
		t.Fatalf("expected ErrEmptyLanguageTag, got %v", err)
	}
}

func TestSerializeForXMLEscapesValuesNotTags(t *testing.T) {
	f := field.New("notes", field.MultilingualText)
	_ = f.SetTextAxis("en", `<you> & me > 1 "quote" 'single quote'`)
	_ = f.SetTextAxis("fr", "toi & moi")

	got := f.SerializeForXML()
	want := "[[en]]&lt;you&gt; &amp; me &gt; 1 &quot;quote&quot; &apos;single quote&apos;[[fr]]toi &amp; moi"
	if got.Key != "notes" || got.Value != want {
		t.Fatalf("SerializeForXML() = %+v, want value %q", got, want)
	}

	bare := field.NewText("notes", "a < b")
	if v := bare.SerializeForXML().Value; v != "a &lt; b" {
		t.Fatalf("bare value not escaped: %q", v)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		langs   int
		wantErr bool
	}{
		{"plain", "hello", "hello", 1, false},
		{"not leading tag", "hello [[es]]hola", "hello [[es]]hola", 1, false},
		{"tagged", "[[es]]casa[[en]]house", "[[es]]casa[[en]]house", 2, false},
		{"single default tag", "[[en]]house", "house", 1, false},
		{"empty", "", "", 0, false},
		{"unbalanced", "[[es]]casa[[en", "", 0, true},
		{"empty tag", "[[]]casa", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := field.Parse("title", tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.in, err)
			}
			if got := f.Serialize(); got != tt.want {
				t.Fatalf("round trip = %q, want %q", got, tt.want)
			}
			if got := len(f.Languages()); got != tt.langs {
				t.Fatalf("languages = %d, want %d", got, tt.langs)
			}
		})
	}
}

func TestTextFallbacks(t *testing.T) {
	f, err := field.Parse("title", "[[es]]casa[[fr]]maison")
	if err != nil {
		t.Fatal(err)
	}
	if f.Type != field.MultilingualText {
		t.Fatalf("expected multilingual type, got %s", f.Type)
	}
	if got := f.Text(); got != "casa" {
		t.Fatalf("Text() = %q", got)
	}
	if got := f.FirstNonEmpty("de", "fr"); got != "maison" {
		t.Fatalf("FirstNonEmpty = %q", got)
	}
	if got := f.TextAxis("EN"); got != "" {
		t.Fatalf("TextAxis(en) = %q", got)
	}
}

func TestMalformedTags(t *testing.T) {
	f := field.New("title", field.MultilingualText)
	_ = f.SetTextAxis("etr", "a")
	_ = f.SetTextAxis("not_a_tag!", "b")
	bad := f.MalformedTags()
	if len(bad) != 1 || bad[0] != "not_a_tag!" {
		t.Fatalf("MalformedTags() = %v", bad)
	}
}

func TestParseType(t *testing.T) {
	if field.ParseType("languageChoices") != field.LanguageChoices {
		t.Fatal("expected languageChoices")
	}
	if field.ParseType("string") != field.Text {
		t.Fatal("expected text for string")
	}
	if field.Date.String() != "date" {
		t.Fatalf("unexpected String(): %s", field.Date)
	}
}
