package project

import (
	"strings"
	"testing"
)

func TestParseMetadataSections(t *testing.T) {
	doc := `<?xml version="1.0" encoding="utf-8"?>
<Session>
  <title type="string">Garden talk</title>
  <AdditionalFields type="xml">
    <Location_Country type="string">Colombia</Location_Country>
  </AdditionalFields>
  <CustomFields type="xml">
    <Dialect type="string">Upper</Dialect>
  </CustomFields>
  <contributions type="xml">
    <contributor><name>Awi</name><role>speaker</role><smxrole>unspecified</smxrole><date>2011-10-09</date></contributor>
    <contributor><name>Sisi</name><role>recorder</role><comments>left early</comments></contributor>
  </contributions>
  <nested><child>ignored</child></nested>
</Session>`

	md, err := parseMetadata(strings.NewReader(doc), "test.session")
	if err != nil {
		t.Fatalf("parseMetadata: %v", err)
	}
	if md.rootName != "Session" {
		t.Fatalf("rootName = %q", md.rootName)
	}
	if got := md.fields.Text("title"); got != "Garden talk" {
		t.Fatalf("title = %q", got)
	}
	country := md.fields.Get("locationCountry")
	if country == nil || !country.Additional || country.Text() != "Colombia" {
		t.Fatalf("locationCountry = %+v", country)
	}
	dialect := md.fields.Get("dialect")
	if dialect == nil || !dialect.Custom {
		t.Fatalf("dialect = %+v", dialect)
	}
	if md.fields.Get("nested") != nil {
		t.Fatal("elements with children must not become fields")
	}
	if len(md.contributions) != 2 {
		t.Fatalf("contributions = %+v", md.contributions)
	}
	if md.contributions[0].Role != "" {
		t.Fatalf("smxrole unspecified should clear the role, got %q", md.contributions[0].Role)
	}
	if md.contributions[1].Comments != "left early" {
		t.Fatalf("comments = %q", md.contributions[1].Comments)
	}
}

func TestParseMetadataPersonLanguages(t *testing.T) {
	doc := `<Person>
  <name>Awi</name>
  <languages type="xml">
    <language tag="etr" primary="true" mother="true" father="false"/>
    <language tag="tpi" primary="false" mother="false" father="true"/>
  </languages>
</Person>`
	md, err := parseMetadata(strings.NewReader(doc), "awi.person")
	if err != nil {
		t.Fatalf("parseMetadata: %v", err)
	}
	if len(md.languages) != 2 || !md.languages[0].Primary || !md.languages[1].Father {
		t.Fatalf("languages = %+v", md.languages)
	}
}

func TestLegacyLanguages(t *testing.T) {
	doc := `<Person>
  <primaryLanguage>etr: Edolo</primaryLanguage>
  <otherLanguage0>tpi</otherLanguage0>
  <otherLanguage1>etr</otherLanguage1>
</Person>`
	md, err := parseMetadata(strings.NewReader(doc), "legacy.person")
	if err != nil {
		t.Fatalf("parseMetadata: %v", err)
	}
	langs := legacyLanguages(&md.fields)
	if len(langs) != 2 || langs[0].Code != "etr" || !langs[0].Primary || langs[1].Code != "tpi" {
		t.Fatalf("legacyLanguages = %+v", langs)
	}
}

func TestParseMetadataRejectsBrokenXML(t *testing.T) {
	if _, err := parseMetadata(strings.NewReader("<Session><title>"), "broken.session"); err == nil {
		t.Fatal("expected an error for truncated XML")
	}
}
