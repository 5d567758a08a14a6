package materialtype_test

import (
	"testing"

	"lameta/internal/materialtype"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		in   string
		want materialtype.MaterialType
	}{
		{"Audio", materialtype.PrimaryMaterial},
		{"Video", materialtype.PrimaryMaterial},
		{"Image", materialtype.PrimaryMaterial},
		{"ELAN", materialtype.Annotation},
		{"Doc", materialtype.Annotation},
		{"unknown", materialtype.Annotation},
		{"", materialtype.Annotation},
		{"audio", materialtype.Annotation},
	}
	for _, tt := range tests {
		if got := materialtype.Classify(tt.in); got != tt.want {
			t.Fatalf("Classify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if string(materialtype.Classify("Audio")) != "ldac:PrimaryMaterial" {
		t.Fatal("unexpected term id for primary material")
	}
}

func TestClassifyByPathIsStable(t *testing.T) {
	paths := []string{
		"Sessions/ETR009/ETR009_Careful.mp3",
		"Sessions/ETR009/ETR009.eaf",
		"People/Awi/Awi_Photo.jpg",
		"OtherDocuments/grant.pdf",
		"weird.noext",
		"",
	}
	for _, p := range paths {
		first := materialtype.ClassifyByPath(p)
		second := materialtype.ClassifyByPath(p)
		if first != second {
			t.Fatalf("ClassifyByPath(%q) not stable: %q vs %q", p, first, second)
		}
	}
	if got := materialtype.ClassifyByPath("a/b/c.MOV"); got != materialtype.PrimaryMaterial {
		t.Fatalf("expected video to be primary, got %q", got)
	}
	if got := materialtype.ClassifyByPath("a/b/c.xyz"); got != materialtype.Annotation {
		t.Fatalf("expected unknown to be annotation, got %q", got)
	}
}

func TestDefinitions(t *testing.T) {
	defs := materialtype.Definitions()
	if len(defs) != 4 {
		t.Fatalf("expected term set plus three terms, got %d", len(defs))
	}
	if defs[0].ID != materialtype.TermSetID || defs[0].Type != "DefinedTermSet" {
		t.Fatalf("expected term set first, got %+v", defs[0])
	}
	for _, d := range defs[1:] {
		if d.InSet != materialtype.TermSetID || d.Description == "" {
			t.Fatalf("term %q missing set or description", d.ID)
		}
	}
}
