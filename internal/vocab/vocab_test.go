package vocab_test

import (
	"testing"

	"lameta/internal/vocab"
)

func TestRoleLookup(t *testing.T) {
	term, ok := vocab.Role("data inputter")
	if !ok || term.ID != "data_inputter" || term.LDAC != "ldac:dataInputter" {
		t.Fatalf("unexpected role %+v %v", term, ok)
	}
	if _, ok := vocab.Role("astronaut"); ok {
		t.Fatal("expected unknown role")
	}
	if len(vocab.Roles()) < 20 {
		t.Fatalf("expected full role table, got %d", len(vocab.Roles()))
	}
}

func TestRoleProperty(t *testing.T) {
	tests := map[string]string{
		"speaker":    "ldac:speaker",
		"Recorder":   "ldac:recorder",
		"":           "ldac:participant",
		"Astronaut":  "ldac:astronaut",
		"sign model": "ldac:sign_model",
	}
	for in, want := range tests {
		if got := vocab.RoleProperty(in); got != want {
			t.Errorf("RoleProperty(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolveGenre(t *testing.T) {
	got := vocab.ResolveGenre("narrative", "Edolo")
	if got.ID != "ldac:Narrative" || got.InSet != vocab.GenreTermSet {
		t.Fatalf("unexpected mapped genre %+v", got)
	}

	got = vocab.ResolveGenre("Elicitation", "Edolo Corpus")
	if got.ID != "tag:lameta,edolo_corpus:genre/elicitation" || got.InSet != vocab.CustomGenreTermSet {
		t.Fatalf("unexpected custom genre %+v", got)
	}
	if got.Name != "Elicitation" {
		t.Fatalf("unexpected custom genre name %q", got.Name)
	}

	got = vocab.ResolveGenre("Bird Calls", "")
	if got.ID != "tag:lameta,project:genre/bird_calls" {
		t.Fatalf("unexpected free genre %+v", got)
	}

	got = vocab.ResolveGenre(" ", "x")
	if got.ID != "tag:lameta/unknown" {
		t.Fatalf("unexpected empty genre %+v", got)
	}
}
