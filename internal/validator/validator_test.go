package validator

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lameta/internal/copymanager"
	"lameta/internal/project"
	"lameta/internal/rocrate"
	"lameta/internal/testsupport"
)

func exportSample(t *testing.T) string {
	t.Helper()
	b := testsupport.SampleProject(t)
	p, err := project.Load(context.Background(), b.Root, project.Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c, err := rocrate.Build(p, rocrate.Options{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	dir := t.TempDir()
	if _, err := rocrate.WriteCrate(context.Background(), c, dir, copymanager.New(), nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	return dir
}

func messages(records []Record) string {
	var out []string
	for _, r := range records {
		out = append(out, r.Message)
	}
	return strings.Join(out, "\n")
}

func TestValidateExportedCrate(t *testing.T) {
	dir := exportSample(t)
	result := Validate(context.Background(), dir, Options{})
	if !result.Success {
		t.Fatalf("expected success, errors:\n%s", messages(result.Errors))
	}
	if !strings.Contains(messages(result.Info), "Successfully loaded RO-Crate metadata file") {
		t.Fatalf("expected load info, got:\n%s", messages(result.Info))
	}

	viaFile := Validate(context.Background(), filepath.Join(dir, rocrate.MetadataFileName), Options{})
	if !viaFile.Success {
		t.Fatalf("expected success via metadata file path:\n%s", messages(viaFile.Errors))
	}
}

func TestValidateReportsMissingFiles(t *testing.T) {
	dir := exportSample(t)
	target := filepath.Join(dir, "Sessions", "ETR008", "ETR008_Tiny.mp3")
	if err := os.Remove(target); err != nil {
		t.Fatalf("remove: %v", err)
	}

	result := Validate(context.Background(), dir, Options{})
	if result.Success {
		t.Fatal("expected failure for missing file")
	}
	if !strings.Contains(messages(result.Errors), "Sessions/ETR008/ETR008_Tiny.mp3") {
		t.Fatalf("missing file not reported:\n%s", messages(result.Errors))
	}

	ignored := Validate(context.Background(), dir, Options{IgnoreFiles: true})
	if !ignored.Success {
		t.Fatalf("ignore-files should pass:\n%s", messages(ignored.Errors))
	}
}

func TestValidatePathErrors(t *testing.T) {
	dir := t.TempDir()
	textFile := filepath.Join(dir, "notes.txt")
	badJSON := filepath.Join(dir, "bad.json")
	testsupport.WriteFile(t, textFile, 4)
	if err := os.WriteFile(badJSON, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	noGraph := t.TempDir()
	if err := os.WriteFile(filepath.Join(noGraph, rocrate.MetadataFileName), []byte(`{"@context":{}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name, path, want string
	}{
		{"missing", filepath.Join(dir, "nope"), "Path does not exist: "},
		{"not json", textFile, "Invalid path: "},
		{"no metadata", t.TempDir(), "No ro-crate-metadata.json file found"},
		{"bad json", badJSON, "Failed to load RO-Crate metadata file: "},
		{"no graph", noGraph, "RO-Crate must have a @graph array"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := Validate(context.Background(), tc.path, Options{})
			if result.Success {
				t.Fatal("expected failure")
			}
			if !strings.Contains(messages(result.Errors), tc.want) {
				t.Fatalf("expected %q in:\n%s", tc.want, messages(result.Errors))
			}
		})
	}
}

func TestValidateRequiresRootName(t *testing.T) {
	dir := t.TempDir()
	doc := `{"@context":"https://w3id.org/ro/crate/1.2/context","@graph":[
 {"@id":"ro-crate-metadata.json","@type":"CreativeWork","about":{"@id":"./"}},
 {"@id":"./","@type":["Dataset","RepositoryCollection"],"ldac:subjectLanguage":{"@id":"#language_und"}},
 {"@id":"#language_und","@type":"Language","name":"Undetermined"}]}`
	if err := os.WriteFile(filepath.Join(dir, rocrate.MetadataFileName), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	result := Validate(context.Background(), dir, Options{})
	if result.Success || !strings.Contains(messages(result.Errors), "Root dataset must have a non-empty name") {
		t.Fatalf("expected root name error, got:\n%s", messages(result.Errors))
	}
}

type fakeRunner struct {
	out  string
	err  error
	args []string
}

func (f *fakeRunner) Run(_ context.Context, _ string, args []string) ([]byte, error) {
	f.args = args
	return []byte(f.out), f.err
}

func TestValidateMergesExternalReport(t *testing.T) {
	dir := exportSample(t)
	runner := &fakeRunner{out: `{"errors":[{"type":"error","message":"profile mismatch","entity":"./"}],"warnings":[{"message":"check licence"}],"info":[]}`}
	result := Validate(context.Background(), dir, Options{
		Binary:        "/usr/bin/collector",
		Args:          []string{"validate"},
		Namespace:     "lameta",
		ModeValidator: "mode.json",
		IgnoreFiles:   true,
		Runner:        runner,
	})
	if result.Success {
		t.Fatal("external error should fail the run")
	}
	if !strings.Contains(messages(result.Errors), "profile mismatch") {
		t.Fatalf("external error not merged:\n%s", messages(result.Errors))
	}
	if len(result.Warnings) == 0 || result.Warnings[len(result.Warnings)-1].Type != TypeWarning {
		t.Fatalf("external warning not merged: %+v", result.Warnings)
	}
	want := []string{"validate", "", "--namespace", "lameta", "--mode-validator", "mode.json", "--ignore-files"}
	if len(runner.args) != len(want) || runner.args[0] != "validate" || runner.args[2] != "--namespace" {
		t.Fatalf("unexpected args %v", runner.args)
	}
}

func TestValidateReportsRunnerFailure(t *testing.T) {
	dir := exportSample(t)
	result := Validate(context.Background(), dir, Options{
		Binary: "collector",
		Runner: &fakeRunner{err: errors.New("exit status 2")},
	})
	if result.Success || !strings.Contains(messages(result.Errors), "Could not run external validator: exit status 2") {
		t.Fatalf("expected runner failure, got:\n%s", messages(result.Errors))
	}
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	WriteReport(&buf, Result{
		Errors:   []Record{{Type: TypeError, Message: "broken", Entity: "./", Property: "name"}},
		Warnings: []Record{{Type: TypeWarning, Message: "hmm"}},
	}, false)
	out := buf.String()
	for _, want := range []string{"ERRORS (1):", "broken (./ name)", "WARNINGS (1):", "Validation failed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatal("report should not be coloured")
	}
}
