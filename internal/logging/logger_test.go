package logging_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lameta/internal/config"
	"lameta/internal/logging"
	"lameta/internal/services"
)

func newFileLogger(t *testing.T, format, level string) (func(), string) {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "out.log")
	noColor := false
	logger, err := logging.New(logging.Options{
		Format:           format,
		Level:            level,
		OutputPaths:      []string{logPath},
		ErrorOutputPaths: []string{logPath},
		Color:            &noColor,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := services.WithExportID(context.Background(), "run-42")
	ctx = services.WithFormat(ctx, "rocrate")
	emit := func() {
		scoped := logging.WithContext(ctx, logging.NewComponentLogger(logger, "rocrate"))
		scoped.Info("graph built", logging.Int("entities", 12), logging.String("project", "Edolo Corpus"))
		scoped.Debug("hidden at info level")
	}
	return emit, logPath
}

func TestNewFromConfigConsole(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello")
	if _, err := os.Stat(filepath.Join(cfg.Paths.LogDir, "lameta.log")); err != nil {
		t.Fatalf("expected log file: %v", err)
	}
}

func TestConsoleFormatting(t *testing.T) {
	emit, path := newFileLogger(t, "console", "info")
	emit()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(content)
	for _, fragment := range []string{"INFO rocrate: graph built", "entities=12", `project="Edolo Corpus"`, "export_id=run-42", "format=rocrate"} {
		if !strings.Contains(line, fragment) {
			t.Fatalf("expected %q in %q", fragment, line)
		}
	}
	if strings.Contains(line, "hidden") {
		t.Fatalf("debug line leaked at info level: %q", line)
	}
	if strings.Contains(line, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", line)
	}
	if strings.Contains(line, "\x1b[") {
		t.Fatalf("expected no colour codes when colour disabled, got %q", line)
	}
}

func TestJSONFormatting(t *testing.T) {
	emit, path := newFileLogger(t, "json", "info")
	emit()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(content))), &payload); err != nil {
		t.Fatalf("decode json log: %v (%q)", err, content)
	}
	if payload["msg"] != "graph built" || payload["level"] != "info" {
		t.Fatalf("unexpected payload: %v", payload)
	}
	if payload["component"] != "rocrate" || payload["export_id"] != "run-42" {
		t.Fatalf("missing structured fields: %v", payload)
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts key: %v", payload)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "warn.log")
	logger, err := logging.New(logging.Options{Format: "json", OutputPaths: []string{logPath}, ErrorOutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "person missing", "contributor_unresolved", logging.String(logging.FieldImpact, "stub person emitted"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(content, &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload[logging.FieldEventType] != "contributor_unresolved" {
		t.Fatalf("unexpected event type: %v", payload)
	}
	if payload[logging.FieldErrorHint] != "check logs for details" {
		t.Fatalf("expected default hint: %v", payload)
	}
	if payload[logging.FieldImpact] != "stub person emitted" {
		t.Fatalf("expected caller impact to win: %v", payload)
	}
}

func TestNopLoggerIsSafe(t *testing.T) {
	logger := logging.NewComponentLogger(nil, "test")
	logger.Error("ignored")
	logging.WarnWithContext(nil, "ignored", "noop")
}
