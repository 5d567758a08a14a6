package validator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lameta/internal/logging"
	"lameta/internal/rocrate"
)

// RecordType classifies a finding.
type RecordType string

const (
	TypeError   RecordType = "error"
	TypeWarning RecordType = "warning"
	TypeInfo    RecordType = "info"
)

// Record is one finding.
type Record struct {
	Type     RecordType `json:"type"`
	Message  string     `json:"message"`
	Entity   string     `json:"entity,omitempty"`
	Property string     `json:"property,omitempty"`
}

// Result is the outcome of Validate. Success means no errors.
type Result struct {
	Success  bool     `json:"success"`
	Errors   []Record `json:"errors"`
	Warnings []Record `json:"warnings"`
	Info     []Record `json:"info"`
}

func (r *Result) add(rec Record) {
	switch rec.Type {
	case TypeError:
		r.Errors = append(r.Errors, rec)
	case TypeWarning:
		r.Warnings = append(r.Warnings, rec)
	default:
		rec.Type = TypeInfo
		r.Info = append(r.Info, rec)
	}
}

func (r *Result) errorf(format string, args ...any) {
	r.add(Record{Type: TypeError, Message: fmt.Sprintf(format, args...)})
}

func (r *Result) infof(format string, args ...any) {
	r.add(Record{Type: TypeInfo, Message: fmt.Sprintf(format, args...)})
}

// Options configure Validate.
type Options struct {
	ModeValidator string
	Namespace     string
	IgnoreFiles   bool

	// Binary is the external collector; empty skips it.
	Binary  string
	Args    []string
	Timeout time.Duration
	Runner  Runner
	Logger  *slog.Logger
}

// Validate checks the crate at path, which is either a crate directory or
// its metadata JSON file. Problems are reported in the Result, never as a
// Go error.
func Validate(ctx context.Context, path string, opts Options) (result Result) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "validator")
	result = Result{Errors: []Record{}, Warnings: []Record{}, Info: []Record{}}
	defer func() { result.Success = len(result.Errors) == 0 }()

	crateDir, metadataFile, ok := resolve(path, &result)
	if !ok {
		return result
	}
	result.infof("Validating RO-Crate: %s", crateDir)

	data, err := os.ReadFile(metadataFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			result.errorf("No %s file found", rocrate.MetadataFileName)
		} else {
			result.errorf("Failed to load RO-Crate metadata file: %v", err)
		}
		return result
	}
	crate, err := rocrate.Parse(data)
	if err != nil {
		result.errorf("Failed to load RO-Crate metadata file: %v", err)
		return result
	}
	result.infof("Successfully loaded RO-Crate metadata file")

	checkRootName(crate, &result)
	for _, issue := range rocrate.Check(crate) {
		result.add(Record{
			Type:     RecordType(issue.Severity),
			Message:  issue.Message,
			Entity:   issue.Entity,
			Property: issue.Property,
		})
	}
	if opts.IgnoreFiles {
		result.infof("Skipping file existence checks")
	} else {
		checkFiles(crate, crateDir, &result)
	}

	if opts.Binary != "" {
		runner := opts.Runner
		if runner == nil {
			runner = CommandRunner{}
		}
		runExternal(ctx, runner, crateDir, opts, &result, logger)
	}
	logger.Debug("validation finished",
		logging.String("crate", crateDir),
		logging.Int("errors", len(result.Errors)),
		logging.Int("warnings", len(result.Warnings)),
	)
	return result
}

func resolve(path string, result *Result) (string, string, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		result.errorf("Invalid path: %s. Must be a directory or JSON file", path)
		return "", "", false
	}
	info, err := os.Stat(abs)
	if err != nil {
		result.errorf("Path does not exist: %s", path)
		return "", "", false
	}
	switch {
	case info.IsDir():
		return abs, filepath.Join(abs, rocrate.MetadataFileName), true
	case strings.EqualFold(filepath.Ext(abs), ".json"):
		return filepath.Dir(abs), abs, true
	default:
		result.errorf("Invalid path: %s. Must be a directory or JSON file", path)
		return "", "", false
	}
}

func checkRootName(c *rocrate.Crate, result *Result) {
	root := c.Root()
	if root == nil {
		return
	}
	if strings.TrimSpace(root.String("name")) == "" {
		result.add(Record{
			Type:     TypeError,
			Message:  "Root dataset must have a non-empty name",
			Entity:   rocrate.RootID,
			Property: "name",
		})
	}
}

// checkFiles reports File entities whose @id has no file on disk. Remote
// references are left alone.
func checkFiles(c *rocrate.Crate, dir string, result *Result) {
	missing := 0
	for _, e := range c.Entities() {
		if !e.Type.Has("File") || e.ID == rocrate.MetadataFileName || strings.Contains(e.ID, "://") {
			continue
		}
		path, err := rocrate.DiskPath(dir, e.ID)
		if err != nil {
			result.add(Record{Type: TypeError, Message: err.Error(), Entity: e.ID})
			continue
		}
		if _, err := os.Stat(path); err != nil {
			missing++
			result.add(Record{
				Type:    TypeError,
				Message: fmt.Sprintf("File %s is referenced in the crate but does not exist", e.ID),
				Entity:  e.ID,
			})
		}
	}
	if missing == 0 {
		result.infof("All referenced files exist")
	}
}

// externalReport is the JSON document an external collector prints.
type externalReport struct {
	Errors   []Record `json:"errors"`
	Warnings []Record `json:"warnings"`
	Info     []Record `json:"info"`
}

func runExternal(ctx context.Context, runner Runner, crateDir string, opts Options, result *Result, logger *slog.Logger) {
	args := append([]string(nil), opts.Args...)
	args = append(args, crateDir)
	if opts.Namespace != "" {
		args = append(args, "--namespace", opts.Namespace)
	}
	if opts.ModeValidator != "" {
		args = append(args, "--mode-validator", opts.ModeValidator)
	}
	if opts.IgnoreFiles {
		args = append(args, "--ignore-files")
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	result.infof("Running external validator %s", filepath.Base(opts.Binary))
	stdout, runErr := runner.Run(ctx, opts.Binary, args)

	var report externalReport
	if len(strings.TrimSpace(string(stdout))) > 0 {
		if err := json.Unmarshal(stdout, &report); err != nil {
			result.errorf("Could not parse external validator output: %v", err)
			return
		}
	}
	for _, group := range []struct {
		records []Record
		typ     RecordType
	}{
		{report.Errors, TypeError},
		{report.Warnings, TypeWarning},
		{report.Info, TypeInfo},
	} {
		for _, rec := range group.records {
			rec.Type = group.typ
			result.add(rec)
		}
	}
	if runErr != nil && len(report.Errors) == 0 {
		logging.WarnWithContext(logger, "external validator failed", "validator_failed",
			logging.String("binary", opts.Binary),
			logging.Error(runErr),
		)
		result.errorf("Could not run external validator: %v", runErr)
	}
}
