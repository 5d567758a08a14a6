package history

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// timeLayout is fixed width so started_at sorts correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const runColumns = "id, kind, project, destination, started_at, finished_at, status, errors, warnings, files, bytes, message"

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run         Run
		startedRaw  string
		finishedRaw sql.NullString
		message     sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&run.Kind,
		&run.Project,
		&run.Destination,
		&startedRaw,
		&finishedRaw,
		&run.Status,
		&run.Errors,
		&run.Warnings,
		&run.Files,
		&run.Bytes,
		&message,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan export run: %w", err)
	}

	started, err := parseTimeString(startedRaw)
	if err != nil {
		return Run{}, fmt.Errorf("parse started_at for %s: %w", run.ID, err)
	}
	run.StartedAt = started
	if finishedRaw.Valid {
		if finished, err := parseTimeString(finishedRaw.String); err == nil {
			run.FinishedAt = &finished
		}
	}
	if message.Valid {
		run.Message = message.String
	}
	return run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
