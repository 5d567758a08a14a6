package workflow

import (
	"context"
	"errors"

	"lameta/internal/logging"
	"lameta/internal/services"
)

func (m *Manager) logFailure(ctx context.Context, summary *Summary, err error) {
	logger := logging.WithContext(ctx, m.logger)
	if errors.Is(err, services.ErrCancelled) {
		logger.Info("export cancelled",
			logging.String(logging.FieldEventType, "export_cancelled"),
			logging.Int("copied", summary.Copied),
			logging.Duration("duration", summary.Duration),
		)
		return
	}
	logging.ErrorWithContext(logger, "export failed", "export_failure",
		logging.Error(err),
		logging.String("status", summary.Status),
		logging.String("destination", summary.Destination),
		logging.String(logging.FieldErrorHint, failureHint(err)),
	)
}

func failureHint(err error) string {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return "check the project path"
	case errors.Is(err, services.ErrValidation):
		return "check the project files and that no other export uses the destination"
	case errors.Is(err, services.ErrConfiguration):
		return "run lameta config validate"
	case errors.Is(err, services.ErrExternalTool):
		return "check the copy and validator binaries"
	default:
		return "check destination free space and permissions"
	}
}
