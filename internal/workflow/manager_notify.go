package workflow

import (
	"context"

	"lameta/internal/logging"
	"lameta/internal/notifications"
	"lameta/internal/services"
)

func (m *Manager) notify(ctx context.Context, summary *Summary) {
	if m.notifier == nil {
		return
	}
	payload := notifications.Payload{
		"project":     summary.Project,
		"format":      string(summary.Format),
		"destination": summary.Destination,
	}
	var event notifications.Event
	switch {
	case summary.Status == services.StatusCancelled:
		return
	case summary.Error != "":
		event = notifications.EventExportFailed
		payload["error"] = summary.Error
	case summary.Status == services.StatusInvalid:
		event = notifications.EventExportInvalid
		payload["errors"] = summary.ValidationErrors()
	default:
		event = notifications.EventExportCompleted
		payload["files"] = summary.Copied
	}
	if err := m.notifier.Publish(context.WithoutCancel(ctx), event, payload); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, m.logger), "export notification failed", "notification_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic"),
		)
	}
}
