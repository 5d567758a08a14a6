package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"lameta/internal/config"
)

const userAgent = "lameta-export/1.0"

// Event names a notification kind.
type Event string

const (
	EventExportCompleted Event = "export_completed"
	EventExportInvalid   Event = "export_invalid"
	EventExportFailed    Event = "export_failed"
	EventTest            Event = "test"
)

// Payload carries event values keyed by name.
type Payload map[string]any

// Service publishes events.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// NewService builds an ntfy-backed service, or a no-op when no topic is set.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}
	timeout := time.Duration(cfg.Notifications.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	msg, ok := format(event, payload)
	if !ok {
		return nil
	}
	return n.send(ctx, msg)
}

func format(event Event, payload Payload) (message, bool) {
	formatName := payload.text("format")
	project := payload.text("project")
	label := project
	if formatName != "" {
		label = fmt.Sprintf("%s (%s)", project, formatName)
	}
	switch event {
	case EventExportCompleted:
		body := fmt.Sprintf("Exported %s to %s", label, payload.text("destination"))
		if files := payload.number("files"); files > 0 {
			body = fmt.Sprintf("%s\n%d file(s) copied", body, files)
		}
		return message{
			title: "lameta - Export Complete",
			body:  body,
			tags:  []string{"lameta", "export", "completed"},
		}, true
	case EventExportInvalid:
		return message{
			title:    "lameta - Export Needs Review",
			body:     fmt.Sprintf("Export of %s finished with %d validation error(s)", label, payload.number("errors")),
			tags:     []string{"lameta", "export", "invalid"},
			priority: "high",
		}, true
	case EventExportFailed:
		reason := payload.text("error")
		if reason == "" {
			reason = "unknown"
		}
		return message{
			title:    "lameta - Export Failed",
			body:     fmt.Sprintf("Export of %s failed: %s", label, reason),
			tags:     []string{"lameta", "export", "error"},
			priority: "high",
		}, true
	case EventTest:
		return message{
			title:    "lameta - Test",
			body:     "Notification system test",
			tags:     []string{"lameta", "test"},
			priority: "low",
		}, true
	default:
		return message{}, false
	}
}

func (n *ntfyService) send(ctx context.Context, msg message) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(msg.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if msg.title != "" {
		req.Header.Set("Title", msg.title)
	}
	if len(msg.tags) > 0 {
		req.Header.Set("Tags", strings.Join(msg.tags, ","))
	}
	if msg.priority != "" && msg.priority != "default" {
		req.Header.Set("Priority", msg.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (p Payload) text(key string) string {
	if p == nil {
		return ""
	}
	switch v := p[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func (p Payload) number(key string) int {
	if p == nil {
		return 0
	}
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	default:
		return 0
	}
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
