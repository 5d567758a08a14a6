// Package warnings collects the non-fatal problems of one export run.
package warnings

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"lameta/internal/logging"
)

// Collector accumulates unique warning messages in the order first seen.
// It is safe for concurrent use; copy jobs report into it from their own
// goroutines.
type Collector struct {
	mu       sync.Mutex
	logger   *slog.Logger
	messages []string
	seen     map[string]struct{}
}

// New returns an empty collector. A nil logger disables logging.
func New(logger *slog.Logger) *Collector {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Collector{logger: logger, seen: make(map[string]struct{})}
}

// Add records message unless it was already seen. It reports whether the
// message was new.
func (c *Collector) Add(message string) bool {
	message = strings.TrimSpace(message)
	if message == "" {
		return false
	}
	c.mu.Lock()
	if _, ok := c.seen[message]; ok {
		c.mu.Unlock()
		return false
	}
	c.seen[message] = struct{}{}
	c.messages = append(c.messages, message)
	c.mu.Unlock()

	logging.WarnWithContext(c.logger, message, "export_warning")
	return true
}

// Addf formats and records a warning.
func (c *Collector) Addf(format string, args ...any) bool {
	return c.Add(fmt.Sprintf(format, args...))
}

// Warnings returns a copy of the collected messages.
func (c *Collector) Warnings() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.messages...)
}

// Len returns the number of collected messages.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

// Clear drops the collected messages. Messages already seen stay
// suppressed.
func (c *Collector) Clear() {
	c.mu.Lock()
	c.messages = nil
	c.mu.Unlock()
}
