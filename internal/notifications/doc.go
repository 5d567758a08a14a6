// Package notifications publishes export outcomes to ntfy.
//
// NewService returns a no-op notifier when notifications.ntfy_topic is empty,
// so the export manager can publish unconditionally.
package notifications
