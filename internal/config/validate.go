package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/text/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateExport(); err != nil {
		return err
	}
	if err := c.validateCopy(); err != nil {
		return err
	}
	if err := c.validateValidator(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateExport() error {
	if _, err := language.Parse(c.Export.DefaultLanguage); err != nil {
		return fmt.Errorf("export.default_language: %q is not a language tag: %w", c.Export.DefaultLanguage, err)
	}
	for _, pattern := range c.Export.ExcludePatterns {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("export.exclude_patterns: invalid glob %q", pattern)
		}
	}
	if c.Export.LockTimeoutSeconds < 0 {
		return errors.New("export.lock_timeout_seconds must be zero or positive")
	}
	return nil
}

func (c *Config) validateCopy() error {
	if c.Copy.FallbackThresholdBytes < 0 {
		return errors.New("copy.fallback_threshold_bytes must be positive")
	}
	if c.Copy.CancelGraceMillis < 0 {
		return errors.New("copy.cancel_grace_millis must be positive")
	}
	return nil
}

func (c *Config) validateValidator() error {
	if c.Validator.TimeoutSeconds < 0 {
		return errors.New("validator.timeout_seconds must be positive")
	}
	if len(c.Validator.Args) > 0 && c.Validator.Binary == "" {
		return errors.New("validator.args requires validator.binary")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeoutSeconds < 0 {
		return errors.New("notifications.request_timeout_seconds must be positive")
	}
	topic := c.Notifications.NtfyTopic
	if topic != "" && !strings.HasPrefix(topic, "http://") && !strings.HasPrefix(topic, "https://") {
		return fmt.Errorf("notifications.ntfy_topic: %q must be an http(s) URL", topic)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
