package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeExport(); err != nil {
		return err
	}
	c.normalizeCopy()
	if err := c.normalizeValidator(); err != nil {
		return err
	}
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeExport() error {
	c.Export.Originator = strings.TrimSpace(c.Export.Originator)
	if c.Export.Originator == "" {
		c.Export.Originator = defaultOriginator
	}
	c.Export.DefaultLanguage = strings.ToLower(strings.TrimSpace(c.Export.DefaultLanguage))
	if c.Export.DefaultLanguage == "" {
		c.Export.DefaultLanguage = defaultLanguage
	}
	patterns := make([]string, 0, len(c.Export.ExcludePatterns))
	for _, pattern := range c.Export.ExcludePatterns {
		if trimmed := strings.TrimSpace(pattern); trimmed != "" {
			patterns = append(patterns, trimmed)
		}
	}
	c.Export.ExcludePatterns = patterns
	if strings.TrimSpace(c.Export.MetricsTextfile) != "" {
		expanded, err := expandPath(strings.TrimSpace(c.Export.MetricsTextfile))
		if err != nil {
			return fmt.Errorf("export.metrics_textfile: %w", err)
		}
		c.Export.MetricsTextfile = expanded
	}
	return nil
}

func (c *Config) normalizeCopy() {
	c.Copy.RsyncBinary = strings.TrimSpace(c.Copy.RsyncBinary)
	if c.Copy.RsyncBinary == "" {
		c.Copy.RsyncBinary = defaultRsyncBinary
	}
	if c.Copy.FallbackThresholdBytes == 0 {
		c.Copy.FallbackThresholdBytes = defaultFallbackThresholdBytes
	}
	if c.Copy.CancelGraceMillis == 0 {
		c.Copy.CancelGraceMillis = defaultCancelGraceMillis
	}
}

func (c *Config) normalizeValidator() error {
	c.Validator.Binary = strings.TrimSpace(c.Validator.Binary)
	if c.Validator.Binary == "" {
		if value, ok := os.LookupEnv("LAMETA_VALIDATOR"); ok {
			c.Validator.Binary = strings.TrimSpace(value)
		}
	}
	c.Validator.Namespace = strings.TrimSpace(c.Validator.Namespace)
	if c.Validator.Namespace == "" {
		c.Validator.Namespace = defaultValidatorNamespace
	}
	if c.Validator.TimeoutSeconds == 0 {
		c.Validator.TimeoutSeconds = defaultValidatorTimeout
	}
	if mv := strings.TrimSpace(c.Validator.ModeValidator); mv != "" && !strings.Contains(mv, "://") {
		expanded, err := expandPath(mv)
		if err != nil {
			return fmt.Errorf("validator.mode_validator: %w", err)
		}
		c.Validator.ModeValidator = expanded
	}
	return nil
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeoutSeconds == 0 {
		c.Notifications.RequestTimeoutSeconds = defaultNtfyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
