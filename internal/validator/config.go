package validator

import (
	"log/slog"
	"time"

	"lameta/internal/config"
)

// OptionsFromConfig builds Options from the [validator] section.
func OptionsFromConfig(cfg *config.Config, logger *slog.Logger) Options {
	if cfg == nil {
		return Options{Logger: logger}
	}
	v := cfg.Validator
	return Options{
		ModeValidator: v.ModeValidator,
		Namespace:     v.Namespace,
		Binary:        v.Binary,
		Args:          append([]string(nil), v.Args...),
		Timeout:       time.Duration(v.TimeoutSeconds) * time.Second,
		Logger:        logger,
	}
}
