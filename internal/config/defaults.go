package config

const (
	defaultConfigPath             = "~/.config/lameta/config.toml"
	defaultLogDir                 = "~/.local/share/lameta/logs"
	defaultStateDir               = "~/.local/share/lameta"
	defaultOriginator             = "lameta"
	defaultLanguage               = "en"
	defaultLockTimeoutSeconds     = 0
	defaultRsyncBinary            = "rsync"
	defaultFallbackThresholdBytes = 10 * 1024 * 1024
	defaultCancelGraceMillis      = 100
	defaultValidatorNamespace     = "validation-temp"
	defaultValidatorTimeout       = 300
	defaultNtfyTimeout            = 10
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:   defaultLogDir,
			StateDir: defaultStateDir,
		},
		Export: Export{
			Originator:         defaultOriginator,
			DefaultLanguage:    defaultLanguage,
			LockTimeoutSeconds: defaultLockTimeoutSeconds,
		},
		Copy: Copy{
			RsyncBinary:            defaultRsyncBinary,
			FallbackThresholdBytes: defaultFallbackThresholdBytes,
			CancelGraceMillis:      defaultCancelGraceMillis,
		},
		Validator: Validator{
			Namespace:      defaultValidatorNamespace,
			TimeoutSeconds: defaultValidatorTimeout,
		},
		Notifications: Notifications{
			RequestTimeoutSeconds: defaultNtfyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
