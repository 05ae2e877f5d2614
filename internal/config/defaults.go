package config

const (
	defaultBaseURL          = "http://localhost:8000/api"
	defaultLoginPath        = "/login"
	defaultRequestTimeout   = 120
	defaultRetryAttempts    = 2
	defaultRetryDelay       = 1
	defaultDataDir          = "~/.local/share/papercast"
	defaultLogDir           = "~/.local/share/papercast/logs"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultNotifyTimeout    = 10
	defaultNotifyErrors     = true
	defaultNotifyMilestones = false
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Backend: Backend{
			BaseURL:        defaultBaseURL,
			LoginPath:      defaultLoginPath,
			RequestTimeout: defaultRequestTimeout,
			RetryAttempts:  defaultRetryAttempts,
			RetryDelay:     defaultRetryDelay,
		},
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Errors:         defaultNotifyErrors,
			Milestones:     defaultNotifyMilestones,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
