// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	API           APIConfig               `mapstructure:"api"`
	Cache         CacheConfig             `mapstructure:"cache"`
	Session       SessionConfig           `mapstructure:"session"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Notifications NotificationConfig      `mapstructure:"notifications"`
	Metrics       MetricsConfig           `mapstructure:"metrics"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

// APIConfig describes the remote job-portal REST API.
type APIConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	Timeout     int    `mapstructure:"timeout"`      // milliseconds
	ReadRetries int    `mapstructure:"read_retries"` // total attempts for GETs
	BackoffBase int    `mapstructure:"backoff_base"` // milliseconds
	BackoffMax  int    `mapstructure:"backoff_max"`  // milliseconds

	// Marker strings the server uses in place of error codes.
	SuccessMarker      string `mapstructure:"success_marker"`
	IncompleteSentinel string `mapstructure:"incomplete_sentinel"`
}

type CacheConfig struct {
	Redis     RedisConfig `mapstructure:"redis"`
	LookupTTL int         `mapstructure:"lookup_ttl"` // seconds
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SessionConfig controls the key-value mirror of the signed-in user.
type SessionConfig struct {
	KeyPrefix  string `mapstructure:"key_prefix"`
	ProfileTTL int    `mapstructure:"profile_ttl"` // seconds, 0 keeps forever
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// NotificationConfig holds the toast and confirmation-mail channels.
type NotificationConfig struct {
	Region string `mapstructure:"region"`
	SNS    struct {
		Enabled  bool   `mapstructure:"enabled"`
		TopicARN string `mapstructure:"topic_arn"`
	} `mapstructure:"sns"`
	SES struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
	} `mapstructure:"ses"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type MetricsConfig struct {
	Address string `mapstructure:"address"`
}
