package app

import (
	"errors"
	"net/url"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"60s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	APIBaseURL string        `envconfig:"API_BASE_URL" default:"http://127.0.0.1:3000/api/v1"`
	APITimeout time.Duration `envconfig:"API_TIMEOUT" default:"20s"`

	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	SessionSecret string        `envconfig:"SESSION_SECRET" required:"true"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"168h"`

	CSRFSecret string `envconfig:"CSRF_SECRET" required:"true"`

	PickerDebounce time.Duration `envconfig:"PICKER_DEBOUNCE" default:"300ms"`
	PickerIdleTTL  time.Duration `envconfig:"PICKER_IDLE_TTL" default:"30m"`

	ExportTTL         time.Duration `envconfig:"EXPORT_TTL" default:"1h"`
	WorkerConcurrency int           `envconfig:"WORKER_CONCURRENCY" default:"4"`

	RateLimitPerMinute int `envconfig:"RATE_LIMIT_PER_MINUTE" default:"120"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.SessionSecret == "" {
		return errors.New("session secret must be provided")
	}
	if c.CSRFSecret == "" {
		return errors.New("csrf secret must be provided")
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("api base url must be an absolute url")
	}
	return nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
