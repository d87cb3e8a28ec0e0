package app

import (
	"errors"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the console and the worker.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"60s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"45s"`
	RateLimit         int           `envconfig:"APP_RATE_LIMIT" default:"120"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	APIBaseURL      string        `envconfig:"API_BASE_URL" required:"true"`
	APITimeout      time.Duration `envconfig:"API_TIMEOUT" default:"20s"`
	APIServiceToken string        `envconfig:"API_SERVICE_TOKEN"`

	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	SessionSecret string        `envconfig:"SESSION_SECRET" required:"true"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"12h"`

	CSRFSecret  string   `envconfig:"CSRF_SECRET" required:"true"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS"`

	GotenbergURL string `envconfig:"GOTENBERG_URL" default:"http://127.0.0.1:3000"`

	DashboardCacheTTL  time.Duration `envconfig:"DASHBOARD_CACHE_TTL" default:"60s"`
	SummaryConcurrency int           `envconfig:"SUMMARY_CONCURRENCY" default:"8"`
	NotifyAsync        bool          `envconfig:"NOTIFY_ASYNC" default:"true"`
	WorkerConcurrency  int           `envconfig:"WORKER_CONCURRENCY" default:"5"`
	WorkerMetricsAddr  string        `envconfig:"WORKER_METRICS_ADDR" default:":9091"`

	OrgName string `envconfig:"ORG_NAME" default:"Sevadhara"`
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
	if !strings.HasPrefix(c.APIBaseURL, "http://") && !strings.HasPrefix(c.APIBaseURL, "https://") {
		return errors.New("API_BASE_URL must be an http(s) URL")
	}
	if c.SummaryConcurrency < 1 {
		return errors.New("SUMMARY_CONCURRENCY must be at least 1")
	}
	return nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
