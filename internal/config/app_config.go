package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// AppConfig holds all application-level configuration loaded from environment variables.
type AppConfig struct {
	// Port is the HTTP server port. Defaults to 8990.
	Port int `envconfig:"PORT" default:"8990"`

	// DataDir is the root data directory. Defaults to ~/.notificator.
	DataDir string `envconfig:"NOTIFICATOR_DATA_DIR"`

	// LogLevel sets the minimum log level (debug, info, warn, error). Defaults to info.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// LogMaxSizeMB is the size at which system.log is rotated.
	LogMaxSizeMB int `envconfig:"LOG_MAX_SIZE_MB" default:"50"`

	SMTPHost       string `envconfig:"SMTP_HOST"`
	SMTPPort       int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername   string `envconfig:"SMTP_USERNAME"`
	SMTPPassword   string `envconfig:"SMTP_PASSWORD"`
	SMTPEncryption string `envconfig:"SMTP_ENCRYPTION" default:"starttls"`

	// FromAddress is the sender of every notification.
	FromAddress string `envconfig:"NOTIFICATOR_FROM_ADDRESS"`

	// AdminAddresses receive the failure notice. Comma separated.
	AdminAddresses []string `envconfig:"NOTIFICATOR_ADMIN_ADDRESSES"`

	// SubjectPrefix is prepended to every subject. Empty keeps the built-in prefix.
	SubjectPrefix string `envconfig:"NOTIFICATOR_SUBJECT_PREFIX"`

	// BrandName is shown in the HTML layout.
	BrandName string `envconfig:"NOTIFICATOR_BRAND_NAME"`

	// DispatchCron is the crontab expression of the scheduled dispatch run.
	// An empty value disables the scheduler.
	DispatchCron string `envconfig:"NOTIFICATOR_DISPATCH_CRON" default:"0 6 * * *"`

	// CORSOrigins lists the origins allowed to call the API. Comma separated.
	CORSOrigins []string `envconfig:"NOTIFICATOR_CORS_ORIGINS"`

	// OTelEnabled turns on OpenTelemetry tracing and log export.
	OTelEnabled      bool    `envconfig:"OTEL_ENABLED" default:"false"`
	OTelEndpoint     string  `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTelInsecure     bool    `envconfig:"OTEL_EXPORTER_OTLP_INSECURE" default:"false"`
	OTelSamplingRate float64 `envconfig:"OTEL_SAMPLING_RATE" default:"1.0"`
}

// LoadDotEnv reads KEY=VALUE pairs from path into the process environment.
// Variables already set are not overridden. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load reads AppConfig from environment variables using envconfig.
// DataDir defaults to ~/.notificator if not set.
func Load() (*AppConfig, error) {
	var c AppConfig
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		c.DataDir = filepath.Join(home, ".notificator")
	}
	c.AdminAddresses = trimAll(c.AdminAddresses)
	c.CORSOrigins = trimAll(c.CORSOrigins)
	return &c, nil
}

// ValidateMail reports whether the settings needed to send email are present.
func (c *AppConfig) ValidateMail() error {
	var errs []error
	if c.SMTPHost == "" {
		errs = append(errs, errors.New("SMTP_HOST is required"))
	}
	if c.FromAddress == "" {
		errs = append(errs, errors.New("NOTIFICATOR_FROM_ADDRESS is required"))
	}
	if len(c.AdminAddresses) == 0 {
		errs = append(errs, errors.New("NOTIFICATOR_ADMIN_ADDRESSES is required"))
	}
	switch c.SMTPEncryption {
	case "none", "starttls", "ssl_tls":
	default:
		errs = append(errs, fmt.Errorf("SMTP_ENCRYPTION %q must be one of none, starttls, ssl_tls", c.SMTPEncryption))
	}
	return errors.Join(errs...)
}

// SlogLevel converts the LogLevel string to a slog.Level.
// Unknown values default to slog.LevelInfo.
func (c *AppConfig) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogDir returns the path to the log directory (~/.notificator/logs).
func (c *AppConfig) LogDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// DBPath returns the path to the SQLite database file.
func (c *AppConfig) DBPath() string {
	return filepath.Join(c.DataDir, "notificator.db")
}

func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
