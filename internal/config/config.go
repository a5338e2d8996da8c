package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	domain "github.com/oshokin/alarm-notifier/internal/domain/alarm"
	"github.com/oshokin/alarm-notifier/internal/logger"
)

// Config holds the Firebase project settings shared by the notifier binaries.
type Config struct {
	// CredentialsFile is the service account JSON; empty means Application Default Credentials.
	CredentialsFile string `yaml:"credentials_file,omitempty"`
	// ProjectID overrides the project detected from the credentials.
	ProjectID string `yaml:"project_id,omitempty"`
	// DatabaseURL is the Realtime Database URL, required by the watcher.
	DatabaseURL string `yaml:"database_url,omitempty"`
	// AlarmPath is the database path holding the alarm flag.
	AlarmPath string `yaml:"alarm_path"`
	// ListenAddress is the HTTP address the event receiver binds to.
	ListenAddress string `yaml:"listen_addr"`
	// PollInterval is the delay between two database reads of the watcher.
	PollInterval time.Duration `yaml:"poll_interval"`
	// Timeout bounds a single database read.
	Timeout time.Duration `yaml:"timeout"`
	// LogLevel is the minimum level of emitted log entries.
	LogLevel string `yaml:"log_level"`
	// PollLogLevel overrides LogLevel for the watcher polling loop; empty inherits it.
	PollLogLevel string `yaml:"poll_log_level,omitempty"`
}

const (
	// DefaultConfigFilename is the default filename for notifier settings.
	DefaultConfigFilename = "alarm-notifier-settings.yaml"

	// DefaultListenAddress is the default HTTP address of the event receiver.
	DefaultListenAddress = ":8080"

	// DefaultPollInterval is the default delay between database reads.
	DefaultPollInterval = 2 * time.Second

	// DefaultTimeout is the default duration of a database read.
	DefaultTimeout = 5 * time.Second

	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errInvalidAlarmPath is returned when the alarm path is not absolute.
	errInvalidAlarmPath = errors.New("alarm path must start with '/'")
	// errInvalidLogLevel is returned for unknown log level names.
	errInvalidLogLevel = errors.New("unknown log level")
	// ErrDatabaseURLRequired is returned when a component needs the database but no URL is set.
	ErrDatabaseURLRequired = errors.New("database url must be provided")
)

// Default returns a configuration with every optional field set to its default.
func Default() *Config {
	return &Config{
		AlarmPath:     domain.DefaultPath,
		ListenAddress: DefaultListenAddress,
		PollInterval:  DefaultPollInterval,
		Timeout:       DefaultTimeout,
		LogLevel:      DefaultLogLevel,
	}
}

// Load reads configuration from the provided path and validates it.
// A missing file at the default location yields the defaults.
func Load(path string) (*Config, error) {
	isDefault := path == ""
	if isDefault {
		path = DefaultConfigFilename
	}

	cfg := Default()

	contents, err := os.ReadFile(filepath.Clean(path))

	switch {
	case err == nil:
		if err = yaml.Unmarshal(contents, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal settings: %w", err)
		}
	case isDefault && errors.Is(err, os.ErrNotExist):
		// Run on defaults.
	default:
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err = Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Settings may point at credentials, keep them private.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings and fills in defaults for empty fields.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	if settings.AlarmPath == "" {
		settings.AlarmPath = domain.DefaultPath
	}

	if !strings.HasPrefix(settings.AlarmPath, "/") {
		return fmt.Errorf("%w: %q", errInvalidAlarmPath, settings.AlarmPath)
	}

	if settings.ListenAddress == "" {
		settings.ListenAddress = DefaultListenAddress
	}

	if _, _, err := net.SplitHostPort(settings.ListenAddress); err != nil {
		return fmt.Errorf("invalid listen address: %w", err)
	}

	if settings.PollInterval <= 0 {
		settings.PollInterval = DefaultPollInterval
	}

	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	if settings.LogLevel == "" {
		settings.LogLevel = DefaultLogLevel
	}

	if _, ok := logger.ParseLogLevel(settings.LogLevel); !ok {
		return fmt.Errorf("%w: %q", errInvalidLogLevel, settings.LogLevel)
	}

	if settings.PollLogLevel != "" {
		if _, ok := logger.ParseLogLevel(settings.PollLogLevel); !ok {
			return fmt.Errorf("%w: %q", errInvalidLogLevel, settings.PollLogLevel)
		}
	}

	if settings.DatabaseURL == "" {
		return nil
	}

	if _, err := url.ParseRequestURI(settings.DatabaseURL); err != nil {
		return fmt.Errorf("invalid database url: %w", err)
	}

	return nil
}
