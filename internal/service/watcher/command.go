package watcher

import (
	"context"
	"fmt"

	"github.com/oshokin/alarm-notifier/internal/config"
	"github.com/oshokin/alarm-notifier/internal/logger"
	"github.com/oshokin/alarm-notifier/internal/platform"
	repo "github.com/oshokin/alarm-notifier/internal/repository/state"
	"github.com/oshokin/alarm-notifier/internal/service/notifier"
)

// Options controls the alarm-watcher process and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// DatabaseURL overrides the database URL from the configuration.
	DatabaseURL string
	// AlarmPath overrides the watched path from the configuration.
	AlarmPath string
}

// Run loads configuration, initializes Firebase and polls until ctx is canceled.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "alarm-watcher")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// Command line arguments override the configuration file.
	if opts.DatabaseURL != "" {
		cfg.DatabaseURL = opts.DatabaseURL
	}

	if opts.AlarmPath != "" {
		cfg.AlarmPath = opts.AlarmPath
	}

	if err = config.Validate(cfg); err != nil {
		return fmt.Errorf("validate configuration: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return config.ErrDatabaseURLRequired
	}

	if level, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
		logger.SetLevel(level)
	}

	p, err := platform.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize platform: %w", err)
	}

	database, err := p.Database()
	if err != nil {
		return err
	}

	repository, err := repo.NewRealtimeRepository(database.NewRef(cfg.AlarmPath), cfg.Timeout)
	if err != nil {
		return fmt.Errorf("create repository: %w", err)
	}

	var watcherOpts []Option
	if level, ok := logger.ParseLogLevel(cfg.PollLogLevel); ok && cfg.PollLogLevel != "" {
		watcherOpts = append(watcherOpts, WithPollLevel(level))
	}

	w, err := New(repository, notifier.New(p.Messaging()), cfg.PollInterval, watcherOpts...)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	ctx = logger.WithKV(ctx, "path", cfg.AlarmPath)

	return w.Run(ctx)
}
