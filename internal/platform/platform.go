package platform

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"github.com/oshokin/alarm-notifier/internal/config"
	"github.com/oshokin/alarm-notifier/internal/logger"
)

// Platform holds the Firebase clients shared by every handler of the process.
type Platform struct {
	// messaging sends push notifications.
	messaging *messaging.Client
	// database reads the Realtime Database, nil when no URL is configured.
	database *db.Client
}

var (
	// errConfigRequired is returned when New is called without configuration.
	errConfigRequired = errors.New("configuration is required")
	// ErrDatabaseDisabled is returned by Database when no database URL is configured.
	ErrDatabaseDisabled = errors.New("realtime database is not configured")
)

// New initializes the Firebase app and its clients from cfg.
func New(ctx context.Context, cfg *config.Config) (*Platform, error) {
	if cfg == nil {
		return nil, errConfigRequired
	}

	app, err := firebase.NewApp(ctx, appConfig(cfg), clientOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}

	messagingClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("get messaging client: %w", err)
	}

	p := &Platform{
		messaging: messagingClient,
	}

	if cfg.DatabaseURL != "" {
		p.database, err = app.Database(ctx)
		if err != nil {
			return nil, fmt.Errorf("get database client: %w", err)
		}
	}

	logger.InfoKV(ctx, "Firebase initialized",
		"project_id", cfg.ProjectID,
		"database_enabled", p.database != nil,
	)

	return p, nil
}

// Messaging returns the push messaging client.
func (p *Platform) Messaging() *messaging.Client {
	return p.messaging
}

// Database returns the Realtime Database client.
func (p *Platform) Database() (*db.Client, error) {
	if p.database == nil {
		return nil, ErrDatabaseDisabled
	}

	return p.database, nil
}

// appConfig maps settings onto the Firebase app configuration.
// A nil result lets the SDK read FIREBASE_CONFIG from the environment.
func appConfig(cfg *config.Config) *firebase.Config {
	if cfg.ProjectID == "" && cfg.DatabaseURL == "" {
		return nil
	}

	return &firebase.Config{
		ProjectID:   cfg.ProjectID,
		DatabaseURL: cfg.DatabaseURL,
	}
}

// clientOptions selects explicit credentials when a service account file is configured.
func clientOptions(cfg *config.Config) []option.ClientOption {
	if cfg.CredentialsFile == "" {
		return nil
	}

	return []option.ClientOption{option.WithCredentialsFile(cfg.CredentialsFile)}
}
