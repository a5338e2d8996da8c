package receiver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	api "github.com/oshokin/alarm-notifier/internal/api/http/alarm"
	"github.com/oshokin/alarm-notifier/internal/config"
	"github.com/oshokin/alarm-notifier/internal/logger"
	"github.com/oshokin/alarm-notifier/internal/platform"
	"github.com/oshokin/alarm-notifier/internal/service/notifier"
)

// Options controls the alarm-notifier process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the HTTP server.
	ListenAddress string
	// AlarmPath overrides the watched path from the configuration.
	AlarmPath string
}

const (
	// readHeaderTimeout bounds the time to read request headers.
	readHeaderTimeout = 10 * time.Second
	// shutdownTimeout bounds graceful shutdown of in-flight requests.
	shutdownTimeout = 10 * time.Second
)

// Run starts the HTTP server and blocks until ctx is canceled or the server stops.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "alarm-notifier")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	// Command line arguments override the configuration file.
	if opts.ListenAddress != "" {
		cfg.ListenAddress = opts.ListenAddress
	}

	if opts.AlarmPath != "" {
		cfg.AlarmPath = opts.AlarmPath
	}

	if err = config.Validate(cfg); err != nil {
		return fmt.Errorf("validate settings: %w", err)
	}

	if level, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
		logger.SetLevel(level)
	}

	p, err := platform.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize platform: %w", err)
	}

	// Gin mode is process-wide, set it once before building any router.
	gin.SetMode(gin.ReleaseMode)

	handler := NewHandler(ctx, notifier.New(p.Messaging()), cfg.AlarmPath)

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", cfg.ListenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.ListenAddress, err)
	}

	return Serve(ctx, lis, handler)
}

// NewHandler builds the HTTP router dispatching events for path to changeHandler.
// It leaves the gin mode untouched.
func NewHandler(ctx context.Context, changeHandler api.ChangeHandler, path string) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), api.WithLogger(logger.WithKV(ctx, "path", path)))
	api.NewServer(changeHandler, path).Register(r)

	return r
}

// Serve serves handler on lis until ctx is canceled, then shuts down gracefully.
func Serve(ctx context.Context, lis net.Listener, handler http.Handler) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	logger.InfoKV(ctx, "Alarm notifier listening", "listen_address", lis.Addr().String())

	// Done channel is closed after Shutdown finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		defer close(done)

		<-ctx.Done()
		logger.Info(ctx, "Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.ErrorKV(ctx, "HTTP server shutdown failed", "error", err)
		}
	}()

	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	<-done
	logger.Info(ctx, "HTTP server stopped")

	return nil
}
