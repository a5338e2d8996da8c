package watcher

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap/zapcore"

	domain "github.com/oshokin/alarm-notifier/internal/domain/alarm"
	"github.com/oshokin/alarm-notifier/internal/logger"
	repo "github.com/oshokin/alarm-notifier/internal/repository/state"
)

// ChangeHandler reacts to a write on the watched path.
type ChangeHandler interface {
	HandleChange(ctx context.Context, change *domain.Change)
}

// Watcher turns successive database reads into change events.
type Watcher struct {
	// repo reads the watched value.
	repo repo.Repository
	// handler receives every observed change.
	handler ChangeHandler
	// interval is the delay between two reads.
	interval time.Duration
	// last is the most recently observed state, nil until the baseline read.
	last *domain.State
	// pollLevel overrides the log level of the polling loop, nil inherits the context logger.
	pollLevel *zapcore.Level
}

// Option configures watcher behaviour.
type Option func(*Watcher)

// WithPollLevel sets the log level of the watcher's own entries. Entries
// written by the change handler keep the level of the caller's logger.
func WithPollLevel(level zapcore.Level) Option {
	return func(w *Watcher) {
		w.pollLevel = &level
	}
}

// errIntervalRequired is returned when the poll interval is not positive.
var errIntervalRequired = errors.New("poll interval must be positive")

// New creates a Watcher polling repository every interval.
func New(repository repo.Repository, handler ChangeHandler, interval time.Duration, opts ...Option) (*Watcher, error) {
	if interval <= 0 {
		return nil, errIntervalRequired
	}

	w := &Watcher{
		repo:     repository,
		handler:  handler,
		interval: interval,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Run polls until ctx is canceled. The first successful read is the baseline
// and never produces a change. Read errors are logged and polling goes on.
func (w *Watcher) Run(ctx context.Context) error {
	logger.InfoKV(w.logContext(ctx), "Watching alarm value", "interval", w.interval.String())

	w.poll(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(w.logContext(ctx), "Context canceled, exiting")
			return nil
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

// poll performs one read and dispatches the change it reveals, if any.
func (w *Watcher) poll(ctx context.Context) {
	logCtx := w.logContext(ctx)

	var etag string
	if w.last != nil {
		etag = w.last.ETag
	}

	current, changed, err := w.repo.Load(ctx, etag)
	if err != nil {
		if ctx.Err() == nil {
			logger.ErrorKV(logCtx, "Read alarm value failed", "error", err)
		}

		return
	}

	if !changed {
		return
	}

	previous := w.last
	w.last = current

	if previous == nil {
		logger.InfoKV(logCtx, "Alarm value baseline", "value", current.Value, "etag", current.ETag)
		return
	}

	logger.DebugKV(logCtx, "Alarm value written", "before", previous.Value, "after", current.Value)

	w.handler.HandleChange(ctx, &domain.Change{
		Before: previous.Value,
		After:  current.Value,
	})
}

// logContext returns ctx with the polling log level applied, if any.
func (w *Watcher) logContext(ctx context.Context) context.Context {
	if w.pollLevel == nil {
		return ctx
	}

	return logger.WithLevelOverride(ctx, *w.pollLevel)
}
