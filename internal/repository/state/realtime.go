package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/oshokin/alarm-notifier/internal/domain/alarm"
)

// Repository defines read operations for the watched alarm value.
type Repository interface {
	// Load returns the current state and true when its ETag differs from etag.
	// When nothing changed it returns a nil state and false.
	Load(ctx context.Context, etag string) (*domain.State, bool, error)
}

// Reference is the subset of *db.Ref used by the repository.
type Reference interface {
	GetWithETag(ctx context.Context, v any) (string, error)
	GetIfChanged(ctx context.Context, etag string, v any) (bool, string, error)
}

// RealtimeRepository reads a single database reference.
type RealtimeRepository struct {
	// ref is the database location being read.
	ref Reference
	// timeout bounds a single read, zero means none.
	timeout time.Duration
	// now returns the read timestamp.
	now func() time.Time
}

// errReferenceRequired is returned when the repository is built without a reference.
var errReferenceRequired = errors.New("database reference is required")

// NewRealtimeRepository creates a repository reading ref, each read bounded by timeout.
func NewRealtimeRepository(ref Reference, timeout time.Duration) (*RealtimeRepository, error) {
	if ref == nil {
		return nil, errReferenceRequired
	}

	return &RealtimeRepository{
		ref:     ref,
		timeout: timeout,
		now:     time.Now,
	}, nil
}

// Load reads the value at the reference. An empty etag forces a full read.
func (r *RealtimeRepository) Load(ctx context.Context, etag string) (*domain.State, bool, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var value any

	if etag == "" {
		newETag, err := r.ref.GetWithETag(ctx, &value)
		if err != nil {
			return nil, false, fmt.Errorf("read alarm value: %w", err)
		}

		return r.state(value, newETag), true, nil
	}

	changed, newETag, err := r.ref.GetIfChanged(ctx, etag, &value)
	if err != nil {
		return nil, false, fmt.Errorf("read alarm value if changed: %w", err)
	}

	if !changed {
		return nil, false, nil
	}

	return r.state(value, newETag), true, nil
}

func (r *RealtimeRepository) state(value any, etag string) *domain.State {
	return &domain.State{
		Value:     value,
		ETag:      etag,
		Timestamp: r.now(),
	}
}
