package integration

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"firebase.google.com/go/v4/messaging"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/alarm-notifier/internal/domain/alarm"
	repo "github.com/oshokin/alarm-notifier/internal/repository/state"
	"github.com/oshokin/alarm-notifier/internal/service/notifier"
	"github.com/oshokin/alarm-notifier/internal/service/receiver"
	"github.com/oshokin/alarm-notifier/internal/service/watcher"
)

var errTestQuota = errors.New("quota exceeded")

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// recordingSender stands in for the messaging client.
type recordingSender struct {
	// mu protects topics.
	mu sync.Mutex
	// topics holds the topic of every message sent.
	topics []string
	// err is returned from Send when set.
	err error
}

// Send records the message topic.
func (s *recordingSender) Send(_ context.Context, message *messaging.Message) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.topics = append(s.topics, message.Topic)

	if s.err != nil {
		return "", s.err
	}

	return "projects/alarm/messages/1", nil
}

// count returns the number of messages sent.
func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.topics)
}

// TestReceiver_NotifiesOnActivation drives the HTTP receiver with typical writes on the alarm flag.
func TestReceiver_NotifiesOnActivation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		body  string
		err   error
		sends int
	}{
		{name: "false to true", body: `{"data":false,"delta":true}`, sends: 1},
		{name: "true to false", body: `{"data":true,"delta":false}`},
		{name: "true to true", body: `{"data":true,"delta":true}`},
		{name: "created as true", body: `{"data":null,"delta":true}`},
		{name: "send fails", body: `{"data":false,"delta":true}`, err: errTestQuota, sends: 1},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			sender := &recordingSender{err: tc.err}
			handler := receiver.NewHandler(context.Background(), notifier.New(sender), domain.DefaultPath)

			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			require.Equal(t, http.StatusNoContent, w.Code)
			require.Equal(t, tc.sends, sender.count())
		})
	}
}

// memoryReference is an in-memory database reference with ETag revisions.
type memoryReference struct {
	// mu protects all fields.
	mu sync.Mutex
	// value is the stored JSON value.
	value string
	// revision increments on every write.
	revision int
}

// write stores a new JSON value.
func (r *memoryReference) write(value string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.value = value
	r.revision++
}

func (r *memoryReference) etag() string {
	return "rev-" + strconv.Itoa(r.revision)
}

// GetWithETag decodes the stored value into v.
func (r *memoryReference) GetWithETag(_ context.Context, v any) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.etag(), json.Unmarshal([]byte(r.value), v)
}

// GetIfChanged decodes the stored value into v when etag is stale.
func (r *memoryReference) GetIfChanged(_ context.Context, etag string, v any) (bool, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if etag == r.etag() {
		return false, etag, nil
	}

	return true, r.etag(), json.Unmarshal([]byte(r.value), v)
}

// TestWatcher_NotifiesOnActivation runs the watcher against an in-memory database.
func TestWatcher_NotifiesOnActivation(t *testing.T) {
	t.Parallel()

	ref := &memoryReference{value: "false"}
	repository, err := repo.NewRealtimeRepository(ref, time.Second)
	require.NoError(t, err)

	sender := new(recordingSender)

	w, err := watcher.New(repository, notifier.New(sender), 5*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)

	go func() {
		done <- w.Run(ctx)
	}()

	// Let the baseline read happen before switching the alarm on.
	time.Sleep(50 * time.Millisecond)
	ref.write("true")

	require.Eventually(t, func() bool { return sender.count() == 1 }, time.Second, 5*time.Millisecond)

	ref.write("false")
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, 1, sender.count())
	require.Equal(t, []string{domain.AlertTopic}, sender.topics)

	cancel()
	require.NoError(t, <-done)
}
