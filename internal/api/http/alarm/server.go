package alarm

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/oshokin/alarm-notifier/internal/domain/alarm"
	"github.com/oshokin/alarm-notifier/internal/logger"
)

const (
	// headerSubject carries the event subject in CloudEvents binary mode.
	headerSubject = "Ce-Subject"
	// headerID carries the event ID in CloudEvents binary mode.
	headerID = "Ce-Id"
)

// ChangeHandler abstracts the business operation the transport layer depends on.
type ChangeHandler interface {
	HandleChange(ctx context.Context, change *domain.Change)
}

// Server exposes the change handler over HTTP.
type Server struct {
	// handler receives every decoded change.
	handler ChangeHandler
	// path is the watched database path; events for other paths are ignored.
	path string
}

// NewServer wires the provided handler into HTTP endpoints for path.
func NewServer(handler ChangeHandler, path string) *Server {
	return &Server{
		handler: handler,
		path:    path,
	}
}

// Register mounts the endpoints on r.
func (s *Server) Register(r gin.IRouter) {
	r.POST("/", s.Written)
	r.GET("/healthz", s.Health)
}

// Written handles a database write event. It answers 204 once the event is
// decoded, whatever the outcome of the notification, and 400 otherwise.
func (s *Server) Written(c *gin.Context) {
	ctx := c.Request.Context()
	if id := c.GetHeader(headerID); id != "" {
		ctx = logger.WithKV(ctx, "event_id", id)
	}

	body, err := c.GetRawData()
	if err != nil {
		logger.WarnKV(ctx, "Read event body failed", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read body"})

		return
	}

	change, subject, err := decodeEvent(c.ContentType(), c.GetHeader(headerSubject), body)
	if err != nil {
		logger.WarnKV(ctx, "Invalid event", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if subject != "" && subjectPath(subject) != s.path {
		logger.WarnKV(ctx, "Event for another path ignored", "subject", subject, "path", s.path)
		c.Status(http.StatusNoContent)

		return
	}

	s.handler.HandleChange(ctx, change)

	c.Status(http.StatusNoContent)
}

// Health reports that the receiver is up.
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// WithLogger attaches the logger of ctx to every request context.
func WithLogger(ctx context.Context) gin.HandlerFunc {
	l := logger.FromContext(ctx)

	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(logger.ToContext(c.Request.Context(), l))
		c.Next()
	}
}
