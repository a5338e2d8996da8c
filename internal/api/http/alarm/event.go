package alarm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	domain "github.com/oshokin/alarm-notifier/internal/domain/alarm"
)

// cloudEventsJSON is the content type of a structured-mode CloudEvent.
const cloudEventsJSON = "application/cloudevents+json"

// writtenPayload is the data of a database "written" event: the value
// before the write and the delta applied on top of it.
type writtenPayload struct {
	Data  json.RawMessage `json:"data"`
	Delta json.RawMessage `json:"delta"`
}

// envelope is a structured-mode CloudEvent.
type envelope struct {
	Subject string          `json:"subject"`
	Data    json.RawMessage `json:"data"`
}

var (
	// errEmptyBody is returned for requests without a payload.
	errEmptyBody = errors.New("empty event body")
	// errNoEventData is returned when a structured event carries no data.
	errNoEventData = errors.New("event has no data")
)

// decodeEvent parses a request body into a change and the event subject.
// The subject argument is the binary-mode ce-subject header, overridden by
// the envelope subject in structured mode.
func decodeEvent(contentType, subject string, body []byte) (*domain.Change, string, error) {
	if len(body) == 0 {
		return nil, "", errEmptyBody
	}

	if strings.HasPrefix(contentType, cloudEventsJSON) {
		var e envelope
		if err := json.Unmarshal(body, &e); err != nil {
			return nil, "", fmt.Errorf("decode cloud event: %w", err)
		}

		if len(e.Data) == 0 {
			return nil, "", errNoEventData
		}

		body = e.Data

		if e.Subject != "" {
			subject = e.Subject
		}
	}

	var payload writtenPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, "", fmt.Errorf("decode event data: %w", err)
	}

	before, err := decodeValue(payload.Data)
	if err != nil {
		return nil, "", fmt.Errorf("decode before value: %w", err)
	}

	// Without a delta the value is left as it was.
	if payload.Delta == nil {
		return &domain.Change{Before: before, After: before}, subject, nil
	}

	delta, err := decodeValue(payload.Delta)
	if err != nil {
		return nil, "", fmt.Errorf("decode delta: %w", err)
	}

	return &domain.Change{Before: before, After: applyDelta(before, delta)}, subject, nil
}

// decodeValue decodes a raw JSON value, mapping a missing value to nil.
func decodeValue(raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}

	return v, nil
}

// applyDelta returns the value resulting from writing delta over base.
// Objects are merged key by key and null removes a key; any other delta
// replaces the base value.
func applyDelta(base, delta any) any {
	deltaObject, ok := delta.(map[string]any)
	if !ok {
		return delta
	}

	baseObject, _ := base.(map[string]any)
	result := make(map[string]any, len(baseObject)+len(deltaObject))

	for k, v := range baseObject {
		result[k] = v
	}

	for k, v := range deltaObject {
		merged := applyDelta(baseObject[k], v)
		if merged == nil {
			delete(result, k)
			continue
		}

		result[k] = merged
	}

	if len(result) == 0 {
		return nil
	}

	return result
}

// subjectPath converts a "refs/a/b" subject into the "/a/b" database path.
func subjectPath(subject string) string {
	return "/" + strings.Trim(strings.TrimPrefix(subject, "refs"), "/")
}
