package notifier

import (
	"context"

	"firebase.google.com/go/v4/messaging"

	domain "github.com/oshokin/alarm-notifier/internal/domain/alarm"
	"github.com/oshokin/alarm-notifier/internal/logger"
)

// Sender dispatches a push message and returns the provider message ID.
// *messaging.Client satisfies it.
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// Notifier sends the alert notification when the alarm is switched on.
// It keeps no state between calls and is safe for concurrent use.
type Notifier struct {
	// sender delivers messages to the push provider.
	sender Sender
}

// New creates a Notifier dispatching through sender.
func New(sender Sender) *Notifier {
	return &Notifier{
		sender: sender,
	}
}

// HandleChange sends the alert notification if change is a false to true
// transition and does nothing otherwise.
func (n *Notifier) HandleChange(ctx context.Context, change *domain.Change) {
	if change == nil || !change.IsActivation() {
		logger.DebugKV(ctx, "Alarm change ignored", "before", beforeOf(change), "after", afterOf(change))
		return
	}

	notification := domain.NewAlertNotification()

	messageID, err := n.sender.Send(ctx, toMessage(notification))
	if err != nil {
		logger.ErrorKV(ctx, "Alarm notification failed", "topic", notification.Topic, "error", err)
		return
	}

	logger.InfoKV(ctx, "Alarm notification sent", "topic", notification.Topic, "message_id", messageID)
}

// toMessage converts a domain notification into an FCM topic message.
func toMessage(notification *domain.Notification) *messaging.Message {
	return &messaging.Message{
		Notification: &messaging.Notification{
			Title: notification.Title,
			Body:  notification.Body,
		},
		Topic: notification.Topic,
	}
}

// beforeOf returns the previous value of change, nil for a nil change.
func beforeOf(change *domain.Change) any {
	if change == nil {
		return nil
	}

	return change.Before
}

// afterOf returns the new value of change, nil for a nil change.
func afterOf(change *domain.Change) any {
	if change == nil {
		return nil
	}

	return change.After
}
