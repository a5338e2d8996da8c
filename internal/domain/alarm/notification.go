package alarm

const (
	// AlertTitle is the title of the push notification sent on activation.
	AlertTitle = "🚨 Alerte Sécurité"
	// AlertBody is the body of the push notification sent on activation.
	AlertBody = "L'alarme vient d'être activée !"
	// AlertTopic is the broadcast topic every client subscribes to.
	AlertTopic = "allUsers"
)

// Notification is a push message addressed to a topic.
type Notification struct {
	// Title is the notification headline.
	Title string
	// Body is the notification text.
	Body string
	// Topic is the messaging topic receiving the notification.
	Topic string
}

// NewAlertNotification builds the fixed notification announcing an activated alarm.
func NewAlertNotification() *Notification {
	return &Notification{
		Title: AlertTitle,
		Body:  AlertBody,
		Topic: AlertTopic,
	}
}
