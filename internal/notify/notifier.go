package notify

import (
	"context"
	"encoding/json"
	"log"

	"github.com/quillnotes/apiserver/internal/mq"
)

// WelcomeEvent carries the data needed to greet a new account.
type WelcomeEvent struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// Notifier delivers welcome events to whatever handles them downstream.
// Implementations are chosen once at startup; callers never inspect the
// concrete type.
type Notifier interface {
	SendWelcome(ctx context.Context, event WelcomeEvent) error
}

// QueueNotifier publishes welcome events as JSON to a message queue.
// Delivery to the recipient is the consumer's concern.
type QueueNotifier struct {
	queue   mq.Backend
	channel string
}

// NewQueueNotifier constructs a QueueNotifier publishing on the named channel.
func NewQueueNotifier(queue mq.Backend, channel string) *QueueNotifier {
	return &QueueNotifier{queue: queue, channel: channel}
}

func (n *QueueNotifier) SendWelcome(ctx context.Context, event WelcomeEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = n.queue.Publish(ctx, n.channel, data, map[string]string{"event": "welcome"})
	return err
}

// LogNotifier writes welcome events to the server log. Used in development
// and wherever no broker is configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) SendWelcome(ctx context.Context, event WelcomeEvent) error {
	log.Printf("notify: welcome email for %s (%s)", event.Email, event.DisplayName)
	return nil
}
