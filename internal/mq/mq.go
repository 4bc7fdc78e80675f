// Package mq abstracts the message brokers the notification pipeline can
// run on. The API server side only publishes; the notifier process is the
// subscriber.
package mq

import "context"

// Message is a broker-agnostic envelope.
type Message struct {
	ID         string
	Data       []byte
	Attributes map[string]string
}

// Handler processes one delivered message. A non-nil error nacks the
// message so the broker redelivers it.
type Handler func(ctx context.Context, msg Message) error

// Backend is implemented once per broker. Publish returns the message id.
// Subscribe blocks until ctx is cancelled or the broker connection fails.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Subscribe(ctx context.Context, channel string, handler Handler) error
	Close() error
}
