package notify

import (
	"context"
	"log"
	"sync"
	"time"
)

const (
	defaultQueueSize   = 64
	defaultSendTimeout = 10 * time.Second
)

// Dispatcher decouples welcome-notification delivery from the request
// path. Enqueue never blocks and never reports delivery outcome; a full
// buffer drops the event with a log line, and so does an Enqueue racing
// shutdown. All sends happen on a single background worker.
type Dispatcher struct {
	notifier Notifier
	events   chan WelcomeEvent
	timeout  time.Duration

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// NewDispatcher starts the background worker and returns the dispatcher.
func NewDispatcher(notifier Notifier) *Dispatcher {
	d := &Dispatcher{
		notifier: notifier,
		events:   make(chan WelcomeEvent, defaultQueueSize),
		timeout:  defaultSendTimeout,
		done:     make(chan struct{}),
	}
	go d.run()
	return d
}

// Enqueue submits an event for delivery and returns immediately. Safe to
// call at any point, including after Close; a late event is dropped.
func (d *Dispatcher) Enqueue(event WelcomeEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		log.Printf("notify: dispatcher closed, dropping welcome event for %s", event.Email)
		return
	}
	select {
	case d.events <- event:
	default:
		log.Printf("notify: queue full, dropping welcome event for %s", event.Email)
	}
}

// Close stops accepting events, drains the buffer, and waits for the
// worker to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.events)
	}
	d.mu.Unlock()

	<-d.done
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for event := range d.events {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		if err := d.notifier.SendWelcome(ctx, event); err != nil {
			log.Printf("notify: failed to send welcome event for %s: %v", event.Email, err)
		}
		cancel()
	}
}
