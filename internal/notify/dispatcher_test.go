package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []WelcomeEvent
	block  chan struct{} // when set, SendWelcome waits until closed
	err    error
}

func (n *recordingNotifier) SendWelcome(ctx context.Context, event WelcomeEvent) error {
	if n.block != nil {
		<-n.block
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return n.err
}

func (n *recordingNotifier) sent() []WelcomeEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]WelcomeEvent(nil), n.events...)
}

func TestDispatcher_DeliversInBackground(t *testing.T) {
	notifier := &recordingNotifier{}
	dispatcher := NewDispatcher(notifier)

	dispatcher.Enqueue(WelcomeEvent{Email: "a@x.com", DisplayName: "A"})
	dispatcher.Enqueue(WelcomeEvent{Email: "b@x.com", DisplayName: "B"})
	dispatcher.Close()

	events := notifier.sent()
	require.Len(t, events, 2)
	assert.Equal(t, "a@x.com", events[0].Email)
	assert.Equal(t, "b@x.com", events[1].Email)
}

func TestDispatcher_EnqueueNeverBlocks(t *testing.T) {
	notifier := &recordingNotifier{block: make(chan struct{})}
	dispatcher := NewDispatcher(notifier)

	// The worker is stuck on the first event; every further Enqueue must
	// still return immediately, dropping once the buffer fills.
	done := make(chan struct{})
	go func() {
		for i := 0; i < defaultQueueSize*2; i++ {
			dispatcher.Enqueue(WelcomeEvent{Email: "x@x.com"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Enqueue blocked while the notifier was stuck")
	}

	close(notifier.block)
	dispatcher.Close()
}

func TestDispatcher_NotifierFailureIsSwallowed(t *testing.T) {
	notifier := &recordingNotifier{err: context.DeadlineExceeded}
	dispatcher := NewDispatcher(notifier)

	// A failing notifier must not panic or propagate anywhere.
	dispatcher.Enqueue(WelcomeEvent{Email: "a@x.com"})
	dispatcher.Close()

	assert.Len(t, notifier.sent(), 1)
}

func TestDispatcher_CloseIsIdempotent(t *testing.T) {
	dispatcher := NewDispatcher(&recordingNotifier{})
	dispatcher.Close()
	dispatcher.Close()
}

func TestDispatcher_EnqueueAfterCloseIsDropped(t *testing.T) {
	notifier := &recordingNotifier{}
	dispatcher := NewDispatcher(notifier)

	dispatcher.Enqueue(WelcomeEvent{Email: "before@x.com"})
	dispatcher.Close()

	// A late Enqueue must not panic; the event is silently dropped.
	require.NotPanics(t, func() {
		dispatcher.Enqueue(WelcomeEvent{Email: "after@x.com"})
	})

	events := notifier.sent()
	require.Len(t, events, 1)
	assert.Equal(t, "before@x.com", events[0].Email)
}
