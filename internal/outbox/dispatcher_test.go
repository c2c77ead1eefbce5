package outbox

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSender counts delivery attempts and fails the first `failures` of them
type mockSender struct {
	mu       sync.Mutex
	attempts int
	failures int
	sent     []string
}

func (m *mockSender) SendVerificationEmail(ctx context.Context, email, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.attempts++
	if m.attempts <= m.failures {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, email)
	return nil
}

func (m *mockSender) snapshot() (int, []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attempts, append([]string(nil), m.sent...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestDispatcher_DeliversMessage(t *testing.T) {
	sender := &mockSender{}
	d := NewDispatcher(sender, slog.Default(), 8, 3, time.Millisecond)

	go d.Start(context.Background())
	defer d.Stop()

	require.NoError(t, d.Enqueue(Message{Email: "alice@x.com", Token: "tok"}))

	waitFor(t, func() bool {
		_, sent := sender.snapshot()
		return len(sent) == 1
	})
}

func TestDispatcher_RetriesThenSucceeds(t *testing.T) {
	sender := &mockSender{failures: 2}
	d := NewDispatcher(sender, slog.Default(), 8, 3, time.Millisecond)

	go d.Start(context.Background())
	defer d.Stop()

	require.NoError(t, d.Enqueue(Message{Email: "alice@x.com", Token: "tok"}))

	waitFor(t, func() bool {
		attempts, sent := sender.snapshot()
		return attempts == 3 && len(sent) == 1
	})
}

func TestDispatcher_AbandonsAfterMaxAttempts(t *testing.T) {
	sender := &mockSender{failures: 100}
	d := NewDispatcher(sender, slog.Default(), 8, 3, time.Millisecond)

	go d.Start(context.Background())
	defer d.Stop()

	require.NoError(t, d.Enqueue(Message{Email: "alice@x.com", Token: "tok"}))

	waitFor(t, func() bool {
		attempts, sent := sender.snapshot()
		return attempts == 3 && len(sent) == 0
	})

	// No further attempts after giving up
	time.Sleep(20 * time.Millisecond)
	attempts, _ := sender.snapshot()
	assert.Equal(t, 3, attempts)
}

func TestDispatcher_EnqueueFullQueue(t *testing.T) {
	sender := &mockSender{}
	// queue of one, worker never started
	d := NewDispatcher(sender, slog.Default(), 1, 3, time.Millisecond)

	require.NoError(t, d.Enqueue(Message{Email: "a@x.com", Token: "t1"}))
	assert.Error(t, d.Enqueue(Message{Email: "b@x.com", Token: "t2"}))
}
