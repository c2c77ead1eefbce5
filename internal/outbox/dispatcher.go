package outbox

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Message is one pending verification email.
type Message struct {
	Email string
	Token string
}

// Sender delivers a verification email for a queued message.
type Sender interface {
	SendVerificationEmail(ctx context.Context, email, token string) error
}

// Dispatcher queues verification emails off the request path and
// delivers them from a single worker with retries. Registration
// commits regardless of mail transport availability; the queue only
// guarantees that delivery is attempted.
type Dispatcher struct {
	sender      Sender
	logger      *slog.Logger
	queue       chan Message
	maxAttempts int
	backoff     time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
}

// NewDispatcher creates a dispatcher with a bounded queue.
func NewDispatcher(sender Sender, logger *slog.Logger, queueSize, maxAttempts int, backoff time.Duration) *Dispatcher {
	return &Dispatcher{
		sender:      sender,
		logger:      logger,
		queue:       make(chan Message, queueSize),
		maxAttempts: maxAttempts,
		backoff:     backoff,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
}

// Enqueue hands a message to the worker without blocking the caller.
// A full queue is reported to the caller and logged; it must not fail
// the registration that produced the message.
func (d *Dispatcher) Enqueue(msg Message) error {
	select {
	case d.queue <- msg:
		return nil
	default:
		d.logger.Error("outbox queue full, dropping verification email",
			slog.String("email", msg.Email))
		return fmt.Errorf("outbox queue full")
	}
}

// Start runs the delivery loop until Stop is called or the context is
// cancelled. Run it in its own goroutine.
func (d *Dispatcher) Start(ctx context.Context) {
	defer close(d.doneCh)

	for {
		select {
		case msg := <-d.queue:
			d.deliver(ctx, msg)
		case <-d.stopCh:
			d.logger.Info("outbox dispatcher stopped")
			return
		case <-ctx.Done():
			d.logger.Info("outbox dispatcher context cancelled")
			return
		}
	}
}

// Stop signals the worker to exit and waits for it.
func (d *Dispatcher) Stop() {
	close(d.stopCh)
	<-d.doneCh
}

func (d *Dispatcher) deliver(ctx context.Context, msg Message) {
	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		sendCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		err := d.sender.SendVerificationEmail(sendCtx, msg.Email, msg.Token)
		cancel()

		if err == nil {
			d.logger.Info("verification email delivered",
				slog.String("email", msg.Email),
				slog.Int("attempt", attempt))
			return
		}

		d.logger.Warn("verification email delivery failed",
			slog.String("email", msg.Email),
			slog.Int("attempt", attempt),
			slog.Any("error", err))

		if attempt < d.maxAttempts {
			select {
			case <-time.After(d.backoff):
			case <-d.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}

	d.logger.Error("verification email delivery abandoned",
		slog.String("email", msg.Email),
		slog.Int("attempts", d.maxAttempts))
}
