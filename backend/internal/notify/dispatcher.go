package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/qmail-dev/qmail/shared/config"
	"github.com/qmail-dev/qmail/shared/domain"
	"github.com/qmail-dev/qmail/shared/logger"
	"github.com/qmail-dev/qmail/shared/middleware/metrics"
)

type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// Dispatcher delivers notifications on a fixed pool of workers.
// Enqueueing never blocks; when the queue is full the notification is dropped.
// Failed deliveries are not retried.
type Dispatcher struct {
	sender  Sender
	queue   chan Notification
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(sender Sender, cfg config.Notify) *Dispatcher {
	workers := max(cfg.Workers, 1)
	d := &Dispatcher{
		sender:  sender,
		queue:   make(chan Notification, max(cfg.QueueSize, 1)),
		timeout: cfg.Timeout,
	}
	d.wg.Add(workers)
	for range workers {
		go d.worker()
	}
	return d
}

// NotifyNewMessage queues a notification about msg for recoveryEmail.
func (d *Dispatcher) NotifyNewMessage(recoveryEmail domain.Email, msg domain.Message) {
	d.enqueue(Notification{To: recoveryEmail, Sender: msg.SenderEmail, MessageId: msg.Id})
}

func (d *Dispatcher) enqueue(n Notification) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		logger.Log.Warn("notification after shutdown dropped", "message_id", n.MessageId.String())
		metrics.ObserveNotification(metrics.NotificationDropped)
		return false
	}

	select {
	case d.queue <- n:
		metrics.SetNotificationQueueDepth(len(d.queue))
		return true
	default:
		logger.Log.Warn("notification queue full, dropping", "message_id", n.MessageId.String())
		metrics.ObserveNotification(metrics.NotificationDropped)
		return false
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for n := range d.queue {
		metrics.SetNotificationQueueDepth(len(d.queue))
		d.deliver(n)
	}
}

func (d *Dispatcher) deliver(n Notification) {
	ctx := context.Background()
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	err := d.sender.Send(ctx, n)
	switch {
	case err == nil:
		metrics.ObserveNotification(metrics.NotificationSent)
		logger.Log.Info("notification sent", "message_id", n.MessageId.String())
	case errors.Is(err, ErrNotConfigured):
		metrics.ObserveNotification(metrics.NotificationSkipped)
	default:
		metrics.ObserveNotification(metrics.NotificationFailed)
		logger.Log.Error("failed to send notification", "message_id", n.MessageId.String(), "error", err)
	}
}

// Close stops accepting notifications and waits for queued ones to be
// delivered or for ctx to expire.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
