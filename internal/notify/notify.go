// Package notify delivers task e-mails off the request path.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

var ErrClosed = errors.New("notify: dispatcher closed")

type Message struct {
	To      string
	Subject string
	Body    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

func AssignmentMessage(to, taskTitle string) Message {
	return Message{
		To:      to,
		Subject: "New Task Assigned",
		Body:    fmt.Sprintf("You have been assigned a new task: %s.", taskTitle),
	}
}

func CompletionMessage(to, taskTitle string) Message {
	return Message{
		To:      to,
		Subject: "Task Completed",
		Body:    fmt.Sprintf("The task %q has been completed.", taskTitle),
	}
}

// Dispatcher queues messages for a fixed pool of workers. Enqueueing never
// blocks: a full queue drops the message and logs it.
type Dispatcher struct {
	sender Sender
	logger *slog.Logger
	queue  chan Message
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(sender Sender, workers, queueSize int, logger *slog.Logger) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	if logger == nil {
		logger = slog.Default()
	}

	d := &Dispatcher{
		sender: sender,
		logger: logger,
		queue:  make(chan Message, queueSize),
	}
	d.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go d.work()
	}
	return d
}

func (d *Dispatcher) NotifyAssignment(_ context.Context, email, taskTitle string) {
	d.enqueue(AssignmentMessage(email, taskTitle))
}

func (d *Dispatcher) NotifyCompletion(_ context.Context, email, taskTitle string) {
	d.enqueue(CompletionMessage(email, taskTitle))
}

func (d *Dispatcher) enqueue(msg Message) {
	if msg.To == "" {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.logger.Warn("notification dropped", "to", msg.To, "subject", msg.Subject, "error", ErrClosed)
		return
	}

	select {
	case d.queue <- msg:
	default:
		d.logger.Warn("notification queue full, dropping", "to", msg.To, "subject", msg.Subject)
	}
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for msg := range d.queue {
		if err := d.sender.Send(context.Background(), msg); err != nil {
			d.logger.Error("failed to send notification", "to", msg.To, "subject", msg.Subject, "error", err)
			continue
		}
		d.logger.Debug("notification sent", "to", msg.To, "subject", msg.Subject)
	}
}

// Close stops accepting messages and waits for queued ones to drain or ctx to end.
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
