package servicetest

import (
	"context"
	"sync"
	"time"
)

type Notice struct {
	Email string
	Title string
}

// RecordingNotifier captures notifications instead of sending them.
type RecordingNotifier struct {
	mu          sync.Mutex
	assignments []Notice
	completions []Notice
}

func (n *RecordingNotifier) NotifyAssignment(_ context.Context, email, taskTitle string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.assignments = append(n.assignments, Notice{Email: email, Title: taskTitle})
}

func (n *RecordingNotifier) NotifyCompletion(_ context.Context, email, taskTitle string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.completions = append(n.completions, Notice{Email: email, Title: taskTitle})
}

func (n *RecordingNotifier) Assignments() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notice(nil), n.assignments...)
}

func (n *RecordingNotifier) Completions() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notice(nil), n.completions...)
}

// Clock is a settable time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
