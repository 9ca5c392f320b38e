package board

import (
	"context"

	"github.com/Anthanoess/task-app/internal/model"
)

type Phase int

const (
	Idle Phase = iota
	Dragging
	Reordering
	CrossColumnMoving
)

func (p Phase) String() string {
	switch p {
	case Dragging:
		return "dragging"
	case Reordering:
		return "reordering"
	case CrossColumnMoving:
		return "moving"
	default:
		return "idle"
	}
}

// Outcome is how a drag gesture ended.
type Outcome int

const (
	Cancelled Outcome = iota
	Rejected
	Reordered
	Moved
	MoveFailed
)

func (o Outcome) String() string {
	switch o {
	case Rejected:
		return "rejected"
	case Reordered:
		return "reordered"
	case Moved:
		return "moved"
	case MoveFailed:
		return "move failed"
	default:
		return "cancelled"
	}
}

// Target is where a dragged task was dropped: onto another task, or onto the
// empty area of a column.
type Target struct {
	TaskID string
	Column model.TaskStatus
}

func OnTask(id string) *Target                { return &Target{TaskID: id} }
func OnColumn(status model.TaskStatus) *Target { return &Target{Column: status} }

func (b *Board) Phase() Phase {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.phase
}

// ActiveTask returns the task being dragged.
func (b *Board) ActiveTask() (Task, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.active == nil {
		return Task{}, false
	}
	return *b.active, true
}

// DragStart picks up a visible task. It has no network effect.
func (b *Board) DragStart(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.phase != Idle {
		return false
	}
	for _, t := range b.filtered {
		if t.ID == id {
			task := t
			b.active = &task
			b.phase = Dragging
			return true
		}
	}
	return false
}

// DragEnd drops the active task on target. A nil target, or one that is not on
// the board, cancels the gesture.
// Dropping in the source column reorders locally; dropping in another column
// sends exactly one batch update for the dragged task and applies the
// server's answer only if it succeeds.
func (b *Board) DragEnd(ctx context.Context, target *Target) (Outcome, error) {
	b.mu.Lock()
	if b.phase != Dragging || b.active == nil {
		b.mu.Unlock()
		return Cancelled, nil
	}
	active := *b.active
	b.active = nil

	if target == nil {
		b.phase = Idle
		b.mu.Unlock()
		return Cancelled, nil
	}

	if indexOf(b.selected, active.ID) >= 0 {
		b.phase = Idle
		b.mu.Unlock()
		b.reporter.Warn("Cannot move task while selected for bulk update")
		return Rejected, nil
	}

	source, ok := b.task(active.ID)
	if !ok {
		b.phase = Idle
		b.mu.Unlock()
		return Cancelled, nil
	}
	dest, ok := b.destinationLocked(target)
	if !ok {
		b.phase = Idle
		b.mu.Unlock()
		return Cancelled, nil
	}

	if dest == source.Status {
		b.phase = Reordering
		b.reorderLocked(source, target)
		b.phase = Idle
		b.mu.Unlock()
		return Reordered, nil
	}

	b.phase = CrossColumnMoving
	b.mu.Unlock()

	tasks, err := b.api.BatchUpdateStatus(ctx, []string{source.ID}, dest)

	b.mu.Lock()
	b.phase = Idle
	if err != nil {
		b.mu.Unlock()
		b.reporter.Error("Error moving task")
		return MoveFailed, err
	}
	b.replaceLocked(tasks)
	b.pruneSelectionLocked()
	b.mu.Unlock()

	b.reporter.Success("Task moved successfully")
	return Moved, nil
}

func (b *Board) destinationLocked(target *Target) (model.TaskStatus, bool) {
	if target.TaskID == "" {
		return target.Column, target.Column.Valid()
	}
	for _, t := range b.filtered {
		if t.ID == target.TaskID {
			return t.Status, true
		}
	}
	return "", false
}

// reorderLocked moves the task within its column. Dropping on a task takes that
// task's slot; dropping on the column appends. Other columns keep their slots.
func (b *Board) reorderLocked(source Task, target *Target) {
	var slots []int
	for i, t := range b.tasks {
		if t.Status == source.Status {
			slots = append(slots, i)
		}
	}
	column := make([]Task, len(slots))
	for i, slot := range slots {
		column[i] = b.tasks[slot]
	}

	from := columnIndex(column, source.ID)
	to := len(column)
	if target.TaskID != "" {
		if i := columnIndex(column, target.TaskID); i >= 0 {
			to = i
		}
	}
	if from < 0 || from == to {
		return
	}

	column = moveItem(column, from, to)
	for i, slot := range slots {
		b.tasks[slot] = column[i]
	}
	b.recomputeLocked()
}

func columnIndex(column []Task, id string) int {
	for i, t := range column {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// moveItem removes the element at from and reinserts it at to, clamped to the end.
func moveItem(items []Task, from, to int) []Task {
	out := make([]Task, 0, len(items))
	out = append(out, items[:from]...)
	out = append(out, items[from+1:]...)
	moved := items[from]

	if to > len(out) {
		to = len(out)
	}
	out = append(out, Task{})
	copy(out[to+1:], out[to:])
	out[to] = moved
	return out
}
