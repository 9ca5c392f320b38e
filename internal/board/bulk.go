package board

import (
	"context"

	"github.com/Anthanoess/task-app/internal/model"
)

func (b *Board) Busy() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.busy
}

// BulkUpdate moves every selected task to status in one request. Only one bulk
// update runs at a time. On success the board is replaced by the server's list
// and the selection cleared; on failure nothing changes.
func (b *Board) BulkUpdate(ctx context.Context, status model.TaskStatus) error {
	b.mu.Lock()
	if b.busy {
		b.mu.Unlock()
		return ErrBusy
	}

	var warn, fail string
	var err error
	switch {
	case len(b.selected) == 0:
		warn, err = "Please select at least one task", ErrEmptySelection
	case b.firstSelectedStatus.Terminal():
		warn, err = "Tasks in Review cannot be moved", ErrTerminalStatus
	case status == "":
		fail, err = "Please select a new status", ErrNoStatus
	}
	if err != nil {
		b.mu.Unlock()
		if warn != "" {
			b.reporter.Warn(warn)
		} else {
			b.reporter.Error(fail)
		}
		return err
	}

	ids := append([]string(nil), b.selected...)
	b.busy = true
	b.mu.Unlock()

	tasks, err := b.api.BatchUpdateStatus(ctx, ids, status)

	b.mu.Lock()
	b.busy = false
	if err != nil {
		b.mu.Unlock()
		b.reporter.Error("Error updating tasks")
		return err
	}
	b.replaceLocked(tasks)
	b.clearSelectionLocked()
	b.mu.Unlock()

	b.reporter.Success("Tasks updated successfully")
	return nil
}
