package board

import "github.com/Anthanoess/task-app/internal/model"

// ToggleSelect adds or removes a task from the bulk selection and reports whether
// the selection changed. Every selected task shares the status of the first one;
// Review tasks are never selectable.
func (b *Board) ToggleSelect(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if i := indexOf(b.selected, id); i >= 0 {
		b.selected = append(b.selected[:i], b.selected[i+1:]...)
		if len(b.selected) == 0 {
			b.firstSelectedStatus = ""
		}
		return true
	}

	task, ok := b.task(id)
	if !ok {
		return false
	}
	if task.Status.Terminal() {
		b.reporter.Warn("Tasks in Review cannot be moved")
		return false
	}

	switch {
	case len(b.selected) == 0:
		b.firstSelectedStatus = task.Status
	case task.Status != b.firstSelectedStatus:
		b.reporter.Warn("Select tasks in the same category as the first one")
		return false
	}
	b.selected = append(b.selected, id)
	return true
}

// Selectable reports whether a checkbox should be offered for the task.
func (b *Board) Selectable(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	task, ok := b.task(id)
	if !ok || task.Status.Terminal() {
		return false
	}
	return len(b.selected) == 0 || task.Status == b.firstSelectedStatus
}

func (b *Board) Selected() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.selected...)
}

func (b *Board) IsSelected(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return indexOf(b.selected, id) >= 0
}

// FirstSelectedStatus returns the status pinning the selection, if any.
func (b *Board) FirstSelectedStatus() (model.TaskStatus, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.firstSelectedStatus, b.firstSelectedStatus != ""
}

func (b *Board) ClearSelection() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clearSelectionLocked()
}

func (b *Board) clearSelectionLocked() {
	b.selected = nil
	b.firstSelectedStatus = ""
}

// pruneSelectionLocked drops selected ids that vanished or left the pinned status
// after the task list was replaced.
func (b *Board) pruneSelectionLocked() {
	kept := b.selected[:0]
	for _, id := range b.selected {
		if t, ok := b.task(id); ok && t.Status == b.firstSelectedStatus {
			kept = append(kept, id)
		}
	}
	b.selected = kept
	if len(b.selected) == 0 {
		b.clearSelectionLocked()
	}
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
