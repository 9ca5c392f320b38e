package board

import "strings"

type Filter struct {
	// Assignee matches the assignee's username exactly.
	Assignee string
	// Query matches title, assignee username or description, ignoring case.
	Query string
}

// Apply narrows tasks by both criteria. Order is preserved.
func Apply(tasks []Task, f Filter) []Task {
	query := strings.ToLower(f.Query)

	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Assignee != "" && t.Assignee != f.Assignee {
			continue
		}
		if query != "" && !matches(t, query) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matches(t Task, query string) bool {
	return strings.Contains(strings.ToLower(t.Title), query) ||
		strings.Contains(strings.ToLower(t.Assignee), query) ||
		strings.Contains(strings.ToLower(t.Description), query)
}

func (b *Board) SetAssigneeFilter(username string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.filter.Assignee = username
	b.recomputeLocked()
}

func (b *Board) SetSearch(query string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.filter.Query = query
	b.recomputeLocked()
}

func (b *Board) Filter() Filter {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filter
}
