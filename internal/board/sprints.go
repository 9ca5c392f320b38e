package board

import (
	"sort"

	"github.com/Anthanoess/task-app/internal/model"
)

// VisibleSprints drops completed sprints and orders the rest by end date, the
// soonest first.
func VisibleSprints(all []Sprint) []Sprint {
	out := make([]Sprint, 0, len(all))
	for _, s := range all {
		if s.Status != model.SprintCompleted {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].EndDate.Before(out[j].EndDate) })
	return out
}

// DefaultSprint is the sprint a freshly opened board shows.
func DefaultSprint(all []Sprint) (Sprint, bool) {
	visible := VisibleSprints(all)
	if len(visible) == 0 {
		return Sprint{}, false
	}
	return visible[0], true
}
