package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Anthanoess/task-app/internal/board"
	"github.com/Anthanoess/task-app/internal/model"
)

const columnWidth = 34

var (
	tableBorder = lipgloss.NormalBorder()

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	faintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	columnStyle = lipgloss.NewStyle().
			Width(columnWidth).
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241"))

	columnHeader = map[model.TaskStatus]lipgloss.Style{
		model.StatusPlanning:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33")),
		model.StatusExecution: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		model.StatusReview:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
	}

	priorityStyle = map[model.TaskPriority]lipgloss.Style{
		model.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
		model.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		model.PriorityLow:    faintStyle,
	}

	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

func renderBoard(b *board.Board, sprint board.Sprint) string {
	header := titleStyle.Render(sprint.Name) + " " + faintStyle.Render(fmt.Sprintf("%s → %s  %s",
		sprint.StartDate.Format(time.DateOnly), sprint.EndDate.Format(time.DateOnly), sprint.Status))

	columns := make([]string, 0, len(model.TaskStatuses))
	for _, status := range model.TaskStatuses {
		columns = append(columns, renderColumn(status, b.Column(status)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, lipgloss.JoinHorizontal(lipgloss.Top, columns...))
}

func renderColumn(status model.TaskStatus, tasks []board.Task) string {
	var sb strings.Builder
	sb.WriteString(columnHeader[status].Render(fmt.Sprintf("%s (%d)", status, len(tasks))))
	for _, t := range tasks {
		sb.WriteString("\n\n")
		sb.WriteString(t.Title)
		sb.WriteString("\n")

		meta := []string{shortID(t.ID), priorityStyle[t.Priority].Render(string(t.Priority))}
		if t.Assignee != "" {
			meta = append(meta, "@"+t.Assignee)
		}
		sb.WriteString(faintStyle.Render(strings.Join(meta, " · ")))
	}
	return columnStyle.Render(sb.String())
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// reporter prints board notices, one per line.
type reporter struct {
	w io.Writer
}

func newReporter(w io.Writer) reporter { return reporter{w: w} }

func (r reporter) Warn(msg string)    { fmt.Fprintln(r.w, warnStyle.Render("! "+msg)) }
func (r reporter) Error(msg string)   { fmt.Fprintln(r.w, errorStyle.Render("✗ "+msg)) }
func (r reporter) Success(msg string) { fmt.Fprintln(r.w, successStyle.Render("✓ "+msg)) }
