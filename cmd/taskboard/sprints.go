package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Anthanoess/task-app/internal/board"
	"github.com/Anthanoess/task-app/internal/handler"
)

func newSprintsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sprints",
		Aliases: []string{"sprint"},
		Short:   "List and manage sprints",
	}
	cmd.AddCommand(newSprintsListCmd(a), newSprintsCreateCmd(a), newSprintsUpdateCmd(a))
	return cmd
}

func newSprintsListCmd(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List open sprints, soonest end date first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.authedClient()
			if err != nil {
				return err
			}
			sprints, err := c.ListSprints(cmd.Context())
			if err != nil {
				return err
			}
			if !all {
				sprints = board.VisibleSprints(sprints)
			}
			if len(sprints) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sprints.")
				return nil
			}

			t := table.New().Border(tableBorder).Headers("ID", "NAME", "START", "END", "STATUS")
			for _, s := range sprints {
				t.Row(s.ID, s.Name, s.StartDate.Format(time.DateOnly), s.EndDate.Format(time.DateOnly), string(s.Status))
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include completed sprints")
	return cmd
}

func newSprintsCreateCmd(a *app) *cobra.Command {
	var name, start, end, status string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a sprint (managers only)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.authedClient()
			if err != nil {
				return err
			}
			req := handler.SprintRequest{Name: name, Status: status}
			if req.StartDate, err = parseDate(start); err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			if req.EndDate, err = parseDate(end); err != nil {
				return fmt.Errorf("--end: %w", err)
			}

			sprint, err := c.CreateSprint(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created sprint %s (%s) %s\n", sprint.Name, sprint.ID, sprint.Status)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "sprint name")
	cmd.Flags().StringVar(&start, "start", "", "start date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&end, "end", "", "end date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVarP(&status, "status", "s", "", "Pending, Active or Completed")
	return cmd
}

func newSprintsUpdateCmd(a *app) *cobra.Command {
	var name, start, end, status string

	cmd := &cobra.Command{
		Use:   "update <sprint-id>",
		Short: "Change a sprint's fields (managers only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.authedClient()
			if err != nil {
				return err
			}

			var req handler.SprintUpdateRequest
			flags := cmd.Flags()
			if flags.Changed("name") {
				req.Name = &name
			}
			if flags.Changed("status") {
				req.Status = &status
			}
			if flags.Changed("start") {
				if req.StartDate, err = parseDate(start); err != nil {
					return fmt.Errorf("--start: %w", err)
				}
			}
			if flags.Changed("end") {
				if req.EndDate, err = parseDate(end); err != nil {
					return fmt.Errorf("--end: %w", err)
				}
			}

			sprint, err := c.UpdateSprint(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated sprint %s (%s) %s\n", sprint.Name, sprint.ID, sprint.Status)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "sprint name")
	cmd.Flags().StringVar(&start, "start", "", "start date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&end, "end", "", "end date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVarP(&status, "status", "s", "", "Pending, Active or Completed")
	return cmd
}

// parseDate accepts the same formats as the API. An empty value leaves the field unset.
func parseDate(s string) (*handler.Date, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &handler.Date{Time: t}, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, errors.New("want YYYY-MM-DD or RFC 3339")
	}
	return &handler.Date{Time: t}, nil
}
