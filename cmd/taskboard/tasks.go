package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Anthanoess/task-app/internal/board"
	"github.com/Anthanoess/task-app/internal/client"
	"github.com/Anthanoess/task-app/internal/handler"
	"github.com/Anthanoess/task-app/internal/model"
)

func newTasksCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task"},
		Short:   "List and manage tasks",
	}
	cmd.AddCommand(newTasksListCmd(a), newTasksAddCmd(a), newTasksEditCmd(a), newTasksRemoveCmd(a))
	return cmd
}

func newTasksListCmd(a *app) *cobra.Command {
	var opts boardOptions

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the tasks of a sprint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.authedClient()
			if err != nil {
				return err
			}
			b, _, err := openBoard(cmd.Context(), c, opts, newReporter(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}

			tasks := b.Filtered()
			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks.")
				return nil
			}
			t := table.New().Border(tableBorder).Headers("ID", "STATUS", "PRIORITY", "ASSIGNEE", "TITLE")
			for _, task := range tasks {
				t.Row(task.ID, string(task.Status), string(task.Priority), task.Assignee, task.Title)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
	opts.register(cmd)
	return cmd
}

func newTasksAddCmd(a *app) *cobra.Command {
	var (
		req      handler.TaskRequest
		sprint   string
		assignee string
	)

	cmd := &cobra.Command{
		Use:     "add <title>",
		Aliases: []string{"create", "new"},
		Short:   "Add a task to a sprint",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.authedClient()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			req.Title = args[0]
			sprintID, err := resolveSprint(ctx, c, sprint)
			if err != nil {
				return err
			}
			req.Sprint = &sprintID
			if assignee != "" {
				id, err := resolveUser(ctx, c, assignee)
				if err != nil {
					return err
				}
				req.AssignedTo = &id
			}

			task, err := c.CreateTask(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %q (%s) to %s\n", task.Title, task.ID, task.Status)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&req.Description, "description", "d", "", "task description")
	flags.StringVarP(&req.Status, "status", "s", "", "Planning, Execution or Review (default Planning)")
	flags.StringVarP(&req.Priority, "priority", "P", "", "high, medium or low (default low)")
	flags.StringVarP(&assignee, "assignee", "a", "", "username or user ID to assign")
	flags.StringVar(&sprint, "sprint", "", "sprint ID (default: the open sprint ending soonest)")
	return cmd
}

func newTasksEditCmd(a *app) *cobra.Command {
	var (
		title, description, status, priority string
		assignee, sprint                     string
		unassign                             bool
	)

	cmd := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Change a task's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.authedClient()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			flags := cmd.Flags()

			patch := client.TaskPatch{Unassign: unassign}
			if flags.Changed("title") {
				patch.Title = &title
			}
			if flags.Changed("description") {
				patch.Description = &description
			}
			if flags.Changed("status") {
				s := model.TaskStatus(status)
				patch.Status = &s
			}
			if flags.Changed("priority") {
				p := model.TaskPriority(priority)
				patch.Priority = &p
			}
			if flags.Changed("sprint") {
				patch.Sprint = &sprint
			}
			if flags.Changed("assignee") && !unassign {
				id, err := resolveUser(ctx, c, assignee)
				if err != nil {
					return err
				}
				patch.AssignedTo = &id
			}

			task, err := c.UpdateTask(ctx, args[0], patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %q (%s) %s\n", task.Title, task.ID, task.Status)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&title, "title", "t", "", "new title")
	flags.StringVarP(&description, "description", "d", "", "new description")
	flags.StringVarP(&status, "status", "s", "", "Planning, Execution or Review")
	flags.StringVarP(&priority, "priority", "P", "", "high, medium or low")
	flags.StringVarP(&assignee, "assignee", "a", "", "username or user ID to assign")
	flags.BoolVar(&unassign, "unassign", false, "remove the assignee")
	flags.StringVar(&sprint, "sprint", "", "move the task to another sprint")
	return cmd
}

func newTasksRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <task-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.authedClient()
			if err != nil {
				return err
			}
			if err := c.DeleteTask(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Task deleted successfully")
			return nil
		},
	}
}

// resolveUser turns a username into a user ID. IDs pass through unchanged.
func resolveUser(ctx context.Context, c *client.Client, value string) (string, error) {
	if _, err := uuid.Parse(value); err == nil {
		return value, nil
	}
	users, err := c.ListUsers(ctx)
	if err != nil {
		return "", err
	}
	for _, u := range users {
		if u.Username == value {
			return u.ID, nil
		}
	}
	return "", fmt.Errorf("no user named %q", value)
}

// resolveSprint falls back to the default open sprint when id is empty.
func resolveSprint(ctx context.Context, c *client.Client, id string) (string, error) {
	if id != "" {
		return id, nil
	}
	sprints, err := c.ListSprints(ctx)
	if err != nil {
		return "", err
	}
	sprint, ok := board.DefaultSprint(sprints)
	if !ok {
		return "", errors.New("no open sprint: pass --sprint or create one")
	}
	return sprint.ID, nil
}
