package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Anthanoess/task-app/internal/board"
	"github.com/Anthanoess/task-app/internal/client"
	"github.com/Anthanoess/task-app/internal/model"
)

type boardOptions struct {
	sprint   string
	assignee string
	search   string
}

func (o *boardOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.sprint, "sprint", "", "sprint ID (default: the open sprint ending soonest)")
	cmd.Flags().StringVarP(&o.assignee, "assignee", "a", "", "only show tasks assigned to this username")
	cmd.Flags().StringVarP(&o.search, "search", "q", "", "match title, assignee or description")
}

// openBoard loads the board for the requested sprint, or the default one.
func openBoard(ctx context.Context, c *client.Client, opts boardOptions, rep board.Reporter) (*board.Board, board.Sprint, error) {
	sprints, err := c.ListSprints(ctx)
	if err != nil {
		return nil, board.Sprint{}, err
	}

	var sprint board.Sprint
	if opts.sprint == "" {
		var ok bool
		if sprint, ok = board.DefaultSprint(sprints); !ok {
			return nil, board.Sprint{}, errors.New("no open sprint: pass --sprint or create one")
		}
	} else {
		found := false
		for _, s := range sprints {
			if s.ID == opts.sprint {
				sprint, found = s, true
				break
			}
		}
		if !found {
			return nil, board.Sprint{}, fmt.Errorf("sprint %s not found", opts.sprint)
		}
	}

	b := board.New(c, rep)
	b.SetAssigneeFilter(opts.assignee)
	if err := b.SelectSprint(ctx, sprint.ID); err != nil {
		return nil, board.Sprint{}, err
	}
	b.SetSearch(opts.search)
	return b, sprint, nil
}

// openBoardFor opens the board of the sprint that holds taskID.
func openBoardFor(ctx context.Context, c *client.Client, taskID string, rep board.Reporter) (*board.Board, board.Sprint, error) {
	tasks, err := c.ListTasks(ctx)
	if err != nil {
		return nil, board.Sprint{}, err
	}
	for _, t := range tasks {
		if t.ID == taskID {
			return openBoard(ctx, c, boardOptions{sprint: t.SprintID}, rep)
		}
	}
	return nil, board.Sprint{}, fmt.Errorf("task %s not found", taskID)
}

func newBoardCmd(a *app) *cobra.Command {
	var opts boardOptions

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show a sprint as Planning, Execution and Review columns",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.authedClient()
			if err != nil {
				return err
			}
			b, sprint, err := openBoard(cmd.Context(), c, opts, newReporter(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderBoard(b, sprint))
			return nil
		},
	}
	opts.register(cmd)
	return cmd
}

func newMoveCmd(a *app) *cobra.Command {
	var to, onto string

	cmd := &cobra.Command{
		Use:   "move <task-id>",
		Short: "Drag a task onto a column or onto another task",
		Long: `move drops a task onto a column (--to) or onto another task (--onto).
Dropping into another column changes the task's status on the server. Dropping
into its own column only reorders the printed board.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (to == "") == (onto == "") {
				return errors.New("pass exactly one of --to or --onto")
			}
			c, err := a.authedClient()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			b, sprint, err := openBoardFor(ctx, c, args[0], newReporter(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			if !b.DragStart(args[0]) {
				return fmt.Errorf("task %s is not on the board", args[0])
			}

			target := board.OnTask(onto)
			if to != "" {
				target = board.OnColumn(model.TaskStatus(to))
			}
			outcome, err := b.DragEnd(ctx, target)
			if err != nil {
				return err
			}
			switch outcome {
			case board.Cancelled:
				return errors.New("nothing to drop onto: check --to or --onto")
			case board.Rejected:
				return errors.New("move rejected")
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderBoard(b, sprint))
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "destination column: Planning, Execution or Review")
	cmd.Flags().StringVar(&onto, "onto", "", "drop onto this task, taking its column")
	return cmd
}

func newBatchCmd(a *app) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "batch <task-id>...",
		Short: "Move several tasks of the same column to a new status",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.authedClient()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			b, sprint, err := openBoardFor(ctx, c, args[0], newReporter(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			for _, id := range args {
				if !b.ToggleSelect(id) {
					return fmt.Errorf("cannot select task %s", id)
				}
			}
			if err := b.BulkUpdate(ctx, model.TaskStatus(status)); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderBoard(b, sprint))
			return nil
		},
	}
	cmd.Flags().StringVarP(&status, "status", "s", "", "new status: Planning, Execution or Review")
	return cmd
}
