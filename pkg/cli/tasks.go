package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/taskgate/pkg/controller"
	"github.com/harrisonrobin/taskgate/pkg/filter"
	"github.com/harrisonrobin/taskgate/pkg/model"
	"github.com/harrisonrobin/taskgate/pkg/overdue"
	"github.com/harrisonrobin/taskgate/pkg/policy"
	"github.com/harrisonrobin/taskgate/pkg/render"
)

// filterFlags are the view constraints shared by list and calendar push.
type filterFlags struct {
	search   string
	status   string
	priority string
	assignee string
}

func (f *filterFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "Match title or description (case-insensitive)")
	cmd.Flags().StringVar(&f.status, "status", filter.All, "Pending, In Progress, Completed or All")
	cmd.Flags().StringVar(&f.priority, "priority", filter.All, "High, Medium, Low or All")
	cmd.Flags().StringVar(&f.assignee, "assignee", filter.All, "Employee username or id, or All")
}

func (f *filterFlags) spec(employees []model.Employee) (filter.Spec, error) {
	status, err := filter.ParseStatus(f.status)
	if err != nil {
		return filter.Spec{}, err
	}
	priority, err := filter.ParsePriority(f.priority)
	if err != nil {
		return filter.Spec{}, err
	}
	spec := filter.Spec{SearchText: f.search, Status: status, Priority: priority}
	if f.assignee != "" && f.assignee != filter.All {
		id, err := resolveAssignee(employees, f.assignee)
		if err != nil {
			// Employees cannot list the directory; match the raw value.
			id = f.assignee
		}
		spec.AssigneeID = id
	}
	return spec, nil
}

func newListCmd(a *app) *cobra.Command {
	var (
		filters  filterFlags
		onlyLate bool
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the tasks you can see",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			spec, err := filters.spec(ctl.Cache().Employees())
			if err != nil {
				return err
			}
			ctl.SetFilterSpec(spec)

			tasks := ctl.Visible()
			if onlyLate {
				tasks = overdue.Sweep(tasks, a.clock.Now())
			}
			return a.renderer(cmd).Tasks(tasks)
		},
	}
	filters.bind(cmd)
	cmd.Flags().BoolVar(&onlyLate, "overdue", false, "Only tasks past their end date and not completed")
	return cmd
}

func newCreateCmd(a *app) *cobra.Command {
	var title, description, assignee, due string
	priority := model.PriorityMedium
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a pending task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			fields := controller.TaskFields{
				Title:       title,
				Description: description,
				Priority:    priority,
			}
			if assignee != "" {
				id, err := resolveAssignee(ctl.Cache().Employees(), assignee)
				if err != nil {
					return err
				}
				fields.AssignedTo = id
			}
			if due != "" {
				end, err := time.Parse(time.DateOnly, due)
				if err != nil {
					return fmt.Errorf("%w: due date must be YYYY-MM-DD: %w", controller.ErrValidation, err)
				}
				fields.EndDate = &end
			}
			if err := ctl.CreateTask(cmd.Context(), fields); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %q (%s)\n", title, render.Count(len(ctl.Visible())))
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "Title (required)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Description")
	cmd.Flags().StringVarP(&assignee, "assignee", "a", "", "Employee username or id")
	cmd.Flags().StringVar(&due, "due", "", "End date, YYYY-MM-DD")
	cmd.Flags().Var(&priority, "priority", "High, Medium or Low")
	cmd.MarkFlagRequired("title")
	return cmd
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <task-id> <status>",
		Short: "Move a task to Pending, In Progress or Completed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := model.ParseStatus(args[1])
			if err != nil {
				return fmt.Errorf("%w: %w", controller.ErrValidation, err)
			}
			ctl, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			if err := ctl.UpdateStatus(cmd.Context(), args[0], status); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %s is now %s\n", args[0], status)
			return nil
		},
	}
}

func newEditCmd(a *app) *cobra.Command {
	var title, description string
	cmd := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Change a task's title or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			id := args[0]
			if !cmd.Flags().Changed("title") {
				if prior, ok := ctl.Cache().Lookup(id); ok {
					title = prior.Title
				}
			}
			var desc *string
			if cmd.Flags().Changed("description") {
				desc = &description
			}
			if err := ctl.UpdateFields(cmd.Context(), id, title, desc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s\n", id)
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <task-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task permanently",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			if err := ctl.DeleteTask(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s (%s left)\n", args[0], render.Count(len(ctl.Visible())))
			return nil
		},
	}
}

func newEmployeesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "employees",
		Short: "List employees that tasks can be assigned to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			role := ctl.Session().Role
			if !policy.CanListEmployees(role) {
				return fmt.Errorf("%w: %s may not %s", controller.ErrForbidden, role, policy.ActionListEmployees)
			}
			return a.renderer(cmd).Employees(ctl.Cache().Employees())
		},
	}
}
