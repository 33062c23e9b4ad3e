package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/taskgate/pkg/auth"
	"github.com/harrisonrobin/taskgate/pkg/colors"
	"github.com/harrisonrobin/taskgate/pkg/google"
	"github.com/harrisonrobin/taskgate/pkg/index"
)

func newCalendarCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Mirror task due dates into Google Calendar",
	}
	cmd.AddCommand(newCalendarAuthCmd(a), newCalendarPushCmd(a))
	return cmd
}

func (a *app) googleAuth() *auth.Google {
	return &auth.Google{Dir: a.dir, Logger: a.logger}
}

func newCalendarAuthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authorize access to Google Calendar",
		Long: `Runs the Google consent flow in your browser.

Place the OAuth client credentials.json downloaded from the Google Cloud
console in the taskgate config directory first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.googleAuth().Authorize(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Google Calendar authorized")
			return nil
		},
	}
}

func newCalendarPushCmd(a *app) *cobra.Command {
	var filters filterFlags
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Create, update and remove events for the visible tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctl, err := a.open(ctx)
			if err != nil {
				return err
			}
			spec, err := filters.spec(ctl.Cache().Employees())
			if err != nil {
				return err
			}
			ctl.SetFilterSpec(spec)

			srv, err := a.googleAuth().CalendarService(ctx)
			if err != nil {
				return err
			}
			idx, err := index.Open(a.dir)
			if err != nil {
				return fmt.Errorf("failed to open event index: %w", err)
			}
			palette, err := colors.Open(a.dir, a.clock)
			if err != nil {
				return fmt.Errorf("failed to open color cache: %w", err)
			}
			cal, err := google.NewClient(ctx, srv, a.cfg.Calendar, idx, a.logger)
			if err != nil {
				return err
			}

			res, pushErr := cal.Push(ctx, ctl.Visible(), a.clock.Now(), palette)
			if err := idx.Save(); err != nil {
				a.logger.Warn("could not save event index", "error", err)
			}
			if err := palette.Save(); err != nil {
				a.logger.Warn("could not save color cache", "error", err)
			}
			if pushErr != nil {
				return pushErr
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d created, %d updated, %d unchanged, %d deleted, %d without due date\n",
				res.Created, res.Updated, res.Unchanged, res.Deleted, res.Skipped)
			if res.Failed > 0 {
				return fmt.Errorf("%d events could not be synced", res.Failed)
			}
			return nil
		},
	}
	filters.bind(cmd)
	return cmd
}
