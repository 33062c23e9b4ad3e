package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the taskgate command line.
func Execute(version string) error {
	rootCmd := newRootCmd(version)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func newRootCmd(version string) *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "taskgate",
		Short: "Role-aware client for the task tracker",
		Long: `taskgate lists, filters, creates and updates tasks on a task tracker server.

What you may do depends on your role: administrators manage everything,
managers cannot delete, and employees see and re-status only their own tasks.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&a.server, "server", "", "Task server URL (overrides config)")

	rootCmd.AddCommand(
		newLoginCmd(a),
		newRegisterCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newListCmd(a),
		newCreateCmd(a),
		newStatusCmd(a),
		newEditCmd(a),
		newDeleteCmd(a),
		newEmployeesCmd(a),
		newCalendarCmd(a),
		newConfigCmd(a),
	)
	return rootCmd
}
