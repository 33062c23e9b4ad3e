package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/harrisonrobin/taskgate/pkg/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := yaml.Marshal(a.cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	setServer := &cobra.Command{
		Use:   "set-server <url>",
		Short: "Set the task server URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := url.Parse(args[0])
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				return fmt.Errorf("invalid server URL %q", args[0])
			}
			return updateConfig(cmd, func(cfg *config.Config) { cfg.Server = args[0] })
		},
	}

	setCalendar := &cobra.Command{
		Use:   "set-calendar <name>",
		Short: "Set the Google calendar used by calendar push",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateConfig(cmd, func(cfg *config.Config) { cfg.Calendar = args[0] })
		},
	}

	cmd.AddCommand(show, setServer, setCalendar)
	return cmd
}

// updateConfig edits the file on disk, not the effective config, so
// flag and environment overrides are never persisted.
func updateConfig(cmd *cobra.Command, edit func(*config.Config)) error {
	path, err := config.GetConfigPath()
	if err != nil {
		return err
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return err
	}
	edit(cfg)
	if err := config.SaveTo(path, cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
	return nil
}
