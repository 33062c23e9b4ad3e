package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/taskgate/pkg/model"
)

type credentialFlags struct {
	username string
	password string
}

func (f *credentialFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.username, "username", "u", "", "Username (required)")
	cmd.Flags().StringVarP(&f.password, "password", "p", "", "Password (read from stdin when omitted)")
	cmd.MarkFlagRequired("username")
}

// resolve reads the password from stdin when it was not given as a flag.
func (f *credentialFlags) resolve(cmd *cobra.Command) error {
	f.username = strings.TrimSpace(f.username)
	if f.username == "" {
		return fmt.Errorf("username is required")
	}
	if f.password != "" {
		return nil
	}
	in := cmd.InOrStdin()
	if isTerminal(in) {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read password: %w", err)
	}
	f.password = strings.TrimRight(line, "\r\n")
	if f.password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

func newLoginCmd(a *app) *cobra.Command {
	var creds credentialFlags
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := creds.resolve(cmd); err != nil {
				return err
			}
			client, err := a.client(nil)
			if err != nil {
				return err
			}
			tok, err := client.Login(cmd.Context(), creds.username, creds.password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			if err := a.tokens.Save(tok); err != nil {
				return err
			}
			a.logger.Debug("token saved", "path", a.tokens.Path)

			_, s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", s.Username, s.Role)
			return nil
		},
	}
	creds.bind(cmd)
	return cmd
}

func newRegisterCmd(a *app) *cobra.Command {
	var creds credentialFlags
	role := model.RoleEmployee
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := creds.resolve(cmd); err != nil {
				return err
			}
			client, err := a.client(nil)
			if err != nil {
				return err
			}
			if err := client.Register(cmd.Context(), creds.username, creds.password, role); err != nil {
				return fmt.Errorf("registration failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s as %s. Run 'taskgate login' to sign in.\n", creds.username, role)
			return nil
		},
	}
	creds.bind(cmd)
	cmd.Flags().Var(&role, "role", "Role: Administrator, Manager or Employee")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.tokens.Remove(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user and role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			return a.renderer(cmd).Session(s)
		},
	}
}
