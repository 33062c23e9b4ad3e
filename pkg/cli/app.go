package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/taskgate/pkg/api"
	"github.com/harrisonrobin/taskgate/pkg/auth"
	"github.com/harrisonrobin/taskgate/pkg/clock"
	"github.com/harrisonrobin/taskgate/pkg/config"
	"github.com/harrisonrobin/taskgate/pkg/controller"
	"github.com/harrisonrobin/taskgate/pkg/model"
	"github.com/harrisonrobin/taskgate/pkg/render"
	"github.com/harrisonrobin/taskgate/pkg/session"
	"golang.org/x/oauth2"
)

var _ controller.Store = (*api.Client)(nil)

// app holds what every command needs once flags and config are read.
type app struct {
	verbose bool
	server  string

	cfg    *config.Config
	dir    string
	logger *slog.Logger
	tokens *auth.TokenStore
	clock  clock.Clock
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.server != "" {
		cfg.Server = a.server
	}
	dir, err := config.Dir()
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.dir = dir
	a.logger = newLogger(cmd.ErrOrStderr(), cfg.LogLevel, a.verbose)
	a.tokens = auth.NewTokenStore(dir)
	if a.clock == nil {
		a.clock = clock.Real()
	}
	return nil
}

func newLogger(w io.Writer, level string, verbose bool) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func (a *app) client(token *oauth2.Token) (*api.Client, error) {
	return api.NewClient(a.cfg.Server, token,
		api.WithTimeout(a.cfg.Timeout),
		api.WithLogger(a.logger),
	)
}

// authedClient loads the saved token and builds a client with it.
func (a *app) authedClient() (*api.Client, error) {
	tok, err := a.tokens.Load()
	if errors.Is(err, auth.ErrNoToken) {
		return nil, fmt.Errorf("not logged in, run 'taskgate login' first")
	}
	if err != nil {
		return nil, err
	}
	return a.client(tok)
}

func (a *app) session(ctx context.Context) (*api.Client, model.Session, error) {
	client, err := a.authedClient()
	if err != nil {
		return nil, model.Session{}, err
	}
	s, err := session.Resolve(ctx, client)
	if err != nil {
		return nil, model.Session{}, err
	}
	a.logger.Debug("session resolved", "username", s.Username, "role", s.Role)
	return client, s, nil
}

// open resolves the session and loads the collection it may see.
func (a *app) open(ctx context.Context) (*controller.Controller, error) {
	client, s, err := a.session(ctx)
	if err != nil {
		return nil, err
	}
	ctl := controller.New(client, s,
		controller.WithClock(a.clock),
		controller.WithLogger(a.logger),
		controller.WithObserver(func(snap controller.Snapshot) {
			a.logger.Debug("controller", "state", snap.State, "visible", len(snap.Visible), "error", snap.Err)
		}),
	)
	if err := ctl.LoadInitial(ctx); err != nil {
		return nil, err
	}
	return ctl, nil
}

func (a *app) renderer(cmd *cobra.Command) *render.Renderer {
	return render.New(cmd.OutOrStdout(), a.clock.Now())
}

// resolveAssignee accepts an employee id or username from the directory.
func resolveAssignee(employees []model.Employee, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", nil
	}
	for _, e := range employees {
		if e.ID == v || strings.EqualFold(e.Username, v) {
			return e.ID, nil
		}
	}
	return "", fmt.Errorf("%w: no employee %q", controller.ErrValidation, v)
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
