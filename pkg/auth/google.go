package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const (
	// ClientSecretsFile is the downloaded Google API credentials.json,
	// expected in the taskgate config directory.
	ClientSecretsFile = "credentials.json"

	// GoogleTokenFile stores the Google token, separate from the task
	// server session token.
	GoogleTokenFile = "google-token.json"

	// LocalhostAuthPort is where the local server captures the OAuth redirect.
	LocalhostAuthPort = "6789"
)

// CalendarScopes are requested for the calendar mirror.
var CalendarScopes = []string{
	calendar.CalendarEventsScope,
	calendar.CalendarReadonlyScope,
}

// Google runs the installed-app consent flow and keeps its token in Dir.
type Google struct {
	Dir    string
	Logger *slog.Logger
}

// Config creates an oauth2.Config from the client secrets file, forcing
// localhost redirects onto LocalhostAuthPort.
func (g *Google) Config(scopes []string) (*oauth2.Config, error) {
	clientSecretsFile := filepath.Join(g.Dir, ClientSecretsFile)
	b, err := os.ReadFile(clientSecretsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file %s: %w", clientSecretsFile, err)
	}

	config, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}
	config.RedirectURL = g.redirectURL(config.RedirectURL)
	return config, nil
}

func (g *Google) redirectURL(configured string) string {
	if configured == "urn:ietf:wg:oauth:2.0:oob" || configured == "" {
		return fmt.Sprintf("http://localhost:%s/oauth2callback", LocalhostAuthPort)
	}
	parsed, err := url.Parse(configured)
	if err != nil {
		g.logger().Warn("could not parse redirect URL, using it as is", "url", configured, "error", err)
		return configured
	}
	if parsed.Hostname() != "localhost" && parsed.Hostname() != "127.0.0.1" {
		g.logger().Warn("redirect URL is not a localhost callback", "url", configured)
		return configured
	}
	if parsed.Port() != LocalhostAuthPort {
		parsed.Host = net.JoinHostPort(parsed.Hostname(), LocalhostAuthPort)
	}
	return parsed.String()
}

// Authorize always runs the browser flow and saves the new token.
func (g *Google) Authorize(ctx context.Context) error {
	config, err := g.Config(CalendarScopes)
	if err != nil {
		return err
	}
	tok, err := g.tokenFromWeb(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to get token from web: %w", err)
	}
	return saveToken(g.tokenPath(), tok)
}

// Client returns an *http.Client that refreshes the stored token. The
// refreshed token is written back so the next run starts from it.
func (g *Google) Client(ctx context.Context, scopes []string) (*http.Client, error) {
	config, err := g.Config(scopes)
	if err != nil {
		return nil, err
	}

	tok, err := tokenFromFile(g.tokenPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("no Google token found, run 'taskgate calendar auth' first")
		}
		return nil, err
	}

	src := config.TokenSource(ctx, tok)
	current, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh Google token: %w", err)
	}
	if current.AccessToken != tok.AccessToken || current.RefreshToken != tok.RefreshToken {
		g.logger().Debug("Google token refreshed, saving")
		if err := saveToken(g.tokenPath(), current); err != nil {
			g.logger().Warn("could not save refreshed token", "error", err)
		}
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(current, src)), nil
}

// CalendarService creates an authenticated Google Calendar service.
func (g *Google) CalendarService(ctx context.Context) (*calendar.Service, error) {
	client, err := g.Client(ctx, CalendarScopes)
	if err != nil {
		return nil, fmt.Errorf("failed to get authenticated client for Calendar API: %w", err)
	}
	srv, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Google Calendar service: %w", err)
	}
	return srv, nil
}

func (g *Google) tokenPath() string {
	return filepath.Join(g.Dir, GoogleTokenFile)
}

func (g *Google) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}

// tokenFromWeb runs the authorization code flow through a local server
// that captures the redirect.
func (g *Google) tokenFromWeb(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	listener, err := net.Listen("tcp", net.JoinHostPort("localhost", LocalhostAuthPort))
	if err != nil {
		return nil, fmt.Errorf("failed to start listener on port %s: %w", LocalhostAuthPort, err)
	}
	defer listener.Close()

	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := r.URL.Query().Get("code")
			if code == "" {
				http.Error(w, "Authorization code not found", http.StatusBadRequest)
				select {
				case errCh <- errors.New("authorization code not found in redirect URL"):
				default:
				}
				return
			}
			fmt.Fprintf(w, "Authentication successful! You can close this window.")
			select {
			case codeCh <- code:
			default:
			}
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  15 * time.Second,
	}
	defer server.Shutdown(context.Background())

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			select {
			case errCh <- fmt.Errorf("HTTP server error: %w", err):
			default:
			}
		}
	}()

	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	fmt.Printf("Please open the following URL in your browser to authorize taskgate:\n%s\n", authURL)
	g.logger().Info("waiting for authorization code", "redirect", config.RedirectURL)

	select {
	case code := <-codeCh:
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		tok, err := config.Exchange(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve token from Google: %w", err)
		}
		return tok, nil
	case err := <-errCh:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(5 * time.Minute):
		return nil, errors.New("authorization timed out, please try again")
	}
}
