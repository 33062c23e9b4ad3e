package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/harrisonrobin/taskgate/pkg/model"
	"golang.org/x/oauth2"
)

const (
	loginPath    = "/api/auth/login"
	registerPath = "/api/auth/register"
	mePath       = "/api/auth/me"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// Me resolves the bearer token to the caller's identity.
func (c *Client) Me(ctx context.Context) (model.Session, error) {
	var s model.Session
	if err := c.do(ctx, c.http, http.MethodGet, mePath, nil, &s); err != nil {
		return model.Session{}, err
	}
	return s, nil
}

// Login exchanges a username and password for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (*oauth2.Token, error) {
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, c.anon, http.MethodPost, loginPath, credentials{Username: username, Password: password}, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, errors.New("login response did not include a token")
	}
	return &oauth2.Token{AccessToken: resp.Token, TokenType: "Bearer"}, nil
}

// Register creates an account with the given role.
func (c *Client) Register(ctx context.Context, username, password string, role model.Role) error {
	body := credentials{Username: username, Password: password, Role: role.String()}
	return c.do(ctx, c.anon, http.MethodPost, registerPath, body, nil)
}
