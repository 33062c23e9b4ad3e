// Package session resolves the caller's identity once per login.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/harrisonrobin/taskgate/pkg/model"
)

// Identity is the identity provider boundary.
type Identity interface {
	Me(ctx context.Context) (model.Session, error)
}

var ErrNoUsername = errors.New("identity provider returned no username")

// Resolve asks the identity provider who the bearer token belongs to.
// The returned Session is a value; callers pass it explicitly wherever a
// role is needed. An unrecognized role is not an error here: it resolves
// to model.RoleUnknown and every policy check denies it.
func Resolve(ctx context.Context, id Identity) (model.Session, error) {
	s, err := id.Me(ctx)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to resolve session: %w", err)
	}
	s.Username = strings.TrimSpace(s.Username)
	if s.Username == "" {
		return model.Session{}, ErrNoUsername
	}
	return s, nil
}
