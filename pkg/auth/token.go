package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
)

// TokenFile holds the task server session token, stored as an
// oauth2.Token so it can feed oauth2.StaticTokenSource directly.
const TokenFile = "token.json"

// ErrNoToken is returned when no session token has been saved yet.
var ErrNoToken = errors.New("not logged in")

// TokenStore persists a single oauth2.Token as JSON.
type TokenStore struct {
	Path string
}

// NewTokenStore returns a store for the session token under dir.
func NewTokenStore(dir string) *TokenStore {
	return &TokenStore{Path: filepath.Join(dir, TokenFile)}
}

func (s *TokenStore) Load() (*oauth2.Token, error) {
	tok, err := tokenFromFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoToken
	}
	if err != nil {
		return nil, err
	}
	if tok.AccessToken == "" {
		return nil, ErrNoToken
	}
	return tok, nil
}

func (s *TokenStore) Save(tok *oauth2.Token) error {
	return saveToken(s.Path, tok)
}

// Remove deletes the stored token. Removing a missing token is not an error.
func (s *TokenStore) Remove() error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove token %s: %w", s.Path, err)
	}
	return nil
}

// tokenFromFile reads an oauth2.Token from a JSON file.
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("failed to decode token from file %s: %w", file, err)
	}
	return tok, nil
}

func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("could not create token directory: %w", err)
	}

	// 0600: read/write for owner only
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache token to %s: %w", path, err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	return nil
}
