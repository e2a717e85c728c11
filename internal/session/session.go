// Package session holds the authenticated user and token for the running
// process. The token is persisted to a file between runs, standing in for
// the browser's local storage; everything else is memory-only.
package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	pkgerrors "github.com/goustty/storefront/pkg/errors"
	"github.com/goustty/storefront/pkg/types"
)

// AuthAPI is the slice of the REST client the session store needs.
type AuthAPI interface {
	Register(ctx context.Context, req types.RegisterRequest) (*types.AuthResponse, error)
	Login(ctx context.Context, req types.LoginRequest) (*types.AuthResponse, error)
	GetProfile(ctx context.Context) (*types.User, error)
	UpdateProfileAddress(ctx context.Context, profile types.Profile) (*types.Profile, error)
}

// Store is the auth session container.
type Store struct {
	mu        sync.RWMutex
	api       AuthAPI
	tokenPath string
	token     string
	user      *types.User
}

// NewStore builds a session store persisting the token at tokenPath.
func NewStore(api AuthAPI, tokenPath string) (*Store, error) {
	if api == nil {
		return nil, errors.New("auth api is required")
	}
	if strings.TrimSpace(tokenPath) == "" {
		return nil, errors.New("token path is required")
	}
	return &Store{api: api, tokenPath: tokenPath}, nil
}

// Token returns the current session token, empty when logged out. Satisfies
// the REST client's TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the current account, nil when logged out.
func (s *Store) User() *types.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// IsAuthenticated reports whether a session token is held.
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// IsStaff reports the server-issued staff flag. False when logged out.
func (s *Store) IsStaff() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.IsStaff
}

// Hydrate loads a persisted token and refreshes the profile behind it. A
// missing token file just leaves the session logged out. A rejected token is
// discarded the same way an expired browser session would be.
func (s *Store) Hydrate(ctx context.Context) error {
	raw, err := os.ReadFile(s.tokenPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read token file")
	}

	token := strings.TrimSpace(string(raw))
	if token == "" {
		return nil
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	user, err := s.api.GetProfile(ctx)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
			s.forceLogout()
			return nil
		}
		return err
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	return nil
}

// Login authenticates and persists the returned token.
func (s *Store) Login(ctx context.Context, req types.LoginRequest) (*types.User, error) {
	resp, err := s.api.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.adopt(resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Register creates an account and persists the returned token.
func (s *Store) Register(ctx context.Context, req types.RegisterRequest) (*types.User, error) {
	resp, err := s.api.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.adopt(resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// UpdateAddress replaces the address block on the current account and keeps
// the local user copy in sync with the server response.
func (s *Store) UpdateAddress(ctx context.Context, profile types.Profile) error {
	updated, err := s.api.UpdateProfileAddress(ctx, profile)
	if err != nil {
		return s.Handle(err)
	}

	s.mu.Lock()
	if s.user != nil {
		s.user.Profile = updated
	}
	s.mu.Unlock()
	return nil
}

// Logout clears the in-memory session and removes the persisted token.
func (s *Store) Logout() error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if err := os.Remove(s.tokenPath); err != nil && !os.IsNotExist(err) {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove token file")
	}
	return nil
}

// Handle inspects an error from any API call made with this session. An
// UNAUTHORIZED response means the token is no longer honored: the session is
// cleared so the caller stops treating the user as authenticated. The error
// is returned unchanged either way.
func (s *Store) Handle(err error) error {
	if pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		s.forceLogout()
	}
	return err
}

func (s *Store) adopt(resp *types.AuthResponse) error {
	s.mu.Lock()
	s.token = resp.Token
	user := resp.User
	s.user = &user
	s.mu.Unlock()

	return s.persistToken(resp.Token)
}

func (s *Store) persistToken(token string) error {
	dir := filepath.Dir(s.tokenPath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create token directory")
	}
	if err := os.WriteFile(s.tokenPath, []byte(token), 0o600); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write token file")
	}
	return nil
}

func (s *Store) forceLogout() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
	_ = os.Remove(s.tokenPath)
}
