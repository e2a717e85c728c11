package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	pkgerrors "github.com/goustty/storefront/pkg/errors"
	"github.com/goustty/storefront/pkg/types"
)

type stubAuthAPI struct {
	registerResp *types.AuthResponse
	loginResp    *types.AuthResponse
	loginErr     error
	profileResp  *types.User
	profileErr   error
	addressResp  *types.Profile
	addressErr   error
}

func (s *stubAuthAPI) Register(ctx context.Context, req types.RegisterRequest) (*types.AuthResponse, error) {
	return s.registerResp, nil
}

func (s *stubAuthAPI) Login(ctx context.Context, req types.LoginRequest) (*types.AuthResponse, error) {
	return s.loginResp, s.loginErr
}

func (s *stubAuthAPI) GetProfile(ctx context.Context) (*types.User, error) {
	return s.profileResp, s.profileErr
}

func (s *stubAuthAPI) UpdateProfileAddress(ctx context.Context, profile types.Profile) (*types.Profile, error) {
	return s.addressResp, s.addressErr
}

func tokenPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "token")
}

func TestLoginPersistsToken(t *testing.T) {
	path := tokenPath(t)
	api := &stubAuthAPI{
		loginResp: &types.AuthResponse{
			Token: "tok-123",
			User:  types.User{ID: 1, Email: "laura@example.com"},
		},
	}

	store, err := NewStore(api, path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	user, err := store.Login(context.Background(), types.LoginRequest{Email: "laura@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.ID != 1 {
		t.Fatalf("unexpected user %+v", user)
	}
	if store.Token() != "tok-123" {
		t.Fatalf("token not held: %q", store.Token())
	}
	if !store.IsAuthenticated() {
		t.Fatal("expected authenticated session")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read token file: %v", err)
	}
	if string(raw) != "tok-123" {
		t.Fatalf("persisted token %q", raw)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat token file: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("token file mode %v, want 0600", info.Mode().Perm())
	}
}

func TestLoginFailureLeavesSessionEmpty(t *testing.T) {
	api := &stubAuthAPI{loginErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "bad credentials")}
	store, err := NewStore(api, tokenPath(t))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if _, err := store.Login(context.Background(), types.LoginRequest{}); err == nil {
		t.Fatal("expected login failure")
	}
	if store.IsAuthenticated() {
		t.Fatal("session should stay logged out")
	}
}

func TestHydrateRestoresSession(t *testing.T) {
	path := tokenPath(t)
	if err := os.WriteFile(path, []byte("tok-persisted\n"), 0o600); err != nil {
		t.Fatalf("seed token file: %v", err)
	}

	api := &stubAuthAPI{profileResp: &types.User{ID: 7, Email: "x@y.co", IsStaff: true}}
	store, err := NewStore(api, path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if err := store.Hydrate(context.Background()); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if store.Token() != "tok-persisted" {
		t.Fatalf("token %q", store.Token())
	}
	if !store.IsStaff() {
		t.Fatal("staff flag not restored from profile")
	}
}

func TestHydrateWithoutTokenFile(t *testing.T) {
	store, err := NewStore(&stubAuthAPI{}, tokenPath(t))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.Hydrate(context.Background()); err != nil {
		t.Fatalf("hydrate should tolerate a missing file: %v", err)
	}
	if store.IsAuthenticated() {
		t.Fatal("expected logged-out session")
	}
}

func TestHydrateDiscardsRejectedToken(t *testing.T) {
	path := tokenPath(t)
	if err := os.WriteFile(path, []byte("tok-stale"), 0o600); err != nil {
		t.Fatalf("seed token file: %v", err)
	}

	api := &stubAuthAPI{profileErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token")}
	store, err := NewStore(api, path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if err := store.Hydrate(context.Background()); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if store.IsAuthenticated() {
		t.Fatal("rejected token must not keep the session authenticated")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("stale token file should be removed")
	}
}

func TestHandleUnauthorizedForcesLogout(t *testing.T) {
	path := tokenPath(t)
	api := &stubAuthAPI{
		loginResp: &types.AuthResponse{Token: "tok-123", User: types.User{ID: 1}},
	}
	store, err := NewStore(api, path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if _, err := store.Login(context.Background(), types.LoginRequest{}); err != nil {
		t.Fatalf("login: %v", err)
	}

	orderErr := pkgerrors.New(pkgerrors.CodeUnauthorized, "token expired")
	if got := store.Handle(orderErr); got != orderErr {
		t.Fatalf("Handle must return the original error, got %v", got)
	}
	if store.IsAuthenticated() {
		t.Fatal("401 must clear the session")
	}
	if store.User() != nil {
		t.Fatal("401 must clear the user")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("401 must remove the persisted token")
	}
}

func TestHandleLeavesOtherErrorsAlone(t *testing.T) {
	api := &stubAuthAPI{
		loginResp: &types.AuthResponse{Token: "tok-123", User: types.User{ID: 1}},
	}
	store, err := NewStore(api, tokenPath(t))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if _, err := store.Login(context.Background(), types.LoginRequest{}); err != nil {
		t.Fatalf("login: %v", err)
	}

	store.Handle(pkgerrors.New(pkgerrors.CodeNetwork, "connection refused"))
	if !store.IsAuthenticated() {
		t.Fatal("network errors must not log the user out")
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	path := tokenPath(t)
	api := &stubAuthAPI{
		loginResp: &types.AuthResponse{Token: "tok-123", User: types.User{ID: 1}},
	}
	store, err := NewStore(api, path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if _, err := store.Login(context.Background(), types.LoginRequest{}); err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := store.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if store.IsAuthenticated() || store.User() != nil {
		t.Fatal("logout must clear the in-memory session")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("logout must remove the token file")
	}

	if err := store.Logout(); err != nil {
		t.Fatalf("second logout must be a no-op: %v", err)
	}
}

func TestUpdateAddressSyncsLocalUser(t *testing.T) {
	api := &stubAuthAPI{
		loginResp:   &types.AuthResponse{Token: "tok-123", User: types.User{ID: 1}},
		addressResp: &types.Profile{Address: "Cra 7 # 12-34", City: "Bogotá", PostalCode: "110111"},
	}
	store, err := NewStore(api, tokenPath(t))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if _, err := store.Login(context.Background(), types.LoginRequest{}); err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := store.UpdateAddress(context.Background(), types.Profile{Address: "Cra 7 # 12-34"}); err != nil {
		t.Fatalf("update address: %v", err)
	}
	user := store.User()
	if user == nil || user.Profile == nil || user.Profile.City != "Bogotá" {
		t.Fatalf("local user not synced: %+v", user)
	}
}
