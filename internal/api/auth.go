package api

import (
	"context"

	"github.com/goustty/storefront/pkg/types"
)

// Register creates an account and returns the session token plus user.
func (c *Client) Register(ctx context.Context, req types.RegisterRequest) (*types.AuthResponse, error) {
	var resp types.AuthResponse
	if err := c.postJSON(ctx, "/auth/register/", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login exchanges credentials for a session token plus user.
func (c *Client) Login(ctx context.Context, req types.LoginRequest) (*types.AuthResponse, error) {
	var resp types.AuthResponse
	if err := c.postJSON(ctx, "/auth/login/", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetProfile fetches the account behind the current session token.
func (c *Client) GetProfile(ctx context.Context) (*types.User, error) {
	var user types.User
	if err := c.getJSON(ctx, "/auth/profile/", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfileAddress replaces the address block on the current account.
func (c *Client) UpdateProfileAddress(ctx context.Context, profile types.Profile) (*types.Profile, error) {
	var updated types.Profile
	if err := c.putJSON(ctx, "/auth/profile/address/", profile, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// ListUsers fetches all accounts. Staff only; the admin console's customer
// list reads from this.
func (c *Client) ListUsers(ctx context.Context) ([]types.User, error) {
	var users []types.User
	if err := c.getJSON(ctx, "/auth/users/", &users); err != nil {
		return nil, err
	}
	return users, nil
}
