package api

import (
	"context"

	pkgerrors "github.com/goustty/storefront/pkg/errors"
	"github.com/goustty/storefront/pkg/types"
)

// GetSettings fetches the store settings singleton. The service wraps it in
// a one-element list; an empty list means the server has no record yet and
// the caller should fall back to defaults.
func (c *Client) GetSettings(ctx context.Context) (*types.StoreSettings, error) {
	var wrapped []types.StoreSettings
	if err := c.getJSON(ctx, "/settings/", &wrapped); err != nil {
		return nil, err
	}
	if len(wrapped) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store settings not configured")
	}
	return &wrapped[0], nil
}

// UpdateSettings replaces the settings singleton via POST, per the service's
// convention, and returns the stored copy.
func (c *Client) UpdateSettings(ctx context.Context, settings types.StoreSettings) (*types.StoreSettings, error) {
	var updated types.StoreSettings
	if err := c.postJSON(ctx, "/settings/", settings, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
