package api

import (
	"context"

	pkgerrors "github.com/goustty/storefront/pkg/errors"
	"github.com/goustty/storefront/pkg/types"
)

// ListOrders fetches all orders, newest first. Requires a session token.
func (c *Client) ListOrders(ctx context.Context) ([]types.Order, error) {
	var orders []types.Order
	if err := c.getJSON(ctx, "/orders/", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// CreateOrder submits a checkout order. The returned copy carries the
// authoritative id and status, superseding any client-generated draft code.
func (c *Client) CreateOrder(ctx context.Context, order types.Order) (*types.Order, error) {
	var created types.Order
	if err := c.postJSON(ctx, "/orders/", order, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// PatchOrder applies a partial admin update: order status, payment
// verification, or both.
func (c *Client) PatchOrder(ctx context.Context, id string, patch types.OrderStatusPatch) (*types.Order, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	var updated types.Order
	if err := c.patchJSON(ctx, "/orders/"+id+"/", patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// TrackOrder looks up an order for a guest by id and checkout email. No
// session token is required; the email acts as the shared secret.
func (c *Client) TrackOrder(ctx context.Context, req types.TrackOrderRequest) (*types.Order, error) {
	var order types.Order
	if err := c.postJSON(ctx, "/orders/track/", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
