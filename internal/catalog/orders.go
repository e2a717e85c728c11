package catalog

import (
	"context"

	"github.com/goustty/storefront/pkg/enums"
	pkgerrors "github.com/goustty/storefront/pkg/errors"
	"github.com/goustty/storefront/pkg/types"
)

// UpdateOrderStatus patches the order's fulfillment status and reconciles
// the local copy from the server response.
func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status enums.OrderStatus) error {
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	return s.patchOrder(ctx, id, types.OrderStatusPatch{Status: &status})
}

// SetPaymentVerified patches the order's payment-verification flag.
func (s *Store) SetPaymentVerified(ctx context.Context, id string, verified bool) error {
	return s.patchOrder(ctx, id, types.OrderStatusPatch{PaymentVerified: &verified})
}

func (s *Store) patchOrder(ctx context.Context, id string, patch types.OrderStatusPatch) error {
	updated, err := s.api.PatchOrder(ctx, id, patch)
	if err != nil {
		return s.handle(err)
	}

	s.mu.Lock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i] = *updated
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// OrderByID looks up an order in the loaded state.
func (s *Store) OrderByID(id string) (*types.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			o := s.orders[i]
			return &o, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

// RecordOrder appends a freshly confirmed order, so the admin views see it
// without a full reload.
func (s *Store) RecordOrder(order types.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append([]types.Order{order}, s.orders...)
}

// UpdateSettings replaces the settings singleton remotely and adopts the
// server's copy.
func (s *Store) UpdateSettings(ctx context.Context, settings types.StoreSettings) error {
	updated, err := s.api.UpdateSettings(ctx, settings)
	if err != nil {
		return s.handle(err)
	}

	s.mu.Lock()
	s.settings = *updated
	s.mu.Unlock()
	return nil
}

// LoadUsers fetches the customer list for the admin console. Separate from
// Load because it needs a staff token.
func (s *Store) LoadUsers(ctx context.Context) error {
	users, err := s.api.ListUsers(ctx)
	if err != nil {
		return s.handle(err)
	}

	s.mu.Lock()
	s.users = users
	s.mu.Unlock()
	return nil
}

// RemoveUserLocal drops a customer from the loaded list. The service
// exposes no account deletion endpoint, so the removal is local state only
// and reappears on the next LoadUsers.
func (s *Store) RemoveUserLocal(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.users[:0]
	for _, u := range s.users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	s.users = kept
}
