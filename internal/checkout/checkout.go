// Package checkout assembles orders from the basket and submits them to the
// remote service. The basket is cleared only after the service confirms the
// order; any failure leaves it intact for a retry.
package checkout

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/goustty/storefront/internal/cart"
	"github.com/goustty/storefront/pkg/enums"
	pkgerrors "github.com/goustty/storefront/pkg/errors"
	"github.com/goustty/storefront/pkg/money"
	"github.com/goustty/storefront/pkg/types"
)

// OrderAPI is the slice of the REST client checkout needs.
type OrderAPI interface {
	CreateOrder(ctx context.Context, order types.Order) (*types.Order, error)
}

// Basket is the slice of the cart store checkout needs.
type Basket interface {
	Lines() []cart.Line
	Total() float64
	Clear()
}

// Service drives order assembly and submission.
type Service struct {
	api    OrderAPI
	basket Basket
	clock  func() time.Time
}

// NewService builds the checkout service.
func NewService(api OrderAPI, basket Basket) (*Service, error) {
	if api == nil {
		return nil, errors.New("order api is required")
	}
	if basket == nil {
		return nil, errors.New("basket is required")
	}
	return &Service{api: api, basket: basket, clock: time.Now}, nil
}

// Draft is the assembled order before submission. The draft id is a display
// and idempotency key only; the server's copy supersedes it.
type Draft struct {
	Order          types.Order
	IdempotencyKey string
	Subtotal       float64
	ShippingCost   float64
}

// Assemble validates the form and builds a draft order from the current
// basket. Shipping is free at or above the settings threshold, the flat rate
// otherwise, and the shipping term is part of the order total.
func (s *Service) Assemble(form Form, settings types.StoreSettings) (*Draft, error) {
	now := s.clock()
	if err := form.Validate(now); err != nil {
		return nil, err
	}

	lines := s.basket.Lines()
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	items := make([]types.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, types.OrderItem{
			ProductID: line.Product.ID,
			Name:      line.Product.Name,
			Image:     line.Product.Image,
			Price:     line.Product.Price,
			Quantity:  line.Quantity,
			Size:      line.Size,
			Color:     line.Color,
		})
	}

	subtotal := s.basket.Total()
	shipping := settings.ShippingCostFor(subtotal)
	details := form.ShippingDetails()

	draftID, err := draftOrderID()
	if err != nil {
		return nil, err
	}

	return &Draft{
		Order: types.Order{
			ID:              draftID,
			Date:            now,
			Status:          enums.OrderStatusProcessing,
			Total:           money.Sum(subtotal, shipping),
			Items:           items,
			CustomerName:    form.CustomerName(),
			CustomerEmail:   form.Email,
			ShippingDetails: &details,
		},
		IdempotencyKey: uuid.NewString(),
		Subtotal:       subtotal,
		ShippingCost:   shipping,
	}, nil
}

// Confirmation is the post-submission result handed to the success view.
type Confirmation struct {
	Order types.Order
	Email string
}

// Submit sends the draft and clears the basket once the service confirms.
// On failure the basket is untouched and the classified error comes back for
// a retry affordance.
func (s *Service) Submit(ctx context.Context, draft *Draft) (*Confirmation, error) {
	if draft == nil {
		return nil, errors.New("draft is required")
	}

	created, err := s.api.CreateOrder(ctx, draft.Order)
	if err != nil {
		return nil, err
	}

	s.basket.Clear()
	return &Confirmation{Order: *created, Email: created.CustomerEmail}, nil
}

// draftOrderID builds the short human-readable ORD-#### code shown before
// the server assigns the real id.
func draftOrderID() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("generate draft order id: %w", err)
	}
	return fmt.Sprintf("ORD-%04d", n.Int64()), nil
}
