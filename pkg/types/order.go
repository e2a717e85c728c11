package types

import (
	"time"

	"github.com/goustty/storefront/pkg/enums"
)

// OrderItem is one purchased line inside an order.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Image     string  `json:"image,omitempty"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity" validate:"gte=1"`
	Size      string  `json:"size,omitempty"`
	Color     string  `json:"color,omitempty"`
}

// ShippingDetails is the address block attached to an order at checkout.
type ShippingDetails struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Address   string `json:"address" validate:"required"`
	City      string `json:"city" validate:"required"`
	Zip       string `json:"zip" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
}

// Order is the order record. The id is server-assigned once persisted; a
// client-generated draft code may appear before then and is provisional only.
type Order struct {
	ID              string            `json:"id"`
	Date            time.Time         `json:"date"`
	Status          enums.OrderStatus `json:"status"`
	Total           float64           `json:"total"`
	Items           []OrderItem       `json:"items"`
	CustomerName    string            `json:"customerName,omitempty"`
	CustomerEmail   string            `json:"customerEmail,omitempty"`
	ShippingDetails *ShippingDetails  `json:"shippingDetails,omitempty"`
	PaymentVerified bool              `json:"paymentVerified"`
}

// Subtotal sums price times quantity across the item list. The difference
// between Total and Subtotal is the shipping term.
func (o Order) Subtotal() float64 {
	var sum float64
	for _, item := range o.Items {
		sum += item.Price * float64(item.Quantity)
	}
	return sum
}

// ShippingCost back-calculates the shipping term from the stored total.
func (o Order) ShippingCost() float64 {
	cost := o.Total - o.Subtotal()
	if cost < 0 {
		return 0
	}
	return cost
}

// TrackOrderRequest is the guest tracking lookup keyed by order id plus the
// customer email used at checkout.
type TrackOrderRequest struct {
	OrderID string `json:"orderId" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
}

// OrderStatusPatch carries the admin-side PATCH body for an order. Nil fields
// are left untouched by the server.
type OrderStatusPatch struct {
	Status          *enums.OrderStatus `json:"status,omitempty"`
	PaymentVerified *bool              `json:"paymentVerified,omitempty"`
}
