package devserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/goustty/storefront/pkg/enums"
	pkgerrors "github.com/goustty/storefront/pkg/errors"
	"github.com/goustty/storefront/pkg/types"
)

// listOrders returns every order for staff, and only the caller's own orders
// otherwise, matched on checkout email. Newest first.
func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	query := s.db.WithContext(r.Context()).Preload("Items").Order("id DESC")
	if !claims.Staff {
		query = query.Where("customer_email = ?", claims.Email)
	}
	var models []orderModel
	if err := query.Find(&models).Error; err != nil {
		writeError(w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders"))
		return
	}
	orders := make([]types.Order, 0, len(models))
	for _, m := range models {
		orders = append(orders, m.toWire())
	}
	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	var wire types.Order
	if err := decodeJSON(r, &wire); err != nil {
		writeError(w, err)
		return
	}
	if len(wire.Items) == 0 {
		writeError(w, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item"))
		return
	}
	if strings.TrimSpace(wire.CustomerEmail) == "" {
		writeError(w, pkgerrors.New(pkgerrors.CodeValidation, "customer email is required"))
		return
	}
	if wire.Total <= 0 {
		writeError(w, pkgerrors.New(pkgerrors.CodeValidation, "order total must be positive"))
		return
	}

	status := wire.Status
	if status == "" {
		status = enums.OrderStatusProcessing
	}
	if !status.IsValid() {
		writeError(w, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status"))
		return
	}

	model := orderModel{
		DraftCode:       wire.ID,
		Date:            time.Now().UTC(),
		Status:          status.String(),
		Total:           wire.Total,
		CustomerName:    wire.CustomerName,
		CustomerEmail:   strings.ToLower(strings.TrimSpace(wire.CustomerEmail)),
		ShippingDetails: wire.ShippingDetails,
	}
	for _, item := range wire.Items {
		if item.Quantity <= 0 {
			writeError(w, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive"))
			return
		}
		model.Items = append(model.Items, orderItemModel{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Size:      item.Size,
			Color:     item.Color,
		})
	}

	if err := s.db.WithContext(r.Context()).Create(&model).Error; err != nil {
		writeError(w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order"))
		return
	}
	writeJSON(w, http.StatusCreated, model.toWire())
}

func (s *Server) patchOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var model orderModel
	err = s.db.WithContext(r.Context()).Preload("Items").First(&model, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeError(w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
		return
	}
	if err != nil {
		writeError(w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order"))
		return
	}

	var patch types.OrderStatusPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}
	if patch.Status != nil {
		if !patch.Status.IsValid() {
			writeError(w, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status"))
			return
		}
		model.Status = patch.Status.String()
	}
	if patch.PaymentVerified != nil {
		model.PaymentVerified = *patch.PaymentVerified
	}

	if err := s.db.WithContext(r.Context()).Save(&model).Error; err != nil {
		writeError(w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order"))
		return
	}
	writeJSON(w, http.StatusOK, model.toWire())
}

// trackOrder is the guest lookup: order id plus checkout email, no session.
func (s *Server) trackOrder(w http.ResponseWriter, r *http.Request) {
	var req types.TrackOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(req.OrderID) == "" || strings.TrimSpace(req.Email) == "" {
		writeError(w, pkgerrors.New(pkgerrors.CodeValidation, "order id and email are required"))
		return
	}

	var model orderModel
	err := s.db.WithContext(r.Context()).
		Preload("Items").
		Where("(id = ? OR draft_code = ?) AND customer_email = ?",
			req.OrderID, req.OrderID, strings.ToLower(strings.TrimSpace(req.Email))).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeError(w, pkgerrors.New(pkgerrors.CodeNotFound, "no order matches that id and email"))
		return
	}
	if err != nil {
		writeError(w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up order"))
		return
	}
	writeJSON(w, http.StatusOK, model.toWire())
}
