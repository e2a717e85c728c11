package devserver

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	pkgerrors "github.com/goustty/storefront/pkg/errors"
	"github.com/goustty/storefront/pkg/types"
)

// listSettings returns the settings singleton wrapped in a list, empty when
// no record exists yet.
func (s *Server) listSettings(w http.ResponseWriter, r *http.Request) {
	var model settingsModel
	err := s.db.WithContext(r.Context()).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeJSON(w, http.StatusOK, []types.StoreSettings{})
		return
	}
	if err != nil {
		writeError(w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load settings"))
		return
	}
	writeJSON(w, http.StatusOK, []types.StoreSettings{model.toWire()})
}

// updateSettings upserts the singleton. POST is the write verb here, kept
// for compatibility with the production service.
func (s *Server) updateSettings(w http.ResponseWriter, r *http.Request) {
	var wire types.StoreSettings
	if err := decodeJSON(r, &wire); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(wire.StoreName) == "" {
		writeError(w, pkgerrors.New(pkgerrors.CodeValidation, "store name is required"))
		return
	}
	if wire.Currency != "" && !wire.Currency.IsValid() {
		writeError(w, pkgerrors.New(pkgerrors.CodeValidation, "invalid currency"))
		return
	}
	if wire.ShippingFlatRate < 0 || wire.FreeShippingThreshold < 0 {
		writeError(w, pkgerrors.New(pkgerrors.CodeValidation, "shipping amounts must not be negative"))
		return
	}

	var model settingsModel
	err := s.db.WithContext(r.Context()).First(&model).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		writeError(w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load settings"))
		return
	}

	model.StoreName = wire.StoreName
	model.SupportEmail = wire.SupportEmail
	if wire.Currency != "" {
		model.Currency = wire.Currency.String()
	}
	model.ShippingFlatRate = wire.ShippingFlatRate
	model.FreeShippingThreshold = wire.FreeShippingThreshold
	model.MaintenanceMode = wire.MaintenanceMode
	model.InstagramURL = wire.SocialLinks.Instagram
	model.TikTokURL = wire.SocialLinks.TikTok

	if err := s.db.WithContext(r.Context()).Save(&model).Error; err != nil {
		writeError(w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save settings"))
		return
	}
	writeJSON(w, http.StatusOK, model.toWire())
}
