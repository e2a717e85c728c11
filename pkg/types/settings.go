package types

import "github.com/goustty/storefront/pkg/enums"

// SocialLinks holds the storefront's social profiles.
type SocialLinks struct {
	Instagram string `json:"instagram,omitempty"`
	TikTok    string `json:"tiktok,omitempty"`
}

// StoreSettings is the store-wide configuration singleton. The remote
// service returns it wrapped in a one-element list.
type StoreSettings struct {
	StoreName             string         `json:"storeName"`
	SupportEmail          string         `json:"supportEmail"`
	Currency              enums.Currency `json:"currency"`
	ShippingFlatRate      float64        `json:"shippingFlatRate"`
	FreeShippingThreshold float64        `json:"freeShippingThreshold"`
	MaintenanceMode       bool           `json:"maintenanceMode"`
	SocialLinks           SocialLinks    `json:"socialLinks"`
}

// ShippingCostFor applies the flat-rate-with-free-threshold rule to a cart
// subtotal.
func (s StoreSettings) ShippingCostFor(subtotal float64) float64 {
	if subtotal >= s.FreeShippingThreshold {
		return 0
	}
	return s.ShippingFlatRate
}

// DefaultSettings are the values the store falls back to when the settings
// fetch fails at startup.
func DefaultSettings() StoreSettings {
	return StoreSettings{
		StoreName:             "GOUSTTY",
		SupportEmail:          "support@goustty.com",
		Currency:              enums.CurrencyCOP,
		ShippingFlatRate:      15000,
		FreeShippingThreshold: 200000,
	}
}
