package types

// Product is the catalog record as the remote service serves it. Numeric
// prices are Colombian pesos at the presentation layer; the model itself is
// currency-agnostic.
type Product struct {
	ID             string   `json:"id"`
	Name           string   `json:"name" validate:"required"`
	Price          float64  `json:"price" validate:"gte=0"`
	OriginalPrice  *float64 `json:"originalPrice,omitempty"`
	Category       string   `json:"category"`
	CollectionID   *string  `json:"collectionId,omitempty"`
	Image          string   `json:"image"`
	Images         []string `json:"images,omitempty"`
	IsNew          bool     `json:"isNew"`
	InStock        bool     `json:"inStock"`
	Description    string   `json:"description,omitempty"`
	Details        []string `json:"details,omitempty"`
	Colors         []string `json:"colors,omitempty"`
	Sizes          []string `json:"sizes,omitempty"`
	AvailableSizes []string `json:"availableSizes,omitempty"`
}

// CanOrderSize reports whether the given size is currently purchasable.
// When AvailableSizes is non-empty only those values are selectable;
// otherwise every listed size is presumed orderable.
func (p Product) CanOrderSize(size string) bool {
	if len(p.AvailableSizes) > 0 {
		for _, s := range p.AvailableSizes {
			if s == size {
				return true
			}
		}
		return false
	}
	if len(p.Sizes) == 0 {
		return true
	}
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// OnSale reports whether the product carries a strikethrough original price.
func (p Product) OnSale() bool {
	return p.OriginalPrice != nil && *p.OriginalPrice > p.Price
}

// Category is an explicit category record tracked by the remote service.
// Legacy category names may exist only as strings on products.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name" validate:"required"`
	Image       string `json:"image,omitempty"`
	Description string `json:"description,omitempty"`
}
