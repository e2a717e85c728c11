package types

import "github.com/goustty/storefront/pkg/enums"

// Collection is a curated merchandising subset of products, independent of
// category. Size controls the layout weight of its tile.
type Collection struct {
	ID       string               `json:"id"`
	Title    string               `json:"title" validate:"required"`
	Subtitle string               `json:"subtitle,omitempty"`
	Image    string               `json:"image,omitempty"`
	Category string               `json:"category,omitempty"`
	Size     enums.CollectionSize `json:"size"`
}
