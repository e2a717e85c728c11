package enums

import "fmt"

// CollectionSize controls the layout weight of a collection tile.
type CollectionSize string

const (
	CollectionSizeSmall  CollectionSize = "small"
	CollectionSizeMedium CollectionSize = "medium"
	CollectionSizeLarge  CollectionSize = "large"
)

var validCollectionSizes = []CollectionSize{
	CollectionSizeSmall,
	CollectionSizeMedium,
	CollectionSizeLarge,
}

// String implements fmt.Stringer.
func (s CollectionSize) String() string {
	return string(s)
}

// IsValid reports whether the value is a known CollectionSize.
func (s CollectionSize) IsValid() bool {
	for _, candidate := range validCollectionSizes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseCollectionSize converts raw input into a CollectionSize.
func ParseCollectionSize(value string) (CollectionSize, error) {
	for _, candidate := range validCollectionSizes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid collection size %q", value)
}
