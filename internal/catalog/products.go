package catalog

import (
	"context"

	"github.com/goustty/storefront/internal/api"
	pkgerrors "github.com/goustty/storefront/pkg/errors"
	"github.com/goustty/storefront/pkg/types"
)

// AddProduct creates the product remotely and appends the server's copy.
func (s *Store) AddProduct(ctx context.Context, input api.ProductInput) error {
	created, err := s.api.CreateProduct(ctx, input)
	if err != nil {
		return s.handle(err)
	}

	s.mu.Lock()
	s.products = append(s.products, *created)
	s.mu.Unlock()
	return nil
}

// UpdateProduct replaces the product remotely and reconciles the local copy
// from the server response.
func (s *Store) UpdateProduct(ctx context.Context, id string, input api.ProductInput) error {
	updated, err := s.api.UpdateProduct(ctx, id, input)
	if err != nil {
		return s.handle(err)
	}

	s.mu.Lock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products[i] = *updated
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// DeleteProduct removes the product remotely, then locally.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	if err := s.api.DeleteProduct(ctx, id); err != nil {
		return s.handle(err)
	}

	s.mu.Lock()
	kept := s.products[:0]
	for _, p := range s.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.products = kept
	s.mu.Unlock()
	return nil
}

// ProductByID looks up a product in the loaded catalog.
func (s *Store) ProductByID(id string) (*types.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.products {
		if s.products[i].ID == id {
			p := s.products[i]
			return &p, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}
