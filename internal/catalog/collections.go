package catalog

import (
	"context"

	pkgerrors "github.com/goustty/storefront/pkg/errors"
	"github.com/goustty/storefront/pkg/types"
)

// AddCollection creates a collection, then re-fetches the list so local
// state matches the server exactly.
func (s *Store) AddCollection(ctx context.Context, collection types.Collection) error {
	if _, err := s.api.CreateCollection(ctx, collection); err != nil {
		return s.handle(err)
	}
	return s.refetchCollections(ctx)
}

// UpdateCollection replaces a collection, then re-fetches the list.
func (s *Store) UpdateCollection(ctx context.Context, id string, collection types.Collection) error {
	if _, err := s.api.UpdateCollection(ctx, id, collection); err != nil {
		return s.handle(err)
	}
	return s.refetchCollections(ctx)
}

// DeleteCollection removes a collection, then re-fetches the list.
func (s *Store) DeleteCollection(ctx context.Context, id string) error {
	if err := s.api.DeleteCollection(ctx, id); err != nil {
		return s.handle(err)
	}
	return s.refetchCollections(ctx)
}

// CollectionByID looks up a collection in the loaded state.
func (s *Store) CollectionByID(id string) (*types.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.collections {
		if s.collections[i].ID == id {
			c := s.collections[i]
			return &c, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "collection not found")
}

func (s *Store) refetchCollections(ctx context.Context) error {
	collections, err := s.api.ListCollections(ctx)
	if err != nil {
		return s.handle(err)
	}
	s.mu.Lock()
	s.collections = collections
	s.mu.Unlock()
	return nil
}
