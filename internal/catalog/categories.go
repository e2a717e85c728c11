package catalog

import (
	"context"
	"strings"

	pkgerrors "github.com/goustty/storefront/pkg/errors"
	"github.com/goustty/storefront/pkg/types"
)

// CategoryNames derives the display list: the sentinel first, then explicit
// server records, then any name found only on a product. Legacy
// product-derived names have no server record and can only be renamed
// locally.
func (s *Store) CategoryNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := map[string]bool{SentinelCategory: true}
	names := []string{SentinelCategory}

	for _, c := range s.categories {
		if c.Name == "" || seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		names = append(names, c.Name)
	}
	for _, p := range s.products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		names = append(names, p.Category)
	}
	return names
}

// Categories returns a copy of the explicit server category records.
func (s *Store) Categories() []types.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.Category(nil), s.categories...)
}

// AddCategory creates a category record, then re-fetches the list so local
// state matches the server exactly.
func (s *Store) AddCategory(ctx context.Context, category types.Category) error {
	name := strings.TrimSpace(category.Name)
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}
	if s.categoryNameTaken(name) {
		return pkgerrors.New(pkgerrors.CodeConflict, "category already exists")
	}
	category.Name = name

	if _, err := s.api.CreateCategory(ctx, category); err != nil {
		return s.handle(err)
	}
	return s.refetchCategories(ctx)
}

// RenameCategory changes a category's name. Renaming to the current name is
// a no-op; renaming to an existing name is rejected without touching state.
// A legacy name with no server record is renamed locally only, across the
// products that carry it.
func (s *Store) RenameCategory(ctx context.Context, oldName, newName string) error {
	oldName = strings.TrimSpace(oldName)
	newName = strings.TrimSpace(newName)

	if newName == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}
	if oldName == SentinelCategory {
		return pkgerrors.New(pkgerrors.CodeValidation, "the All category cannot be renamed")
	}
	if oldName == newName {
		return nil
	}
	if s.categoryNameTaken(newName) {
		return pkgerrors.New(pkgerrors.CodeConflict, "category already exists")
	}

	record := s.categoryRecordByName(oldName)
	if record == nil {
		// Legacy product-derived name: nothing to persist server-side.
		s.mu.Lock()
		for i := range s.products {
			if s.products[i].Category == oldName {
				s.products[i].Category = newName
			}
		}
		s.mu.Unlock()
		return nil
	}

	renamed := *record
	renamed.Name = newName
	if _, err := s.api.UpdateCategory(ctx, record.ID, renamed); err != nil {
		return s.handle(err)
	}
	return s.refetchCategories(ctx)
}

// DeleteCategory removes a category record. Deleting the sentinel is a
// no-op; deleting a legacy name only exists locally and is rejected.
func (s *Store) DeleteCategory(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == SentinelCategory {
		return nil
	}

	record := s.categoryRecordByName(name)
	if record == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "category has no server record")
	}

	if err := s.api.DeleteCategory(ctx, record.ID); err != nil {
		return s.handle(err)
	}
	return s.refetchCategories(ctx)
}

func (s *Store) refetchCategories(ctx context.Context) error {
	categories, err := s.api.ListCategories(ctx)
	if err != nil {
		return s.handle(err)
	}
	s.mu.Lock()
	s.categories = categories
	s.mu.Unlock()
	return nil
}

func (s *Store) categoryNameTaken(name string) bool {
	for _, existing := range s.CategoryNames() {
		if strings.EqualFold(existing, name) {
			return true
		}
	}
	return false
}

func (s *Store) categoryRecordByName(name string) *types.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.categories {
		if s.categories[i].Name == name {
			c := s.categories[i]
			return &c
		}
	}
	return nil
}
