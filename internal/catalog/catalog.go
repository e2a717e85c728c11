// Package catalog is the shop store: in-memory copies of products,
// collections, categories, orders and settings, loaded once at startup and
// mutated only through round-trips to the remote service. The server is the
// source of truth; local state updates from server responses, with a full
// re-fetch after collection and category mutations.
package catalog

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/multierr"

	"github.com/goustty/storefront/internal/api"
	"github.com/goustty/storefront/pkg/logger"
	"github.com/goustty/storefront/pkg/types"
)

// SentinelCategory is the pseudo-category covering the whole catalog. It has
// no server record and survives every mutation.
const SentinelCategory = "All"

// API is the slice of the REST client the catalog store needs.
type API interface {
	ListProducts(ctx context.Context) ([]types.Product, error)
	ListCollections(ctx context.Context) ([]types.Collection, error)
	ListCategories(ctx context.Context) ([]types.Category, error)
	ListOrders(ctx context.Context) ([]types.Order, error)
	GetSettings(ctx context.Context) (*types.StoreSettings, error)
	ListUsers(ctx context.Context) ([]types.User, error)

	CreateProduct(ctx context.Context, input api.ProductInput) (*types.Product, error)
	UpdateProduct(ctx context.Context, id string, input api.ProductInput) (*types.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	CreateCollection(ctx context.Context, collection types.Collection) (*types.Collection, error)
	UpdateCollection(ctx context.Context, id string, collection types.Collection) (*types.Collection, error)
	DeleteCollection(ctx context.Context, id string) error

	CreateCategory(ctx context.Context, category types.Category) (*types.Category, error)
	UpdateCategory(ctx context.Context, id string, category types.Category) (*types.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	PatchOrder(ctx context.Context, id string, patch types.OrderStatusPatch) (*types.Order, error)
	UpdateSettings(ctx context.Context, settings types.StoreSettings) (*types.StoreSettings, error)
}

// Store holds the reconciled catalog state.
type Store struct {
	mu  sync.RWMutex
	api API
	log *logger.Logger

	// Called with every API error before it propagates, so the session
	// layer can react to revoked tokens.
	onError func(error) error

	products    []types.Product
	collections []types.Collection
	categories  []types.Category
	orders      []types.Order
	users       []types.User
	settings    types.StoreSettings
}

// Option configures store behavior.
type Option func(*Store)

// WithErrorHandler routes every API error through the given handler; the
// session store's Handle slots in here for forced logout on 401.
func WithErrorHandler(handler func(error) error) Option {
	return func(s *Store) {
		s.onError = handler
	}
}

// NewStore builds the catalog store.
func NewStore(api API, log *logger.Logger, opts ...Option) (*Store, error) {
	if api == nil {
		return nil, errors.New("catalog api is required")
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}
	s := &Store{api: api, log: log, settings: types.DefaultSettings()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Load fetches every resource concurrently. Each one merges independently:
// a failed fetch leaves that slice at its default and is reported in the
// combined error, but never blocks the others.
func (s *Store) Load(ctx context.Context) error {
	var (
		wg    sync.WaitGroup
		errMu sync.Mutex
		errs  error
	)

	record := func(resource string, err error) {
		err = s.handle(err)
		s.log.Error(s.log.WithResource(ctx, resource), "startup fetch failed", err)
		errMu.Lock()
		errs = multierr.Append(errs, err)
		errMu.Unlock()
	}

	wg.Add(5)
	go func() {
		defer wg.Done()
		products, err := s.api.ListProducts(ctx)
		if err != nil {
			record("products", err)
			return
		}
		s.mu.Lock()
		s.products = products
		s.mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		collections, err := s.api.ListCollections(ctx)
		if err != nil {
			record("collections", err)
			return
		}
		s.mu.Lock()
		s.collections = collections
		s.mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		categories, err := s.api.ListCategories(ctx)
		if err != nil {
			record("categories", err)
			return
		}
		s.mu.Lock()
		s.categories = categories
		s.mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		orders, err := s.api.ListOrders(ctx)
		if err != nil {
			record("orders", err)
			return
		}
		s.mu.Lock()
		s.orders = orders
		s.mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		settings, err := s.api.GetSettings(ctx)
		if err != nil {
			record("settings", err)
			return
		}
		s.mu.Lock()
		s.settings = *settings
		s.mu.Unlock()
	}()
	wg.Wait()

	return errs
}

func (s *Store) handle(err error) error {
	if err == nil {
		return nil
	}
	if s.onError != nil {
		return s.onError(err)
	}
	return err
}

// Products returns a copy of the product list.
func (s *Store) Products() []types.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.Product(nil), s.products...)
}

// Collections returns a copy of the collection list.
func (s *Store) Collections() []types.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.Collection(nil), s.collections...)
}

// Orders returns a copy of the order list.
func (s *Store) Orders() []types.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.Order(nil), s.orders...)
}

// Users returns a copy of the loaded customer list.
func (s *Store) Users() []types.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.User(nil), s.users...)
}

// Settings returns the current store settings.
func (s *Store) Settings() types.StoreSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// MaintenanceMode reports the settings flag gating the public storefront.
func (s *Store) MaintenanceMode() bool {
	return s.Settings().MaintenanceMode
}
