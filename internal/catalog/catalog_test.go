package catalog

import (
	"context"
	"io"
	"testing"

	"github.com/goustty/storefront/internal/api"
	"github.com/goustty/storefront/pkg/enums"
	pkgerrors "github.com/goustty/storefront/pkg/errors"
	"github.com/goustty/storefront/pkg/logger"
	"github.com/goustty/storefront/pkg/types"
)

type stubAPI struct {
	products    []types.Product
	collections []types.Collection
	categories  []types.Category
	orders      []types.Order
	users       []types.User
	settings    *types.StoreSettings

	productsErr error
	settingsErr error

	categoryListCalls   int
	collectionListCalls int
	updatedCategories   []types.Category
	deletedCategoryIDs  []string
	patchedOrders       []types.OrderStatusPatch
}

func (s *stubAPI) ListProducts(ctx context.Context) ([]types.Product, error) {
	return s.products, s.productsErr
}

func (s *stubAPI) ListCollections(ctx context.Context) ([]types.Collection, error) {
	s.collectionListCalls++
	return s.collections, nil
}

func (s *stubAPI) ListCategories(ctx context.Context) ([]types.Category, error) {
	s.categoryListCalls++
	return s.categories, nil
}

func (s *stubAPI) ListOrders(ctx context.Context) ([]types.Order, error) {
	return s.orders, nil
}

func (s *stubAPI) GetSettings(ctx context.Context) (*types.StoreSettings, error) {
	if s.settingsErr != nil {
		return nil, s.settingsErr
	}
	return s.settings, nil
}

func (s *stubAPI) ListUsers(ctx context.Context) ([]types.User, error) {
	return s.users, nil
}

func (s *stubAPI) CreateProduct(ctx context.Context, input api.ProductInput) (*types.Product, error) {
	created := input.Product
	created.ID = "new-id"
	s.products = append(s.products, created)
	return &created, nil
}

func (s *stubAPI) UpdateProduct(ctx context.Context, id string, input api.ProductInput) (*types.Product, error) {
	updated := input.Product
	updated.ID = id
	return &updated, nil
}

func (s *stubAPI) DeleteProduct(ctx context.Context, id string) error { return nil }

func (s *stubAPI) CreateCollection(ctx context.Context, collection types.Collection) (*types.Collection, error) {
	collection.ID = "col-new"
	s.collections = append(s.collections, collection)
	return &collection, nil
}

func (s *stubAPI) UpdateCollection(ctx context.Context, id string, collection types.Collection) (*types.Collection, error) {
	collection.ID = id
	return &collection, nil
}

func (s *stubAPI) DeleteCollection(ctx context.Context, id string) error {
	kept := s.collections[:0]
	for _, c := range s.collections {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.collections = kept
	return nil
}

func (s *stubAPI) CreateCategory(ctx context.Context, category types.Category) (*types.Category, error) {
	category.ID = "cat-new"
	s.categories = append(s.categories, category)
	return &category, nil
}

func (s *stubAPI) UpdateCategory(ctx context.Context, id string, category types.Category) (*types.Category, error) {
	s.updatedCategories = append(s.updatedCategories, category)
	for i := range s.categories {
		if s.categories[i].ID == id {
			s.categories[i].Name = category.Name
		}
	}
	category.ID = id
	return &category, nil
}

func (s *stubAPI) DeleteCategory(ctx context.Context, id string) error {
	s.deletedCategoryIDs = append(s.deletedCategoryIDs, id)
	kept := s.categories[:0]
	for _, c := range s.categories {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.categories = kept
	return nil
}

func (s *stubAPI) PatchOrder(ctx context.Context, id string, patch types.OrderStatusPatch) (*types.Order, error) {
	s.patchedOrders = append(s.patchedOrders, patch)
	for i := range s.orders {
		if s.orders[i].ID == id {
			updated := s.orders[i]
			if patch.Status != nil {
				updated.Status = *patch.Status
			}
			if patch.PaymentVerified != nil {
				updated.PaymentVerified = *patch.PaymentVerified
			}
			return &updated, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (s *stubAPI) UpdateSettings(ctx context.Context, settings types.StoreSettings) (*types.StoreSettings, error) {
	s.settings = &settings
	return &settings, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "catalog-test", Output: io.Discard})
}

func seededAPI() *stubAPI {
	return &stubAPI{
		products: []types.Product{
			{ID: "1", Name: "Oversized Hoodie", Price: 145000, Category: "Hoodies"},
			{ID: "2", Name: "Vintage Tee", Price: 80000, Category: "Tees"},
			{ID: "3", Name: "Legacy Cap", Price: 60000, Category: "Caps"},
		},
		collections: []types.Collection{
			{ID: "c1", Title: "Winter Drop", Size: enums.CollectionSizeLarge},
		},
		categories: []types.Category{
			{ID: "cat1", Name: "Hoodies"},
			{ID: "cat2", Name: "Tees"},
		},
		orders: []types.Order{
			{ID: "57", Status: enums.OrderStatusProcessing, Total: 145000},
		},
		settings: &types.StoreSettings{
			StoreName:             "GOUSTTY",
			Currency:              enums.CurrencyCOP,
			ShippingFlatRate:      15000,
			FreeShippingThreshold: 200000,
		},
	}
}

func newLoadedStore(t *testing.T, stub *stubAPI, opts ...Option) *Store {
	t.Helper()
	store, err := NewStore(stub, testLogger(), opts...)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return store
}

func TestLoadPopulatesAllResources(t *testing.T) {
	store := newLoadedStore(t, seededAPI())

	if got := len(store.Products()); got != 3 {
		t.Fatalf("products = %d, want 3", got)
	}
	if got := len(store.Collections()); got != 1 {
		t.Fatalf("collections = %d, want 1", got)
	}
	if got := len(store.Orders()); got != 1 {
		t.Fatalf("orders = %d, want 1", got)
	}
	if store.Settings().StoreName != "GOUSTTY" {
		t.Fatalf("settings not loaded: %+v", store.Settings())
	}
}

func TestLoadPartialFailureKeepsOtherResources(t *testing.T) {
	stub := seededAPI()
	stub.settingsErr = pkgerrors.New(pkgerrors.CodeNetwork, "connection refused")

	store, err := NewStore(stub, testLogger())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	loadErr := store.Load(context.Background())
	if loadErr == nil {
		t.Fatal("expected combined error reporting the settings failure")
	}
	if got := len(store.Products()); got != 3 {
		t.Fatalf("products must load despite settings failure, got %d", got)
	}
	if store.Settings().ShippingFlatRate != types.DefaultSettings().ShippingFlatRate {
		t.Fatalf("settings should fall back to defaults: %+v", store.Settings())
	}
}

func TestCategoryNamesUnion(t *testing.T) {
	store := newLoadedStore(t, seededAPI())

	names := store.CategoryNames()
	want := []string{"All", "Hoodies", "Tees", "Caps"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i, name := range want {
		if names[i] != name {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}
}

func TestRenameCategorySameNameIsNoOp(t *testing.T) {
	stub := seededAPI()
	store := newLoadedStore(t, stub)
	listCallsBefore := stub.categoryListCalls

	if err := store.RenameCategory(context.Background(), "Hoodies", "Hoodies"); err != nil {
		t.Fatalf("same-name rename must be a no-op: %v", err)
	}
	if len(stub.updatedCategories) != 0 {
		t.Fatal("no server call expected for a same-name rename")
	}
	if stub.categoryListCalls != listCallsBefore {
		t.Fatal("no re-fetch expected for a same-name rename")
	}
}

func TestRenameCategoryDuplicateRejected(t *testing.T) {
	store := newLoadedStore(t, seededAPI())

	err := store.RenameCategory(context.Background(), "Hoodies", "Tees")
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	names := store.CategoryNames()
	if len(names) != 4 {
		t.Fatalf("state must not change on rejection: %v", names)
	}
}

func TestRenameCategoryServerRecord(t *testing.T) {
	stub := seededAPI()
	store := newLoadedStore(t, stub)

	if err := store.RenameCategory(context.Background(), "Hoodies", "Outerwear"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if len(stub.updatedCategories) != 1 || stub.updatedCategories[0].Name != "Outerwear" {
		t.Fatalf("server update missing: %+v", stub.updatedCategories)
	}

	found := false
	for _, c := range store.Categories() {
		if c.Name == "Outerwear" {
			found = true
		}
	}
	if !found {
		t.Fatalf("re-fetched list missing new name: %+v", store.Categories())
	}
}

func TestRenameLegacyCategoryLocalOnly(t *testing.T) {
	stub := seededAPI()
	store := newLoadedStore(t, stub)

	// "Caps" exists only on a product, not as a server record.
	if err := store.RenameCategory(context.Background(), "Caps", "Headwear"); err != nil {
		t.Fatalf("legacy rename: %v", err)
	}
	if len(stub.updatedCategories) != 0 {
		t.Fatal("legacy rename must not call the server")
	}

	for _, p := range store.Products() {
		if p.ID == "3" && p.Category != "Headwear" {
			t.Fatalf("product category not renamed locally: %+v", p)
		}
	}
}

func TestDeleteSentinelCategoryIsNoOp(t *testing.T) {
	stub := seededAPI()
	store := newLoadedStore(t, stub)

	if err := store.DeleteCategory(context.Background(), "All"); err != nil {
		t.Fatalf("deleting All must be a no-op: %v", err)
	}
	if len(stub.deletedCategoryIDs) != 0 {
		t.Fatal("no server delete expected for the sentinel")
	}
	if got := store.CategoryNames(); len(got) != 4 {
		t.Fatalf("category list must be unchanged: %v", got)
	}
}

func TestDeleteCategoryRefetches(t *testing.T) {
	stub := seededAPI()
	store := newLoadedStore(t, stub)

	if err := store.DeleteCategory(context.Background(), "Tees"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(stub.deletedCategoryIDs) != 1 || stub.deletedCategoryIDs[0] != "cat2" {
		t.Fatalf("server delete missing: %v", stub.deletedCategoryIDs)
	}
	for _, c := range store.Categories() {
		if c.Name == "Tees" {
			t.Fatal("deleted category still present after re-fetch")
		}
	}
}

func TestAddCategoryDuplicateRejected(t *testing.T) {
	store := newLoadedStore(t, seededAPI())

	err := store.AddCategory(context.Background(), types.Category{Name: "Hoodies"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestProductMutationsAdoptServerCopy(t *testing.T) {
	store := newLoadedStore(t, seededAPI())

	if err := store.AddProduct(context.Background(), api.ProductInput{
		Product: types.Product{Name: "Track Jacket", Price: 210000, Category: "Outerwear"},
	}); err != nil {
		t.Fatalf("add product: %v", err)
	}

	var added *types.Product
	for _, p := range store.Products() {
		if p.Name == "Track Jacket" {
			added = &p
			break
		}
	}
	if added == nil || added.ID != "new-id" {
		t.Fatalf("server-assigned id not adopted: %+v", added)
	}

	if err := store.UpdateProduct(context.Background(), "1", api.ProductInput{
		Product: types.Product{Name: "Oversized Hoodie v2", Price: 150000},
	}); err != nil {
		t.Fatalf("update product: %v", err)
	}
	updated, err := store.ProductByID("1")
	if err != nil {
		t.Fatalf("product lookup: %v", err)
	}
	if updated.Name != "Oversized Hoodie v2" {
		t.Fatalf("local copy not reconciled: %+v", updated)
	}

	if err := store.DeleteProduct(context.Background(), "2"); err != nil {
		t.Fatalf("delete product: %v", err)
	}
	if _, err := store.ProductByID("2"); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("deleted product still present: %v", err)
	}
}

func TestCollectionMutationsRefetch(t *testing.T) {
	stub := seededAPI()
	store := newLoadedStore(t, stub)
	listCallsBefore := stub.collectionListCalls

	if err := store.AddCollection(context.Background(), types.Collection{Title: "Summer Drop", Size: enums.CollectionSizeSmall}); err != nil {
		t.Fatalf("add collection: %v", err)
	}
	if stub.collectionListCalls != listCallsBefore+1 {
		t.Fatal("collection mutation must re-fetch the list")
	}
	if got := len(store.Collections()); got != 2 {
		t.Fatalf("collections = %d, want 2", got)
	}

	if err := store.DeleteCollection(context.Background(), "c1"); err != nil {
		t.Fatalf("delete collection: %v", err)
	}
	if _, err := store.CollectionByID("c1"); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("deleted collection still present: %v", err)
	}
}

func TestOrderPatchesReconcile(t *testing.T) {
	store := newLoadedStore(t, seededAPI())

	if err := store.UpdateOrderStatus(context.Background(), "57", enums.OrderStatusShipped); err != nil {
		t.Fatalf("update status: %v", err)
	}
	order, err := store.OrderByID("57")
	if err != nil {
		t.Fatalf("order lookup: %v", err)
	}
	if order.Status != enums.OrderStatusShipped {
		t.Fatalf("status not reconciled: %+v", order)
	}

	if err := store.SetPaymentVerified(context.Background(), "57", true); err != nil {
		t.Fatalf("set payment verified: %v", err)
	}
	order, _ = store.OrderByID("57")
	if !order.PaymentVerified {
		t.Fatalf("payment flag not reconciled: %+v", order)
	}

	if err := store.UpdateOrderStatus(context.Background(), "57", "Returned"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("invalid status must be rejected, got %v", err)
	}
}

func TestUpdateSettingsAdoptsServerCopy(t *testing.T) {
	store := newLoadedStore(t, seededAPI())

	next := store.Settings()
	next.MaintenanceMode = true
	next.ShippingFlatRate = 18000
	if err := store.UpdateSettings(context.Background(), next); err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if !store.MaintenanceMode() {
		t.Fatal("maintenance mode not adopted")
	}
	if store.Settings().ShippingFlatRate != 18000 {
		t.Fatalf("settings not adopted: %+v", store.Settings())
	}
}

func TestCustomersLocalRemoval(t *testing.T) {
	stub := seededAPI()
	stub.users = []types.User{
		{ID: 1, Username: "laura"},
		{ID: 2, Username: "andres"},
	}
	store := newLoadedStore(t, stub)

	if err := store.LoadUsers(context.Background()); err != nil {
		t.Fatalf("load users: %v", err)
	}
	if got := len(store.Users()); got != 2 {
		t.Fatalf("users = %d, want 2", got)
	}

	store.RemoveUserLocal(1)
	if got := len(store.Users()); got != 1 {
		t.Fatalf("users after local removal = %d, want 1", got)
	}

	// A reload brings the server truth back.
	if err := store.LoadUsers(context.Background()); err != nil {
		t.Fatalf("reload users: %v", err)
	}
	if got := len(store.Users()); got != 2 {
		t.Fatalf("users after reload = %d, want 2", got)
	}
}

func TestErrorHandlerSeesAPIErrors(t *testing.T) {
	stub := seededAPI()
	stub.productsErr = pkgerrors.New(pkgerrors.CodeUnauthorized, "token expired")

	var seen []error
	store, err := NewStore(stub, testLogger(), WithErrorHandler(func(err error) error {
		seen = append(seen, err)
		return err
	}))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	_ = store.Load(context.Background())
	if len(seen) != 1 || !pkgerrors.IsCode(seen[0], pkgerrors.CodeUnauthorized) {
		t.Fatalf("handler did not see the unauthorized error: %v", seen)
	}
}
