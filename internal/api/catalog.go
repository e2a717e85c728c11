package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/goustty/storefront/internal/media"
	pkgerrors "github.com/goustty/storefront/pkg/errors"
	"github.com/goustty/storefront/pkg/types"
)

// ProductInput carries a product write plus any images to attach. With no
// images the write goes out as JSON; with images it becomes multipart
// form-data, scalar fields as form values and list fields JSON-encoded.
type ProductInput struct {
	Product types.Product
	Image   *media.Upload
	Gallery []media.Upload
}

// ListProducts fetches the full catalog.
func (c *Client) ListProducts(ctx context.Context) ([]types.Product, error) {
	var products []types.Product
	if err := c.getJSON(ctx, "/products/", &products); err != nil {
		return nil, err
	}
	return products, nil
}

// CreateProduct adds a product and returns the server's copy.
func (c *Client) CreateProduct(ctx context.Context, input ProductInput) (*types.Product, error) {
	return c.writeProduct(ctx, http.MethodPost, "/products/", input)
}

// UpdateProduct replaces the product with the given id.
func (c *Client) UpdateProduct(ctx context.Context, id string, input ProductInput) (*types.Product, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return c.writeProduct(ctx, http.MethodPut, "/products/"+id+"/", input)
}

// DeleteProduct removes the product with the given id.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return c.delete(ctx, "/products/"+id+"/")
}

func (c *Client) writeProduct(ctx context.Context, method, path string, input ProductInput) (*types.Product, error) {
	var created types.Product

	if input.Image == nil && len(input.Gallery) == 0 {
		if err := c.doJSON(ctx, method, path, input.Product, &created); err != nil {
			return nil, err
		}
		return &created, nil
	}

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	if err := writeProductFields(w, input); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "close multipart writer")
	}

	if err := c.doMultipart(ctx, method, path, w.FormDataContentType(), body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func writeProductFields(w *multipart.Writer, input ProductInput) error {
	p := input.Product

	fields := map[string]string{
		"name":        p.Name,
		"price":       strconv.FormatFloat(p.Price, 'f', -1, 64),
		"category":    p.Category,
		"description": p.Description,
		"isNew":       strconv.FormatBool(p.IsNew),
		"inStock":     strconv.FormatBool(p.InStock),
	}
	if p.OriginalPrice != nil {
		fields["originalPrice"] = strconv.FormatFloat(*p.OriginalPrice, 'f', -1, 64)
	}
	if p.CollectionID != nil {
		fields["collectionId"] = *p.CollectionID
	}

	lists := map[string][]string{
		"details":        p.Details,
		"colors":         p.Colors,
		"sizes":          p.Sizes,
		"availableSizes": p.AvailableSizes,
	}
	for name, values := range lists {
		if len(values) == 0 {
			continue
		}
		encoded, err := json.Marshal(values)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("encode %s field", name))
		}
		fields[name] = string(encoded)
	}

	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := w.WriteField(name, value); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("write %s field", name))
		}
	}

	if input.Image != nil {
		if err := media.WriteFile(w, "image", *input.Image); err != nil {
			return err
		}
	}
	for _, upload := range input.Gallery {
		if err := media.WriteFile(w, "images", upload); err != nil {
			return err
		}
	}
	return nil
}

// ListCollections fetches all merchandising collections.
func (c *Client) ListCollections(ctx context.Context) ([]types.Collection, error) {
	var collections []types.Collection
	if err := c.getJSON(ctx, "/collections/", &collections); err != nil {
		return nil, err
	}
	return collections, nil
}

// CreateCollection adds a collection and returns the server's copy.
func (c *Client) CreateCollection(ctx context.Context, collection types.Collection) (*types.Collection, error) {
	var created types.Collection
	if err := c.postJSON(ctx, "/collections/", collection, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateCollection replaces the collection with the given id.
func (c *Client) UpdateCollection(ctx context.Context, id string, collection types.Collection) (*types.Collection, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "collection id is required")
	}
	var updated types.Collection
	if err := c.putJSON(ctx, "/collections/"+id+"/", collection, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCollection removes the collection with the given id.
func (c *Client) DeleteCollection(ctx context.Context, id string) error {
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "collection id is required")
	}
	return c.delete(ctx, "/collections/"+id+"/")
}

// ListCategories fetches the explicit category records.
func (c *Client) ListCategories(ctx context.Context) ([]types.Category, error) {
	var categories []types.Category
	if err := c.getJSON(ctx, "/categories/", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory adds a category record and returns the server's copy.
func (c *Client) CreateCategory(ctx context.Context, category types.Category) (*types.Category, error) {
	var created types.Category
	if err := c.postJSON(ctx, "/categories/", category, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateCategory replaces the category with the given id.
func (c *Client) UpdateCategory(ctx context.Context, id string, category types.Category) (*types.Category, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id is required")
	}
	var updated types.Category
	if err := c.putJSON(ctx, "/categories/"+id+"/", category, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCategory removes the category with the given id.
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "category id is required")
	}
	return c.delete(ctx, "/categories/"+id+"/")
}
