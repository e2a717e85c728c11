package devserver

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/goustty/storefront/pkg/errors"
	"github.com/goustty/storefront/pkg/types"
)

const maxProductFormBytes = 32 << 20

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	var models []productModel
	if err := s.db.WithContext(r.Context()).Preload("Category").Order("id").Find(&models).Error; err != nil {
		writeError(w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products"))
		return
	}
	products := make([]types.Product, 0, len(models))
	for _, m := range models {
		products = append(products, m.toWire())
	}
	writeJSON(w, http.StatusOK, products)
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	model, err := s.productFromRequest(r, nil)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.db.WithContext(r.Context()).Create(model).Error; err != nil {
		writeError(w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product"))
		return
	}
	writeJSON(w, http.StatusCreated, model.toWire())
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	existing, err := s.findProduct(r)
	if err != nil {
		writeError(w, err)
		return
	}
	model, err := s.productFromRequest(r, existing)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.db.WithContext(r.Context()).Save(model).Error; err != nil {
		writeError(w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product"))
		return
	}
	writeJSON(w, http.StatusOK, model.toWire())
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	model, err := s.findProduct(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.db.WithContext(r.Context()).Delete(model).Error; err != nil {
		writeError(w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product"))
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) findProduct(r *http.Request) (*productModel, error) {
	id, err := pathID(r)
	if err != nil {
		return nil, err
	}
	var model productModel
	err = s.db.WithContext(r.Context()).First(&model, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return &model, nil
}

// productFromRequest decodes either a JSON body or a multipart form into a
// storage model. When base is non-nil the decoded fields overwrite it,
// keeping the primary key.
func (s *Server) productFromRequest(r *http.Request, base *productModel) (*productModel, error) {
	contentType := r.Header.Get("Content-Type")
	var wire types.Product
	var uploads struct {
		image   string
		gallery []string
	}

	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxProductFormBytes); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
		}
		var err error
		wire, err = productFromForm(r.MultipartForm)
		if err != nil {
			return nil, err
		}
		if files := r.MultipartForm.File["image"]; len(files) > 0 {
			uploads.image = mediaPath(files[0])
		}
		for _, file := range r.MultipartForm.File["images"] {
			uploads.gallery = append(uploads.gallery, mediaPath(file))
		}
	} else if err := decodeJSON(r, &wire); err != nil {
		return nil, err
	}

	if strings.TrimSpace(wire.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if wire.Price < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}

	model := base
	if model == nil {
		model = &productModel{}
	}
	model.Name = wire.Name
	model.Price = wire.Price
	model.OriginalPrice = wire.OriginalPrice
	model.IsNew = wire.IsNew
	model.InStock = wire.InStock
	model.Description = wire.Description
	model.Details = wire.Details
	model.Colors = wire.Colors
	model.Sizes = wire.Sizes
	model.AvailableSizes = wire.AvailableSizes

	if uploads.image != "" {
		model.Image = uploads.image
	} else if wire.Image != "" {
		model.Image = wire.Image
	}
	if len(uploads.gallery) > 0 {
		model.Images = uploads.gallery
	} else if len(wire.Images) > 0 {
		model.Images = wire.Images
	}

	if wire.CollectionID != nil {
		collectionID, err := strconv.ParseUint(*wire.CollectionID, 10, 64)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid collection id")
		}
		id := uint(collectionID)
		model.CollectionID = &id
	} else {
		model.CollectionID = nil
	}

	category, err := s.categoryByNameOrCreate(r, wire.Category)
	if err != nil {
		return nil, err
	}
	if category != nil {
		model.CategoryID = &category.ID
		model.Category = category
	} else {
		model.CategoryID = nil
		model.Category = nil
	}
	return model, nil
}

// productFromForm reconstructs the wire product from flat form values. List
// fields arrive JSON-encoded in a single value.
func productFromForm(form *multipart.Form) (types.Product, error) {
	value := func(name string) string {
		if vs := form.Value[name]; len(vs) > 0 {
			return vs[0]
		}
		return ""
	}

	var p types.Product
	p.Name = value("name")
	p.Category = value("category")
	p.Description = value("description")
	p.IsNew = value("isNew") == "true"
	p.InStock = value("inStock") == "true"

	if raw := value("price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return p, pkgerrors.New(pkgerrors.CodeValidation, "invalid price")
		}
		p.Price = price
	}
	if raw := value("originalPrice"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return p, pkgerrors.New(pkgerrors.CodeValidation, "invalid original price")
		}
		p.OriginalPrice = &price
	}
	if raw := value("collectionId"); raw != "" {
		p.CollectionID = &raw
	}

	lists := map[string]*[]string{
		"details":        &p.Details,
		"colors":         &p.Colors,
		"sizes":          &p.Sizes,
		"availableSizes": &p.AvailableSizes,
	}
	for name, dst := range lists {
		raw := value(name)
		if raw == "" {
			continue
		}
		if err := json.Unmarshal([]byte(raw), dst); err != nil {
			return p, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+name+" field")
		}
	}
	return p, nil
}

// mediaPath fakes media storage: uploads get a stable path without the bytes
// being kept anywhere.
func mediaPath(header *multipart.FileHeader) string {
	ext := filepath.Ext(header.Filename)
	return "/media/products/" + uuid.NewString() + ext
}

func (s *Server) categoryByNameOrCreate(r *http.Request, name string) (*categoryModel, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "all") {
		return nil, nil
	}
	var category categoryModel
	err := s.db.WithContext(r.Context()).Where("name = ?", name).First(&category).Error
	if err == nil {
		return &category, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	category = categoryModel{Name: name}
	if err := s.db.WithContext(r.Context()).Create(&category).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return &category, nil
}

func (s *Server) listCollections(w http.ResponseWriter, r *http.Request) {
	var models []collectionModel
	if err := s.db.WithContext(r.Context()).Order("id").Find(&models).Error; err != nil {
		writeError(w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list collections"))
		return
	}
	collections := make([]types.Collection, 0, len(models))
	for _, m := range models {
		collections = append(collections, m.toWire())
	}
	writeJSON(w, http.StatusOK, collections)
}

func (s *Server) createCollection(w http.ResponseWriter, r *http.Request) {
	var wire types.Collection
	if err := decodeJSON(r, &wire); err != nil {
		writeError(w, err)
		return
	}
	model, err := collectionFromWire(wire, nil)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.db.WithContext(r.Context()).Create(model).Error; err != nil {
		writeError(w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create collection"))
		return
	}
	writeJSON(w, http.StatusCreated, model.toWire())
}

func (s *Server) updateCollection(w http.ResponseWriter, r *http.Request) {
	existing, err := s.findCollection(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var wire types.Collection
	if err := decodeJSON(r, &wire); err != nil {
		writeError(w, err)
		return
	}
	model, err := collectionFromWire(wire, existing)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.db.WithContext(r.Context()).Save(model).Error; err != nil {
		writeError(w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update collection"))
		return
	}
	writeJSON(w, http.StatusOK, model.toWire())
}

func (s *Server) deleteCollection(w http.ResponseWriter, r *http.Request) {
	existing, err := s.findCollection(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.db.WithContext(r.Context()).Delete(existing).Error; err != nil {
		writeError(w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete collection"))
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) findCollection(r *http.Request) (*collectionModel, error) {
	id, err := pathID(r)
	if err != nil {
		return nil, err
	}
	var model collectionModel
	err = s.db.WithContext(r.Context()).First(&model, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "collection not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load collection")
	}
	return &model, nil
}

func collectionFromWire(wire types.Collection, base *collectionModel) (*collectionModel, error) {
	if strings.TrimSpace(wire.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "collection title is required")
	}
	size := wire.Size
	if size == "" {
		size = "medium"
	}
	if !size.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid collection size")
	}
	model := base
	if model == nil {
		model = &collectionModel{}
	}
	model.Title = wire.Title
	model.Subtitle = wire.Subtitle
	model.Image = wire.Image
	model.Category = wire.Category
	model.Size = size.String()
	return model, nil
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	var models []categoryModel
	if err := s.db.WithContext(r.Context()).Order("id").Find(&models).Error; err != nil {
		writeError(w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories"))
		return
	}
	categories := make([]types.Category, 0, len(models))
	for _, m := range models {
		categories = append(categories, m.toWire())
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var wire types.Category
	if err := decodeJSON(r, &wire); err != nil {
		writeError(w, err)
		return
	}
	name := strings.TrimSpace(wire.Name)
	if name == "" {
		writeError(w, pkgerrors.New(pkgerrors.CodeValidation, "category name is required"))
		return
	}
	if taken, err := s.categoryNameTaken(r, name, 0); err != nil {
		writeError(w, err)
		return
	} else if taken {
		writeError(w, pkgerrors.New(pkgerrors.CodeConflict, "category with this name already exists"))
		return
	}
	model := categoryModel{Name: name, Image: wire.Image, Description: wire.Description}
	if err := s.db.WithContext(r.Context()).Create(&model).Error; err != nil {
		writeError(w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category"))
		return
	}
	writeJSON(w, http.StatusCreated, model.toWire())
}

func (s *Server) updateCategory(w http.ResponseWriter, r *http.Request) {
	existing, err := s.findCategory(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var wire types.Category
	if err := decodeJSON(r, &wire); err != nil {
		writeError(w, err)
		return
	}
	name := strings.TrimSpace(wire.Name)
	if name == "" {
		writeError(w, pkgerrors.New(pkgerrors.CodeValidation, "category name is required"))
		return
	}
	if taken, err := s.categoryNameTaken(r, name, existing.ID); err != nil {
		writeError(w, err)
		return
	} else if taken {
		writeError(w, pkgerrors.New(pkgerrors.CodeConflict, "category with this name already exists"))
		return
	}

	// Renames cascade to products via the foreign key, nothing to rewrite.
	existing.Name = name
	existing.Image = wire.Image
	existing.Description = wire.Description
	if err := s.db.WithContext(r.Context()).Save(existing).Error; err != nil {
		writeError(w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category"))
		return
	}
	writeJSON(w, http.StatusOK, existing.toWire())
}

func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	existing, err := s.findCategory(r)
	if err != nil {
		writeError(w, err)
		return
	}
	// Products fall back to uncategorized rather than being deleted.
	err = s.db.WithContext(r.Context()).
		Model(&productModel{}).
		Where("category_id = ?", existing.ID).
		Update("category_id", nil).Error
	if err != nil {
		writeError(w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "detach products"))
		return
	}
	if err := s.db.WithContext(r.Context()).Delete(existing).Error; err != nil {
		writeError(w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category"))
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) findCategory(r *http.Request) (*categoryModel, error) {
	id, err := pathID(r)
	if err != nil {
		return nil, err
	}
	var model categoryModel
	err = s.db.WithContext(r.Context()).First(&model, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return &model, nil
}

func (s *Server) categoryNameTaken(r *http.Request, name string, excludeID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(r.Context()).
		Model(&categoryModel{}).
		Where("LOWER(name) = LOWER(?) AND id != ?", name, excludeID).
		Count(&count).Error
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check category name")
	}
	return count > 0, nil
}

func pathID(r *http.Request) (uint, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeNotFound, "not found")
	}
	return uint(id), nil
}
