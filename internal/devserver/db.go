package devserver

import (
	"io"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/goustty/storefront/pkg/config"
	pkgerrors "github.com/goustty/storefront/pkg/errors"
	"github.com/goustty/storefront/pkg/security"
	"github.com/goustty/storefront/pkg/types"
)

// OpenDB opens the sqlite database for the development server. Query logging
// stays off; the request middleware already logs at the HTTP layer.
func OpenDB(cfg config.DevserverConfig) (*gorm.DB, error) {
	if cfg.DSN == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "devserver DSN is required")
	}

	silent := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	db, err := gorm.Open(sqlite.Open(cfg.DSN), &gorm.Config{
		Logger:                 silent,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open sqlite database")
	}

	if cfg.AutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}
	if cfg.Seed {
		if err := Seed(db, cfg); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// Migrate creates or updates the schema for every storage model.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&categoryModel{},
		&collectionModel{},
		&productModel{},
		&orderModel{},
		&orderItemModel{},
		&settingsModel{},
		&userModel{},
	)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "migrate schema")
	}
	return nil
}

// Seed loads a small demo catalog plus a staff account so the admin surface
// is usable immediately. It is idempotent: a non-empty products table means
// the seed already ran.
func Seed(db *gorm.DB, cfg config.DevserverConfig) error {
	var count int64
	if err := db.Model(&productModel{}).Count(&count).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}
	if count > 0 {
		return nil
	}

	defaults := types.DefaultSettings()
	settings := settingsModel{
		StoreName:             defaults.StoreName,
		SupportEmail:          defaults.SupportEmail,
		Currency:              defaults.Currency.String(),
		ShippingFlatRate:      defaults.ShippingFlatRate,
		FreeShippingThreshold: defaults.FreeShippingThreshold,
	}
	if err := db.Create(&settings).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed settings")
	}

	categories := []categoryModel{
		{Name: "Hoodies", Description: "Heavyweight fleece"},
		{Name: "Tees", Description: "Oversized cotton"},
	}
	if err := db.Create(&categories).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed categories")
	}

	collection := collectionModel{
		Title:    "Bogota Nights",
		Subtitle: "Limited winter drop",
		Size:     "large",
	}
	if err := db.Create(&collection).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed collections")
	}

	salePrice := 180000.0
	products := []productModel{
		{
			Name:        "Distrito Hoodie",
			Price:       150000,
			CategoryID:  &categories[0].ID,
			IsNew:       true,
			InStock:     true,
			Description: "Boxy fit, brushed interior.",
			Colors:      []string{"black", "cream"},
			Sizes:       []string{"S", "M", "L", "XL"},
		},
		{
			Name:           "Candelaria Tee",
			Price:          90000,
			OriginalPrice:  &salePrice,
			CategoryID:     &categories[1].ID,
			CollectionID:   &collection.ID,
			InStock:        true,
			Description:    "Screen printed front and back.",
			Colors:         []string{"white"},
			Sizes:          []string{"S", "M", "L"},
			AvailableSizes: []string{"M", "L"},
		},
	}
	if err := db.Create(&products).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed products")
	}

	hash, err := security.HashPassword("admin-goustty", cfg.Password)
	if err != nil {
		return err
	}
	admin := userModel{
		Username:     "admin",
		Email:        "admin@goustty.com",
		PasswordHash: hash,
		FirstName:    "Store",
		LastName:     "Admin",
		IsStaff:      true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed admin user")
	}
	return nil
}
