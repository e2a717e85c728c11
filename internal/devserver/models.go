package devserver

import (
	"strconv"
	"time"

	"github.com/goustty/storefront/pkg/enums"
	"github.com/goustty/storefront/pkg/types"
)

// Storage models. String-slice and struct fields ride in JSON columns; the
// wire ids are the numeric primary keys rendered as strings, matching the
// service this stands in for.

type productModel struct {
	ID             uint    `gorm:"primaryKey"`
	Name           string  `gorm:"not null"`
	Price          float64 `gorm:"not null"`
	OriginalPrice  *float64
	CategoryID     *uint
	Category       *categoryModel
	CollectionID   *uint
	Image          string
	Images         []string `gorm:"serializer:json"`
	IsNew          bool     `gorm:"not null;default:false"`
	InStock        bool     `gorm:"not null;default:true"`
	Description    string
	Details        []string  `gorm:"serializer:json"`
	Colors         []string  `gorm:"serializer:json"`
	Sizes          []string  `gorm:"serializer:json"`
	AvailableSizes []string  `gorm:"serializer:json"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (productModel) TableName() string { return "products" }

type categoryModel struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex;not null"`
	Image       string
	Description string
}

func (categoryModel) TableName() string { return "categories" }

type collectionModel struct {
	ID       uint   `gorm:"primaryKey"`
	Title    string `gorm:"not null"`
	Subtitle string
	Image    string
	Category string
	Size     string `gorm:"not null;default:medium"`
}

func (collectionModel) TableName() string { return "collections" }

type orderModel struct {
	ID              uint      `gorm:"primaryKey"`
	DraftCode       string    `gorm:"index"`
	Date            time.Time `gorm:"autoCreateTime"`
	Status          string    `gorm:"not null;default:Processing"`
	Total           float64   `gorm:"not null"`
	CustomerName    string
	CustomerEmail   string                 `gorm:"index"`
	ShippingDetails *types.ShippingDetails `gorm:"serializer:json"`
	PaymentVerified bool                   `gorm:"not null;default:false"`
	Items           []orderItemModel       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (orderModel) TableName() string { return "orders" }

type orderItemModel struct {
	ID        uint `gorm:"primaryKey"`
	OrderID   uint `gorm:"index;not null"`
	ProductID string
	Name      string `gorm:"not null"`
	Image     string
	Price     float64 `gorm:"not null"`
	Quantity  int     `gorm:"not null"`
	Size      string
	Color     string
}

func (orderItemModel) TableName() string { return "order_items" }

type settingsModel struct {
	ID                    uint   `gorm:"primaryKey"`
	StoreName             string `gorm:"not null"`
	SupportEmail          string
	Currency              string `gorm:"not null;default:COP"`
	ShippingFlatRate      float64
	FreeShippingThreshold float64
	MaintenanceMode       bool `gorm:"not null;default:false"`
	InstagramURL          string
	TikTokURL             string
}

func (settingsModel) TableName() string { return "store_settings" }

type userModel struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	FirstName    string
	LastName     string
	IsStaff      bool `gorm:"not null;default:false"`
	Phone        string
	Address      string
	City         string
	PostalCode   string
	DateJoined   time.Time `gorm:"autoCreateTime"`
}

func (userModel) TableName() string { return "users" }

func wireID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func (m productModel) toWire() types.Product {
	p := types.Product{
		ID:             wireID(m.ID),
		Name:           m.Name,
		Price:          m.Price,
		OriginalPrice:  m.OriginalPrice,
		Image:          m.Image,
		Images:         m.Images,
		IsNew:          m.IsNew,
		InStock:        m.InStock,
		Description:    m.Description,
		Details:        m.Details,
		Colors:         m.Colors,
		Sizes:          m.Sizes,
		AvailableSizes: m.AvailableSizes,
	}
	if m.Category != nil {
		p.Category = m.Category.Name
	}
	if m.CollectionID != nil {
		id := wireID(*m.CollectionID)
		p.CollectionID = &id
	}
	return p
}

func (m categoryModel) toWire() types.Category {
	return types.Category{
		ID:          wireID(m.ID),
		Name:        m.Name,
		Image:       m.Image,
		Description: m.Description,
	}
}

func (m collectionModel) toWire() types.Collection {
	return types.Collection{
		ID:       wireID(m.ID),
		Title:    m.Title,
		Subtitle: m.Subtitle,
		Image:    m.Image,
		Category: m.Category,
		Size:     enums.CollectionSize(m.Size),
	}
}

func (m orderModel) toWire() types.Order {
	items := make([]types.OrderItem, 0, len(m.Items))
	for _, item := range m.Items {
		items = append(items, types.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Size:      item.Size,
			Color:     item.Color,
		})
	}
	return types.Order{
		ID:              wireID(m.ID),
		Date:            m.Date,
		Status:          enums.OrderStatus(m.Status),
		Total:           m.Total,
		Items:           items,
		CustomerName:    m.CustomerName,
		CustomerEmail:   m.CustomerEmail,
		ShippingDetails: m.ShippingDetails,
		PaymentVerified: m.PaymentVerified,
	}
}

func (m settingsModel) toWire() types.StoreSettings {
	return types.StoreSettings{
		StoreName:             m.StoreName,
		SupportEmail:          m.SupportEmail,
		Currency:              enums.Currency(m.Currency),
		ShippingFlatRate:      m.ShippingFlatRate,
		FreeShippingThreshold: m.FreeShippingThreshold,
		MaintenanceMode:       m.MaintenanceMode,
		SocialLinks: types.SocialLinks{
			Instagram: m.InstagramURL,
			TikTok:    m.TikTokURL,
		},
	}
}

func (m userModel) toWire() types.User {
	user := types.User{
		ID:         int64(m.ID),
		Username:   m.Username,
		Email:      m.Email,
		FirstName:  m.FirstName,
		LastName:   m.LastName,
		IsStaff:    m.IsStaff,
		DateJoined: m.DateJoined.Format(time.RFC3339),
	}
	if m.Phone != "" || m.Address != "" || m.City != "" || m.PostalCode != "" {
		user.Profile = &types.Profile{
			Phone:      m.Phone,
			Address:    m.Address,
			City:       m.City,
			PostalCode: m.PostalCode,
		}
	}
	return user
}
