package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StringList is a []string stored as a JSONB array.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for StringList", src)
	}
	return json.Unmarshal(raw, (*[]string)(l))
}

// CategoryModel represents the database model for Category
type CategoryModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name        string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	Description string     `gorm:"type:text;not null"`
	Image       string     `gorm:"type:varchar(500);not null"`
	IsActive    bool       `gorm:"not null"`
	ParentID    *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time  `gorm:"not null"`
	UpdatedAt   time.Time  `gorm:"not null"`
}

func (CategoryModel) TableName() string {
	return "categories"
}

// ProductModel represents the database model for Product
type ProductModel struct {
	ID            uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name          string           `gorm:"type:varchar(255);not null"`
	Description   string           `gorm:"type:text;not null"`
	Price         decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	OriginalPrice *decimal.Decimal `gorm:"type:decimal(10,2)"`
	Image         string           `gorm:"type:varchar(500);not null"`
	Images        StringList       `gorm:"type:jsonb;not null"`
	CategoryID    uuid.UUID        `gorm:"type:uuid;not null;index"`
	Category      *CategoryModel   `gorm:"foreignKey:CategoryID"`
	Stock         int              `gorm:"not null"`
	IsActive      bool             `gorm:"not null"`
	Tags          StringList       `gorm:"type:jsonb;not null"`
	AnimeSeries   string           `gorm:"type:varchar(255);not null"`
	Character     string           `gorm:"type:varchar(255);not null"`
	Size          string           `gorm:"type:varchar(100);not null"`
	Material      string           `gorm:"type:varchar(255);not null"`
	CreatedAt     time.Time        `gorm:"not null"`
	UpdatedAt     time.Time        `gorm:"not null"`
}

func (ProductModel) TableName() string {
	return "products"
}

// CartItemModel represents the database model for a cart line
type CartItemModel struct {
	ID        uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:cart_items_user_product_key"`
	ProductID uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:cart_items_user_product_key"`
	Product   *ProductModel `gorm:"foreignKey:ProductID"`
	Quantity  int           `gorm:"not null"`
	CreatedAt time.Time     `gorm:"not null"`
	UpdatedAt time.Time     `gorm:"not null"`
}

func (CartItemModel) TableName() string {
	return "cart_items"
}
