package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Category struct {
	ID          uuid.UUID
	Name        string
	Description string
	Image       string
	IsActive    bool
	ParentID    *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Product struct {
	ID            uuid.UUID
	Name          string
	Description   string
	Price         decimal.Decimal
	OriginalPrice *decimal.Decimal
	Image         string
	Images        []string
	CategoryID    uuid.UUID
	Category      *Category
	Stock         int
	IsActive      bool
	Tags          []string
	AnimeSeries   string
	Character     string
	Size          string
	Material      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
