package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:50;uniqueIndex;not null"`
	Products  []Product
	CreatedAt time.Time
}

type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name        string          `gorm:"size:100;not null"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Stock       int             `gorm:"not null;default:0"`
	Size        string          `gorm:"size:50"`
	Color       string          `gorm:"size:50"`
	Description string          `gorm:"type:text"`
	ImageURL    string          `gorm:"size:200"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index"`
	Variants    []Variant
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Variant desnormaliza cor/tamanho/estoque de um produto para os seletores
// da vitrine. O estoque autoritativo é sempre o do Product.
type Variant struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null"`
	Color     string    `gorm:"size:50;not null"`
	Size      string    `gorm:"size:10;not null"`
	Stock     int       `gorm:"not null;default:0"`
	ImageURL  string    `gorm:"size:200"`
	CreatedAt time.Time
}

type ProductFilter struct {
	CategoryID *uuid.UUID
	Query      string
	Page       int
	PageSize   int
}
