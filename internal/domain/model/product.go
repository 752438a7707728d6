package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductStatus mirrors the catalog's product lifecycle; only active
// products can be purchased.
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
	ProductStatusArchived ProductStatus = "archived"
)

// Product is owned by the catalog CRUD outside this service; the
// checkout flow reads it for price/inventory and the fulfillment step
// writes inventory and sales counters.
type Product struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string          `gorm:"size:255;not null" json:"name"`
	Price          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Inventory      int             `gorm:"not null;default:0" json:"inventory"`
	TrackInventory bool            `gorm:"default:true" json:"track_inventory"`
	AllowBackorder bool            `gorm:"default:false" json:"allow_backorder"`
	Status         ProductStatus   `gorm:"size:20;not null;default:'active'" json:"status"`
	TotalSold      int             `gorm:"not null;default:0" json:"total_sold"`
	CreatedAt      time.Time       `gorm:"default:now()" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Product) TableName() string {
	return "products"
}

// Purchasable reports whether a purchase of quantity can proceed.
// Inventory is only binding when tracked and backorders are disallowed.
func (p *Product) Purchasable(quantity int) bool {
	if p.Status != ProductStatusActive {
		return false
	}
	if p.TrackInventory && !p.AllowBackorder && p.Inventory < quantity {
		return false
	}
	return true
}
