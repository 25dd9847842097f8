package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable catalog item. Region is required, Artisan optional.
type Product struct {
	ID            uint64          `gorm:"column:id;primaryKey;autoIncrement"`
	RegionID      uint64          `gorm:"column:region_id;not null;index:idx_products_region_active,priority:1"`
	ArtisanID     *uint64         `gorm:"column:artisan_id;index"`
	SKU           string          `gorm:"column:sku;size:100;not null;uniqueIndex"`
	Name          string          `gorm:"column:name;size:255;not null"`
	Description   string          `gorm:"column:description;not null"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	StockQuantity int             `gorm:"column:stock_quantity;not null"`
	IsActive      bool            `gorm:"column:is_active;not null;index:idx_products_region_active,priority:2"`
	Region        *Region         `gorm:"foreignKey:RegionID"`
	Artisan       *Artisan        `gorm:"foreignKey:ArtisanID"`
	Media         []ProductMedia  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }
