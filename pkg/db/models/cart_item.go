package models

import "time"

// CartItem is one (product, quantity) line. (CartID, ProductID) is unique.
type CartItem struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	CartID    uint64    `gorm:"column:cart_id;not null;uniqueIndex:idx_cart_items_cart_product,priority:1"`
	ProductID uint64    `gorm:"column:product_id;not null;uniqueIndex:idx_cart_items_cart_product,priority:2"`
	Quantity  int       `gorm:"column:quantity;not null"`
	Product   *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (CartItem) TableName() string { return "cart_items" }
