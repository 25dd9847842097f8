package models

import "time"

// ProductMedia references an externally stored image or video for a product.
type ProductMedia struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID uint64    `gorm:"column:product_id;not null;index"`
	MediaFile string    `gorm:"column:media_file;not null"`
	IsMain    bool      `gorm:"column:is_main;not null"`
	SortOrder int       `gorm:"column:sort_order;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (ProductMedia) TableName() string { return "product_media" }
