package models

import (
	"time"

	"github.com/google/uuid"
)

// Cart is a user's pending purchase lines. A user owns at most one cart.
type Cart struct {
	ID        uint64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Cart) TableName() string { return "carts" }
