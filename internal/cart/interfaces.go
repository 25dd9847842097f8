package cart

import (
	"context"

	"github.com/angelmondragon/talesbyhand-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartRepository captures the persistence surface the service uses.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	FindActiveProduct(ctx context.Context, productID uint64) (*models.Product, error)
	EnsureCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	UpsertItem(ctx context.Context, cartID, productID uint64, quantity int) (*models.CartItem, error)
	FindByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
