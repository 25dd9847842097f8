package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/talesbyhand-backend/internal/repo"
	"github.com/angelmondragon/talesbyhand-backend/pkg/db/models"
)

// Repository exposes persistence operations for carts and their lines.
type Repository struct {
	repo.Base
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

// FindActiveProduct loads an active product, holding a share lock on
// Postgres so it cannot be deleted before the line is written.
func (r *Repository) FindActiveProduct(ctx context.Context, productID uint64) (*models.Product, error) {
	var product models.Product
	if err := r.ForShare(ctx).Where("id = ? AND is_active = ?", productID, true).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// EnsureCart returns the user's cart, inserting it if missing. Concurrent
// callers converge on one row through the unique user_id index.
func (r *Repository) EnsureCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	tx := r.DB(ctx)
	candidate := &models.Cart{UserID: userID}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(candidate).Error; err != nil {
		return nil, err
	}

	var cart models.Cart
	if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// UpsertItem inserts the (cart, product) line or adds quantity to the existing
// one in a single statement and returns the stored row.
func (r *Repository) UpsertItem(ctx context.Context, cartID, productID uint64, quantity int) (*models.CartItem, error) {
	tx := r.DB(ctx)
	item := &models.CartItem{CartID: cartID, ProductID: productID, Quantity: quantity}
	if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
			"updated_at": gorm.Expr("excluded.updated_at"),
		}),
	}).Create(item).Error; err != nil {
		return nil, err
	}

	var stored models.CartItem
	if err := tx.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// FindByUser loads the user's cart with lines and products.
func (r *Repository) FindByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.DB(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.id ASC")
		}).
		Preload("Items.Product").
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}
