package cart

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/angelmondragon/talesbyhand-backend/pkg/errors"
	"github.com/angelmondragon/talesbyhand-backend/pkg/metrics"
)

// DefaultMaxLineQuantity caps a single cart line when no limit is configured.
const DefaultMaxLineQuantity = 999

// Service exposes the shopper cart operations.
type Service interface {
	AddItem(ctx context.Context, userID uuid.UUID, productID uint64, quantity int) (*AddItemResult, error)
	GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
}

// ServiceParams bundles the dependencies required to build a cart service.
type ServiceParams struct {
	Repo            CartRepository
	TxRunner        txRunner
	MaxLineQuantity int
	Metrics         *metrics.CartMetrics
}

type service struct {
	repo            CartRepository
	tx              txRunner
	maxLineQuantity int
	metrics         *metrics.CartMetrics
}

// NewService constructs a cart service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.TxRunner == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	maxQty := params.MaxLineQuantity
	if maxQty <= 0 {
		maxQty = DefaultMaxLineQuantity
	}
	return &service{
		repo:            params.Repo,
		tx:              params.TxRunner,
		maxLineQuantity: maxQty,
		metrics:         params.Metrics,
	}, nil
}

// AddItem records quantity units of productID in the user's cart. The cart and
// the line are created on first use; an existing line accumulates quantity.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, productID uint64, quantity int) (*AddItemResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if quantity < 1 {
		s.metrics.ObserveAdd(metrics.CartAddRejected, 0)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a positive integer").
			WithDetails(map[string]any{"quantity": quantity})
	}
	if quantity > s.maxLineQuantity {
		s.metrics.ObserveAdd(metrics.CartAddRejected, 0)
		return nil, s.exceedsMax(quantity)
	}

	if productID > math.MaxInt64 {
		s.metrics.ObserveAdd(metrics.CartAddRejected, 0)
		return nil, productNotFound(productID)
	}

	var result *AddItemResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindActiveProduct(ctx, productID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return productNotFound(productID)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
		}

		cart, err := repo.EnsureCart(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "ensure cart")
		}

		item, err := repo.UpsertItem(ctx, cart.ID, productID, quantity)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "upsert cart item")
		}
		if item.Quantity > s.maxLineQuantity {
			return s.exceedsMax(item.Quantity)
		}

		result = &AddItemResult{
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  item.Quantity,
			// Stored quantities are always >= 1, so an existing line sums above the request.
			Created: item.Quantity == quantity,
		}
		return nil
	})
	if err != nil {
		s.metrics.ObserveAdd(outcomeFor(err), 0)
		return nil, err
	}

	outcome := metrics.CartAddUpdated
	if result.Created {
		outcome = metrics.CartAddCreated
	}
	s.metrics.ObserveAdd(outcome, quantity)
	return result, nil
}

func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return emptyCart(userID), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	return cartFromModel(cart), nil
}

func (s *service) exceedsMax(quantity int) error {
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line quantity cannot exceed %d", s.maxLineQuantity)).
		WithDetails(map[string]any{"quantity": quantity, "max": s.maxLineQuantity})
}

func productNotFound(productID uint64) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
		WithDetails(map[string]any{"product_id": productID})
}

func outcomeFor(err error) string {
	switch {
	case pkgerrors.HasCode(err, pkgerrors.CodeValidation), pkgerrors.HasCode(err, pkgerrors.CodeNotFound):
		return metrics.CartAddRejected
	default:
		return metrics.CartAddFailed
	}
}
