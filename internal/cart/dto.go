package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/talesbyhand-backend/pkg/db/models"
)

// AddItemResult describes the cart line after an add.
type AddItemResult struct {
	CartID    uint64 `json:"cart_id"`
	ProductID uint64 `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Created   bool   `json:"created"`
}

// LineDTO is one cart line joined with its product.
type LineDTO struct {
	ItemID    uint64 `json:"item_id"`
	ProductID uint64 `json:"product_id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Subtotal  string `json:"subtotal"`
	Available bool   `json:"available"`
}

// CartDTO is the cart view. ID is zero when the user has not added anything yet.
type CartDTO struct {
	ID         uint64     `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	Lines      []LineDTO  `json:"lines"`
	TotalUnits int        `json:"total_units"`
	Total      string     `json:"total"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

func emptyCart(userID uuid.UUID) *CartDTO {
	return &CartDTO{UserID: userID, Lines: []LineDTO{}, Total: decimal.Zero.StringFixed(2)}
}

func cartFromModel(c *models.Cart) *CartDTO {
	out := emptyCart(c.UserID)
	out.ID = c.ID
	updated := c.UpdatedAt

	total := decimal.Zero
	for _, item := range c.Items {
		line := LineDTO{
			ItemID:    item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
		if item.UpdatedAt.After(updated) {
			updated = item.UpdatedAt
		}
		if item.Product != nil {
			subtotal := item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			line.SKU = item.Product.SKU
			line.Name = item.Product.Name
			line.UnitPrice = item.Product.Price.StringFixed(2)
			line.Subtotal = subtotal.StringFixed(2)
			line.Available = item.Product.IsActive
			total = total.Add(subtotal)
		}
		out.TotalUnits += item.Quantity
		out.Lines = append(out.Lines, line)
	}
	out.Total = total.StringFixed(2)
	out.UpdatedAt = &updated
	return out
}
