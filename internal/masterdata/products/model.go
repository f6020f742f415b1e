package products

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable item owned by one business.
type Product struct {
	ID         int64           `json:"id"`
	BusinessID int64           `json:"businessId"`
	Name       string          `json:"name"`
	SKU        string          `json:"sku"`
	Price      decimal.Decimal `json:"price"`
	Cost       decimal.Decimal `json:"cost"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}
