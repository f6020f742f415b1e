package inventory

import (
	"context"
	"fmt"

	"github.com/stockbook/stockbook/internal/shared"
)

// LedgerStore applies a relative quantity update in a single statement.
// With allowNegative false the update must not drive quantity below zero and
// reports shared.ErrInsufficientStock instead.
type LedgerStore interface {
	AdjustQuantity(ctx context.Context, itemID, delta int64, allowNegative bool) (WarehouseItem, error)
}

// StockLedger is the only mutation path for warehouse item quantities.
type StockLedger struct {
	allowNegative bool
}

// NewStockLedger builds a StockLedger.
func NewStockLedger(allowNegative bool) StockLedger {
	return StockLedger{allowNegative: allowNegative}
}

// AllowsNegative reports whether quantities may go below zero.
func (l StockLedger) AllowsNegative() bool {
	return l.allowNegative
}

// Adjust applies quantity = quantity + delta and returns the post-adjustment row.
func (l StockLedger) Adjust(ctx context.Context, store LedgerStore, itemID, delta int64) (WarehouseItem, error) {
	if itemID <= 0 {
		return WarehouseItem{}, shared.ErrMissingInput
	}
	item, err := store.AdjustQuantity(ctx, itemID, delta, l.allowNegative)
	if err != nil {
		return WarehouseItem{}, fmt.Errorf("inventory: adjust item %d by %d: %w", itemID, delta, err)
	}
	return item, nil
}

// Seed returns the opening quantity for an item created by delta, honouring the negative-stock policy.
func (l StockLedger) Seed(delta int64) (int64, error) {
	if !l.allowNegative && delta < 0 {
		return 0, shared.ErrInsufficientStock
	}
	return delta, nil
}
