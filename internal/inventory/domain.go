package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType enumerates stock-moving events.
type TransactionType string

const (
	TypePurchase       TransactionType = "PURCHASE"
	TypeSale           TransactionType = "SALE"
	TypeDamage         TransactionType = "DAMAGE"
	TypeReturnSale     TransactionType = "RETURN_SALE"
	TypeReturnPurchase TransactionType = "RETURN_PURCHASE"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case TypePurchase, TypeSale, TypeDamage, TypeReturnSale, TypeReturnPurchase:
		return true
	}
	return false
}

// SignedDelta returns the stock change caused by recording qty units of t.
// Stock leaves on SALE, DAMAGE and RETURN_PURCHASE and arrives otherwise.
func (t TransactionType) SignedDelta(qty int64) int64 {
	if qty < 0 {
		qty = -qty
	}
	switch t {
	case TypeSale, TypeDamage, TypeReturnPurchase:
		return -qty
	default:
		return qty
	}
}

// Transaction is an immutable ledger fact. Quantity is the positive magnitude entered.
type Transaction struct {
	ID              int64           `json:"id"`
	BusinessID      int64           `json:"businessId"`
	ProductID       int64           `json:"productId"`
	WarehouseID     int64           `json:"warehouseId"`
	WarehouseItemID int64           `json:"warehouseItemId"`
	Type            TransactionType `json:"type"`
	Quantity        int64           `json:"quantity"`
	Note            string          `json:"note"`
	Reference       string          `json:"reference"`
	CreatedBy       int64           `json:"createdBy"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// WarehouseItem is the on-hand count of one product in one warehouse.
type WarehouseItem struct {
	ID          int64     `json:"id"`
	ProductID   int64     `json:"productId"`
	WarehouseID int64     `json:"warehouseId"`
	Quantity    int64     `json:"quantity"`
	ReservedQty int64     `json:"reservedQty"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// ProductSupplier binds a product to a supplier with the supplier's item code.
type ProductSupplier struct {
	ProductID  int64  `json:"productId"`
	SupplierID int64  `json:"supplierId"`
	Code       string `json:"code"`
}

// TransactionRequest is the input to Service.Record. A non-zero WarehouseItemID
// selects direct mode; otherwise ProductID+WarehouseID resolve or create the item.
type TransactionRequest struct {
	ProductID       int64           `json:"productId" validate:"required,gt=0"`
	WarehouseItemID int64           `json:"warehouseItemId" validate:"required_without=WarehouseID"`
	WarehouseID     int64           `json:"warehouseId" validate:"required_without=WarehouseItemID"`
	SupplierID      int64           `json:"supplierId" validate:"required_without=WarehouseItemID"`
	SupplierCode    string          `json:"supplierCode" validate:"max=64"`
	Type            TransactionType `json:"type" validate:"required,oneof=PURCHASE SALE DAMAGE RETURN_SALE RETURN_PURCHASE"`
	Quantity        int64           `json:"quantity" validate:"required,gt=0"`
	Note            string          `json:"note" validate:"max=500"`
	Reference       string          `json:"reference" validate:"max=120"`
}

// Mode names the entry path taken by a request.
type Mode string

const (
	ModeDirect Mode = "direct"
	ModeUpsert Mode = "upsert"
)

// Mode reports which entry path req takes.
func (r TransactionRequest) Mode() Mode {
	if r.WarehouseItemID > 0 {
		return ModeDirect
	}
	return ModeUpsert
}

// UpsertOutcome tags how upsert mode resolved the warehouse item.
type UpsertOutcome string

const (
	OutcomeCreated UpsertOutcome = "CREATED"
	OutcomeUpdated UpsertOutcome = "UPDATED"
)

// Resolution is the tagged result of upsert mode: Created(item) or Updated(item).
type Resolution struct {
	Outcome UpsertOutcome `json:"outcome"`
	Item    WarehouseItem `json:"item"`
}

// Recorded is the committed outcome of Service.Record.
type Recorded struct {
	Transaction   Transaction      `json:"transaction"`
	WarehouseItem WarehouseItem    `json:"warehouseItem"`
	Mode          Mode             `json:"mode"`
	Outcome       UpsertOutcome    `json:"outcome,omitempty"`
	Supplier      *ProductSupplier `json:"productSupplier,omitempty"`
}

// Stats aggregates ledger and expense facts over a window.
type Stats struct {
	From             time.Time       `json:"from"`
	To               time.Time       `json:"to"`
	TotalSales       decimal.Decimal `json:"totalSales"`
	TotalExpenses    decimal.Decimal `json:"totalExpenses"`
	NetProfit        decimal.Decimal `json:"netProfit"`
	TransactionCount int64           `json:"transactionCount"`
}

// TransactionFilter narrows ListTransactions.
type TransactionFilter struct {
	BusinessID int64
	Types      []TransactionType
	ProductID  int64
	From       time.Time
	To         time.Time
	SortBy     string
	SortDir    string
	Limit      int
	Offset     int
}
