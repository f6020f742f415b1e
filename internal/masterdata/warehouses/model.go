package warehouses

import (
	"time"
)

// Warehouse represents a stock location of one business.
type Warehouse struct {
	ID         int64     `json:"id"`
	BusinessID int64     `json:"businessId"`
	Name       string    `json:"name"`
	Location   string    `json:"location"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// WarehouseForm is the create/update request body.
type WarehouseForm struct {
	Name     string `json:"name" validate:"required,max=200"`
	Location string `json:"location" validate:"max=500"`
}

// StockLine is one warehouse item with its product name.
type StockLine struct {
	WarehouseItemID int64     `json:"warehouseItemId"`
	ProductID       int64     `json:"productId"`
	ProductName     string    `json:"productName"`
	Quantity        int64     `json:"quantity"`
	ReservedQty     int64     `json:"reservedQty"`
	LastUpdated     time.Time `json:"lastUpdated"`
}
