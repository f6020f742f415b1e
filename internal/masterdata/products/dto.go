package products

import "github.com/shopspring/decimal"

// ProductForm is the create/update request body.
type ProductForm struct {
	Name  string          `json:"name" validate:"required,max=200"`
	SKU   string          `json:"sku" validate:"max=64"`
	Price decimal.Decimal `json:"price"`
	Cost  decimal.Decimal `json:"cost"`
}
