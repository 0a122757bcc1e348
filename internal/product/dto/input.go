package dto

import "github.com/shopspring/decimal"

type CreateProductInput struct {
	Name               string
	Category           string
	Description        string
	QuantityInStock    int
	Price              decimal.Decimal
	ThresholdLevel     *int
	ExtraChargePercent *decimal.Decimal
}

// UpdateProductInput carries only the fields being changed.
type UpdateProductInput struct {
	ID                 int64
	Name               *string
	Category           *string
	Description        *string
	QuantityInStock    *int
	Price              *decimal.Decimal
	ThresholdLevel     *int
	ExtraChargePercent *decimal.Decimal
}
