package model

import "github.com/shopspring/decimal"

// Category is derived from the free-text category column on products.
type Category struct {
	Name         string          `db:"category" json:"category"`
	ProductCount int             `db:"product_count" json:"product_count"`
	UnitsInStock int             `db:"units_in_stock" json:"units_in_stock"`
	StockValue   decimal.Decimal `db:"stock_value" json:"stock_value"`
}
