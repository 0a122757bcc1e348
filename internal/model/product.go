package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID                 int64           `db:"id" json:"id"`
	Name               string          `db:"name" json:"name"`
	Category           string          `db:"category" json:"category"`
	Description        string          `db:"description" json:"description"`
	QuantityInStock    int             `db:"quantity_in_stock" json:"quantity_in_stock"`
	Price              decimal.Decimal `db:"price" json:"price"`
	ThresholdLevel     int             `db:"threshold_level" json:"threshold_level"`
	ExtraChargePercent decimal.Decimal `db:"extra_charge_percent" json:"extra_charge_percent"`
	DateAdded          time.Time       `db:"date_added" json:"date_added"`
}

// IsLowStock reports whether the product sits under its alert threshold.
func (p *Product) IsLowStock() bool {
	return p.QuantityInStock < p.ThresholdLevel
}

// StockValue is price times units on hand.
func (p *Product) StockValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.QuantityInStock)))
}
