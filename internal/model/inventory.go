package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionRestock TransactionType = "restock"
	TransactionSale    TransactionType = "sale"
)

func (t TransactionType) Valid() bool {
	return t == TransactionRestock || t == TransactionSale
}

// InventoryTransaction is an append-only ledger row.
type InventoryTransaction struct {
	ID              int64           `db:"id" json:"id"`
	ProductID       int64           `db:"product_id" json:"product_id"`
	Quantity        int             `db:"quantity" json:"quantity"`
	TransactionType TransactionType `db:"transaction_type" json:"transaction_type"`
	TransactionCost decimal.Decimal `db:"transaction_cost" json:"transaction_cost"`
	TransactionDate time.Time       `db:"transaction_date" json:"transaction_date"`

	// Joined product columns, read only.
	ProductName     string          `db:"product_name" json:"-"`
	ProductPrice    decimal.Decimal `db:"product_price" json:"-"`
	ProductQuantity int             `db:"product_quantity" json:"-"`
}

// TransactionCost applies the product surcharge to the unit price and
// multiplies by quantity, rounded to cents.
func TransactionCost(price, extraChargePercent decimal.Decimal, quantity int) decimal.Decimal {
	surcharge := price.Mul(extraChargePercent).Div(decimal.NewFromInt(100))
	return price.Add(surcharge).Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}
