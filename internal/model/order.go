package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
)

func (s OrderStatus) Valid() bool {
	return s == OrderPending || s == OrderCompleted
}

type Order struct {
	ID              int64           `db:"id" json:"id"`
	CustomerName    string          `db:"customer_name" json:"customer_name"`
	TelephoneNumber string          `db:"telephone_number" json:"telephone_number"`
	OrderDate       time.Time       `db:"order_date" json:"order_date"`
	Status          OrderStatus     `db:"status" json:"status"`
	TotalAmount     decimal.Decimal `db:"total_amount" json:"total_amount"`
	Items           []OrderItem     `db:"-" json:"items"`
}

type OrderItem struct {
	ID          int64           `db:"id" json:"id"`
	OrderID     int64           `db:"order_id" json:"order"`
	ProductID   int64           `db:"product_id" json:"product"`
	ProductName string          `db:"product_name" json:"product_name"`
	Quantity    int             `db:"quantity" json:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"unit_price"`
	Price       decimal.Decimal `db:"price" json:"price"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// LineTotal is unit price times quantity.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// SumItems adds up the line totals of items.
func SumItems(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(LineTotal(it.UnitPrice, it.Quantity))
	}
	return total
}
