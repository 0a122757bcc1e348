package model

import "time"

type StockAlert struct {
	ID          int64     `db:"id" json:"id"`
	ProductID   int64     `db:"product_id" json:"product"`
	ProductName string    `db:"product_name" json:"product_name"`
	StockLevel  int       `db:"stock_level" json:"stock_level"`
	AlertDate   time.Time `db:"alert_date" json:"alert_date"`
	Resolved    bool      `db:"resolved" json:"resolved"`
}
