package dto

import "github.com/fekuna/omnipos-inventory-service/internal/model"

type ItemInput struct {
	ProductID int64
	Quantity  int
}

type CreateOrderInput struct {
	CustomerName    string
	TelephoneNumber string
	// Status defaults to pending.
	Status model.OrderStatus
	Items  []ItemInput
}

// UpdateOrderInput carries only the fields being changed. Items are managed
// through the item endpoints.
type UpdateOrderInput struct {
	ID              int64
	CustomerName    *string
	TelephoneNumber *string
	Status          *model.OrderStatus
}

type AddItemInput struct {
	OrderID int64
	ItemInput
}
