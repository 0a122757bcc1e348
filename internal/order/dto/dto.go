package dto

import "github.com/fekuna/omnipos-inventory-service/internal/model"

type OrderFilters struct {
	Status   model.OrderStatus
	Search   string // customer name
	Page     int
	PageSize int
}
