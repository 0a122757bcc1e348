package dto

import "github.com/fekuna/omnipos-inventory-service/internal/model"

type TransactionFilters struct {
	ProductID       int64
	TransactionType model.TransactionType
	Page            int
	PageSize        int
}
