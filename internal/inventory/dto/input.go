package dto

import "github.com/fekuna/omnipos-inventory-service/internal/model"

type CreateTransactionInput struct {
	ProductID       int64
	Quantity        int
	TransactionType model.TransactionType
	// Source tags the emitted stock event, e.g. "api" or "restock-listener".
	Source string
}
