package usecase

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/events"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/stock"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"go.uber.org/zap"
)

type inventoryUseCase struct {
	repo     inventory.Repository
	notifier events.Notifier
	logger   logger.ZapLogger
}

func NewInventoryUseCase(repo inventory.Repository, notifier events.Notifier, log logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{
		repo:     repo,
		notifier: notifier,
		logger:   log,
	}
}

// CreateTransaction records a restock or sale and moves the product's stock
// in the same database transaction.
func (uc *inventoryUseCase) CreateTransaction(ctx context.Context, input *dto.CreateTransactionInput) (*model.InventoryTransaction, error) {
	if !input.TransactionType.Valid() {
		return nil, inventory.ErrInvalidType
	}

	t := &model.InventoryTransaction{
		ProductID:       input.ProductID,
		Quantity:        input.Quantity,
		TransactionType: input.TransactionType,
	}

	var updated *model.Product
	err := uc.repo.WithinTx(ctx, func(tx inventory.TxRepository) error {
		p, err := stock.Apply(ctx, tx, input.ProductID, stock.DirectionFor(input.TransactionType), input.Quantity)
		if err != nil {
			return err
		}
		t.TransactionCost = model.TransactionCost(p.Price, p.ExtraChargePercent, input.Quantity)
		if err := tx.Create(ctx, t); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	t.ProductName = updated.Name
	t.ProductPrice = updated.Price
	t.ProductQuantity = updated.QuantityInStock

	uc.logger.Info("inventory transaction recorded",
		zap.Int64("transaction_id", t.ID),
		zap.Int64("product_id", t.ProductID),
		zap.String("type", string(t.TransactionType)),
		zap.Int("quantity", t.Quantity),
		zap.Int("stock", updated.QuantityInStock),
	)

	source := input.Source
	if source == "" {
		source = "inventory"
	}
	go uc.notifier.StockChanged(context.WithoutCancel(ctx), source, updated)

	return t, nil
}

func (uc *inventoryUseCase) GetTransaction(ctx context.Context, id int64) (*model.InventoryTransaction, error) {
	t, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, inventory.ErrNotFound(id)
	}
	return t, nil
}

func (uc *inventoryUseCase) ListTransactions(ctx context.Context, filters *dto.TransactionFilters) ([]model.InventoryTransaction, int, error) {
	if filters.TransactionType != "" && !filters.TransactionType.Valid() {
		return nil, 0, inventory.ErrInvalidType
	}
	return uc.repo.FindAll(ctx, filters)
}
