package usecase

import (
	"context"
	"strings"

	"github.com/fekuna/omnipos-inventory-service/internal/events"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/order"
	"github.com/fekuna/omnipos-inventory-service/internal/order/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/stock"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"go.uber.org/zap"
)

type orderUseCase struct {
	repo     order.Repository
	notifier events.Notifier
	logger   logger.ZapLogger
}

func NewOrderUseCase(repo order.Repository, notifier events.Notifier, log logger.ZapLogger) order.UseCase {
	return &orderUseCase{
		repo:     repo,
		notifier: notifier,
		logger:   log,
	}
}

// CreateOrder inserts the order and all of its items in one transaction.
// Any item that cannot be fulfilled rejects the whole order.
func (uc *orderUseCase) CreateOrder(ctx context.Context, input *dto.CreateOrderInput) (*model.Order, error) {
	o := &model.Order{
		CustomerName: strings.TrimSpace(input.CustomerName),
		Status:       input.Status,
		Items:        []model.OrderItem{},
	}
	if o.Status == "" {
		o.Status = model.OrderPending
	}
	if err := validateOrder(o, input.TelephoneNumber); err != nil {
		return nil, err
	}

	var touched []*model.Product
	err := uc.repo.WithinTx(ctx, func(tx order.TxRepository) error {
		if err := tx.CreateOrder(ctx, o); err != nil {
			return err
		}
		for _, in := range input.Items {
			item, p, err := addItem(ctx, tx, o.ID, in)
			if err != nil {
				return err
			}
			o.Items = append(o.Items, *item)
			touched = append(touched, p)
		}
		total, err := tx.RecalculateTotal(ctx, o.ID)
		if err != nil {
			return err
		}
		o.TotalAmount = total
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("order created",
		zap.Int64("order_id", o.ID),
		zap.Int("items", len(o.Items)),
		zap.String("total", o.TotalAmount.StringFixed(2)),
	)

	bg := context.WithoutCancel(ctx)
	created := *o
	go func() {
		uc.notifier.StockChanged(bg, "order", latestPerProduct(touched)...)
		uc.notifier.OrderCreated(bg, &created)
	}()

	return o, nil
}

func (uc *orderUseCase) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, order.ErrNotFound(id)
	}
	items, err := uc.repo.FindItems(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (uc *orderUseCase) ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error) {
	if filters.Status != "" && !filters.Status.Valid() {
		return nil, 0, order.ErrInvalidStatus
	}
	orders, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}
	if len(orders) == 0 {
		return orders, count, nil
	}

	ids := make([]int64, len(orders))
	byID := make(map[int64]int, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		byID[orders[i].ID] = i
		orders[i].Items = []model.OrderItem{}
	}
	items, err := uc.repo.FindItems(ctx, ids...)
	if err != nil {
		return nil, 0, err
	}
	for _, it := range items {
		if i, ok := byID[it.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, it)
		}
	}
	return orders, count, nil
}

func (uc *orderUseCase) UpdateOrder(ctx context.Context, input *dto.UpdateOrderInput) (*model.Order, error) {
	o, err := uc.GetOrder(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	phone := o.TelephoneNumber
	if input.CustomerName != nil {
		o.CustomerName = strings.TrimSpace(*input.CustomerName)
	}
	if input.TelephoneNumber != nil {
		phone = *input.TelephoneNumber
	}
	if input.Status != nil {
		o.Status = *input.Status
	}
	if err := validateOrder(o, phone); err != nil {
		return nil, err
	}

	if err := uc.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// DeleteOrder removes the order and its items. Stock consumed by the items
// is not returned.
func (uc *orderUseCase) DeleteOrder(ctx context.Context, id int64) error {
	deleted, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return order.ErrNotFound(id)
	}
	return nil
}

func (uc *orderUseCase) ListItems(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	o, err := uc.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, order.ErrNotFound(orderID)
	}
	return uc.repo.FindItems(ctx, orderID)
}

func (uc *orderUseCase) AddItem(ctx context.Context, input *dto.AddItemInput) (*model.OrderItem, error) {
	var (
		item *model.OrderItem
		p    *model.Product
	)
	err := uc.repo.WithinTx(ctx, func(tx order.TxRepository) error {
		exists, err := tx.OrderExists(ctx, input.OrderID)
		if err != nil {
			return err
		}
		if !exists {
			return order.ErrNotFound(input.OrderID)
		}
		item, p, err = addItem(ctx, tx, input.OrderID, input.ItemInput)
		if err != nil {
			return err
		}
		_, err = tx.RecalculateTotal(ctx, input.OrderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	go uc.notifier.StockChanged(context.WithoutCancel(ctx), "order", p)
	return item, nil
}

func (uc *orderUseCase) GetItem(ctx context.Context, id int64) (*model.OrderItem, error) {
	item, err := uc.repo.FindItemByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, order.ErrItemNotFound(id)
	}
	return item, nil
}

// DeleteItem removes a line and recomputes the order total. Stock is not
// returned to the product.
func (uc *orderUseCase) DeleteItem(ctx context.Context, id int64) error {
	return uc.repo.WithinTx(ctx, func(tx order.TxRepository) error {
		orderID, found, err := tx.DeleteItem(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return order.ErrItemNotFound(id)
		}
		_, err = tx.RecalculateTotal(ctx, orderID)
		return err
	})
}

// addItem takes stock for one line and writes it at the product's current price.
func addItem(ctx context.Context, tx order.TxRepository, orderID int64, in dto.ItemInput) (*model.OrderItem, *model.Product, error) {
	p, err := stock.Apply(ctx, tx, in.ProductID, stock.Decrease, in.Quantity)
	if err != nil {
		return nil, nil, err
	}
	item := &model.OrderItem{
		OrderID:     orderID,
		ProductID:   p.ID,
		ProductName: p.Name,
		Quantity:    in.Quantity,
		UnitPrice:   p.Price,
		Price:       model.LineTotal(p.Price, in.Quantity),
	}
	if err := tx.CreateItem(ctx, item); err != nil {
		return nil, nil, err
	}
	return item, p, nil
}

func validateOrder(o *model.Order, phone string) error {
	if o.CustomerName == "" {
		return order.ErrCustomerNameRequired
	}
	if !o.Status.Valid() {
		return order.ErrInvalidStatus
	}
	normalized, err := order.NormalizePhone(phone)
	if err != nil {
		return err
	}
	o.TelephoneNumber = normalized
	return nil
}

// latestPerProduct keeps the last snapshot of each product, which carries its
// final stock level after all lines were applied.
func latestPerProduct(products []*model.Product) []*model.Product {
	seen := make(map[int64]int, len(products))
	out := make([]*model.Product, 0, len(products))
	for _, p := range products {
		if i, ok := seen[p.ID]; ok {
			out[i] = p
			continue
		}
		seen[p.ID] = len(out)
		out = append(out, p)
	}
	return out
}
