package order

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/order/dto"
)

type UseCase interface {
	CreateOrder(ctx context.Context, input *dto.CreateOrderInput) (*model.Order, error)
	GetOrder(ctx context.Context, id int64) (*model.Order, error)
	ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)
	UpdateOrder(ctx context.Context, input *dto.UpdateOrderInput) (*model.Order, error)
	DeleteOrder(ctx context.Context, id int64) error

	ListItems(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	AddItem(ctx context.Context, input *dto.AddItemInput) (*model.OrderItem, error)
	GetItem(ctx context.Context, id int64) (*model.OrderItem, error)
	DeleteItem(ctx context.Context, id int64) error
}
