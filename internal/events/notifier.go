// Package events fans committed stock and order changes out to the message
// bus and to the product read side (list cache and search index).
package events

import (
	"context"
	"strconv"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/pkg/broker"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	TypeStockChanged     = "stock.changed"
	TypeStockAlertRaised = "stock.alert_raised"
	TypeOrderCreated     = "order.created"

	publishTimeout = 5 * time.Second
)

// Notifier is called after a transaction commits. Implementations must not
// fail the caller: delivery problems are logged.
type Notifier interface {
	StockChanged(ctx context.Context, source string, products ...*model.Product)
	OrderCreated(ctx context.Context, order *model.Order)
}

// ProductRefresher drops stale product reads. product.UseCase satisfies it.
type ProductRefresher interface {
	Refresh(ctx context.Context, ids ...int64)
}

type StockChangedPayload struct {
	ProductID       int64  `json:"product_id"`
	ProductName     string `json:"product_name"`
	QuantityInStock int    `json:"quantity_in_stock"`
	Source          string `json:"source"`
}

type AlertRaisedPayload struct {
	ProductID      int64  `json:"product_id"`
	ProductName    string `json:"product_name"`
	StockLevel     int    `json:"stock_level"`
	ThresholdLevel int    `json:"threshold_level"`
}

type OrderCreatedPayload struct {
	OrderID     int64              `json:"order_id"`
	Status      model.OrderStatus  `json:"status"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	Items       []OrderItemPayload `json:"items"`
}

type OrderItemPayload struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type BrokerNotifier struct {
	publisher broker.Publisher
	products  ProductRefresher
	logger    logger.ZapLogger
}

func NewBrokerNotifier(publisher broker.Publisher, products ProductRefresher, log logger.ZapLogger) *BrokerNotifier {
	return &BrokerNotifier{
		publisher: publisher,
		products:  products,
		logger:    log,
	}
}

func (n *BrokerNotifier) StockChanged(ctx context.Context, source string, products ...*model.Product) {
	if len(products) == 0 {
		return
	}
	ids := make([]int64, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
		key := strconv.FormatInt(p.ID, 10)

		n.publish(ctx, key, TypeStockChanged, StockChangedPayload{
			ProductID:       p.ID,
			ProductName:     p.Name,
			QuantityInStock: p.QuantityInStock,
			Source:          source,
		})
		if p.IsLowStock() {
			n.publish(ctx, key, TypeStockAlertRaised, AlertRaisedPayload{
				ProductID:      p.ID,
				ProductName:    p.Name,
				StockLevel:     p.QuantityInStock,
				ThresholdLevel: p.ThresholdLevel,
			})
		}
	}
	if n.products != nil {
		n.products.Refresh(ctx, ids...)
	}
}

func (n *BrokerNotifier) OrderCreated(ctx context.Context, order *model.Order) {
	payload := OrderCreatedPayload{
		OrderID:     order.ID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		Items:       make([]OrderItemPayload, 0, len(order.Items)),
	}
	for _, it := range order.Items {
		payload.Items = append(payload.Items, OrderItemPayload{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	n.publish(ctx, strconv.FormatInt(order.ID, 10), TypeOrderCreated, payload)
}

func (n *BrokerNotifier) publish(ctx context.Context, key, eventType string, payload interface{}) {
	ev, err := broker.NewEvent(eventType, payload)
	if err != nil {
		n.logger.Error("failed to build event", zap.String("event_type", eventType), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := n.publisher.Publish(ctx, key, ev); err != nil {
		n.logger.Error("failed to publish event",
			zap.String("event_type", eventType),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

type nopNotifier struct{}

// NewNop returns a Notifier that does nothing.
func NewNop() Notifier { return nopNotifier{} }

func (nopNotifier) StockChanged(context.Context, string, ...*model.Product) {}
func (nopNotifier) OrderCreated(context.Context, *model.Order)              {}
