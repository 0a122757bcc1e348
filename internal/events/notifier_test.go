package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/pkg/broker"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingPublisher struct {
	mu     sync.Mutex
	keys   []string
	events []broker.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, key string, ev broker.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type recordingRefresher struct {
	ids []int64
}

func (r *recordingRefresher) Refresh(_ context.Context, ids ...int64) {
	r.ids = append(r.ids, ids...)
}

func TestStockChangedPublishesAndRefreshes(t *testing.T) {
	pub := &recordingPublisher{}
	ref := &recordingRefresher{}
	n := NewBrokerNotifier(pub, ref, logger.NewNop())

	n.StockChanged(context.Background(), "sale",
		&model.Product{ID: 1, Name: "Widget", QuantityInStock: 80, ThresholdLevel: 5},
		&model.Product{ID: 2, Name: "Bolt", QuantityInStock: 3, ThresholdLevel: 10},
	)

	require.Len(t, pub.events, 3)
	assert.Equal(t, TypeStockChanged, pub.events[0].EventType)
	assert.Equal(t, TypeStockChanged, pub.events[1].EventType)
	assert.Equal(t, TypeStockAlertRaised, pub.events[2].EventType)
	assert.Equal(t, []string{"1", "2", "2"}, pub.keys)

	var alert AlertRaisedPayload
	require.NoError(t, json.Unmarshal(pub.events[2].Payload, &alert))
	assert.Equal(t, AlertRaisedPayload{ProductID: 2, ProductName: "Bolt", StockLevel: 3, ThresholdLevel: 10}, alert)

	assert.Equal(t, []int64{1, 2}, ref.ids)
}

func TestOrderCreatedPayload(t *testing.T) {
	pub := &recordingPublisher{}
	n := NewBrokerNotifier(pub, nil, logger.NewNop())

	n.OrderCreated(context.Background(), &model.Order{
		ID:          9,
		Status:      model.OrderPending,
		TotalAmount: decimal.RequireFromString("30.00"),
		Items:       []model.OrderItem{{ProductID: 1, Quantity: 3}},
	})

	require.Len(t, pub.events, 1)
	var payload OrderCreatedPayload
	require.NoError(t, json.Unmarshal(pub.events[0].Payload, &payload))
	assert.Equal(t, int64(9), payload.OrderID)
	assert.Equal(t, []OrderItemPayload{{ProductID: 1, Quantity: 3}}, payload.Items)
	assert.True(t, payload.TotalAmount.Equal(decimal.NewFromInt(30)))
}

func TestPublishFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	pub := &recordingPublisher{err: errors.New("broker down")}
	n := NewBrokerNotifier(pub, nil, logger.NewFromZap(zap.New(core)))

	n.StockChanged(context.Background(), "restock", &model.Product{ID: 1, QuantityInStock: 10, ThresholdLevel: 5})

	assert.Equal(t, 1, logs.FilterMessage("failed to publish event").Len())
}
