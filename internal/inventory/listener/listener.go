package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const EventRestockReceived = "RestockReceived"

// MessageReader is the part of broker.KafkaConsumer the listener uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// RestockListener applies supplier deliveries published on the bus as
// restock transactions.
type RestockListener struct {
	reader  MessageReader
	uc      inventory.UseCase
	logger  logger.ZapLogger
	backoff time.Duration
}

func NewRestockListener(reader MessageReader, uc inventory.UseCase, logger logger.ZapLogger) *RestockListener {
	return &RestockListener{
		reader:  reader,
		uc:      uc,
		logger:  logger,
		backoff: time.Second,
	}
}

func (l *RestockListener) Start(ctx context.Context) {
	l.logger.Info("Starting restock Kafka listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping restock Kafka listener")
			return
		default:
			msg, err := l.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(l.backoff):
				}
				continue
			}
			if !l.handle(ctx, msg) {
				return
			}
			if err := l.reader.CommitMessages(ctx, msg); err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to commit kafka message", zap.Int64("offset", msg.Offset), zap.Error(err))
			}
		}
	}
}

// handle applies msg, retrying infrastructure failures until one succeeds or
// ctx ends. It reports whether msg may be committed.
func (l *RestockListener) handle(ctx context.Context, msg kafka.Message) bool {
	for {
		err := l.processMessage(ctx, msg.Value)
		if err == nil {
			return true
		}
		l.logger.Error("Failed to apply restock event", zap.Int64("offset", msg.Offset), zap.Error(err))
		select {
		case <-ctx.Done():
			return false
		case <-time.After(l.backoff):
		}
	}
}

type RestockEvent struct {
	EventID   string         `json:"event_id"`
	EventType string         `json:"event_type"`
	Payload   RestockPayload `json:"payload"`
	Timestamp time.Time      `json:"timestamp"`
}

type RestockPayload struct {
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Reference string `json:"reference"`
}

// processMessage returns an error only for failures worth retrying.
// Undecodable, foreign and rejected events are logged and skipped.
func (l *RestockListener) processMessage(ctx context.Context, value []byte) error {
	var event RestockEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return nil
	}

	if event.EventType != EventRestockReceived {
		return nil
	}

	log := l.logger.With(
		zap.String("event_id", event.EventID),
		zap.Int64("product_id", event.Payload.ProductID),
		zap.String("reference", event.Payload.Reference),
	)
	log.Info("Processing RestockReceived event", zap.Int("quantity", event.Payload.Quantity))

	_, err := l.uc.CreateTransaction(ctx, &dto.CreateTransactionInput{
		ProductID:       event.Payload.ProductID,
		Quantity:        event.Payload.Quantity,
		TransactionType: model.TransactionRestock,
		Source:          "restock-listener",
	})
	if err != nil {
		if _, ok := apperror.As(err); ok {
			log.Warn("Restock event rejected", zap.Error(err))
			return nil
		}
		return err
	}
	return nil
}
