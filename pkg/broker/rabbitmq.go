package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"
)

const publishTimeout = 5 * time.Second

type RabbitMQConfig struct {
	URL      string
	Exchange string
}

// RabbitMQPublisher publishes to a topic exchange on a channel in confirm mode.
type RabbitMQPublisher struct {
	cfg           RabbitMQConfig
	conn          *amqp.Connection
	ch            *amqp.Channel
	notifyConfirm chan amqp.Confirmation
	mu            sync.Mutex
}

func NewRabbitMQPublisher(cfg RabbitMQConfig) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.Confirm(false); err != nil {
		conn.Close()
		return nil, fmt.Errorf("confirm mode: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", cfg.Exchange, err)
	}

	p := &RabbitMQPublisher{
		cfg:           cfg,
		conn:          conn,
		ch:            ch,
		notifyConfirm: ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
	}
	return p, nil
}

// Publish routes the event by key and waits for the broker confirmation.
func (p *RabbitMQPublisher) Publish(ctx context.Context, key string, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.Publish(p.cfg.Exchange, event.EventType, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EventID,
		Type:         event.EventType,
		Headers:      amqp.Table{"key": key},
		Body:         body,
		Timestamp:    event.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	select {
	case confirm := <-p.notifyConfirm:
		if confirm.Ack {
			return nil
		}
		return errors.New("message published but not confirmed")
	case <-time.After(publishTimeout):
		return errors.New("publish confirmation timeout")
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *RabbitMQPublisher) Close() error {
	if err := p.ch.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}
