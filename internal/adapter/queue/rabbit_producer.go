package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/confshop/payment-api/internal/usecase"
)

// RabbitProducer emits purchase audit events. Publishing is best-effort:
// callers log failures and carry on, the purchase itself never depends
// on the broker.
type RabbitProducer struct {
	ch         *amqp.Channel
	exchange   string
	routingKey string
}

// NewRabbitProducer declares the exchange once at startup.
func NewRabbitProducer(ch *amqp.Channel, exchange, routingKey string) (*RabbitProducer, error) {
	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		return nil, fmt.Errorf("enable confirm mode: %w", err)
	}

	return &RabbitProducer{ch: ch, exchange: exchange, routingKey: routingKey}, nil
}

// PublishResolved sends a purchase.resolved event to the exchange.
func (p *RabbitProducer) PublishResolved(ctx context.Context, msg usecase.PurchaseResolvedMsg) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // survive broker restarts
		Body:         body,
	}

	if err := p.ch.PublishWithContext(
		ctx,
		p.exchange,
		p.routingKey,
		false, // mandatory
		false, // immediate
		pub,
	); err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	return nil
}

var _ usecase.EventPublisher = (*RabbitProducer)(nil)
