package events

import (
	"context"
	"encoding/json"
	"time"

	"policyangel/models"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Meta identifies one published event.
type Meta struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Envelope wraps a notification for the wire.
type Envelope struct {
	Meta Meta                `json:"meta"`
	Data models.Notification `json:"data"`
}

// Publisher fans accepted notifications out to a topic exchange so other
// PolicyAngel services can react to them.
type Publisher interface {
	Publish(ctx context.Context, key string, n models.Notification) error
	Close() error
}

type rmqPublisher struct {
	conn     *amqp091.Connection
	exchange string
	log      *zap.Logger
}

// New connects to RabbitMQ and declares the topic exchange.
func New(url, exchange string, logger *zap.Logger) (Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	defer ch.Close()
	if err := ch.ExchangeDeclare(
		exchange, "topic", true, false, false, false, nil,
	); err != nil {
		conn.Close()
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		conn.Close()
		return nil, err
	}

	return &rmqPublisher{
		conn:     conn,
		exchange: exchange,
		log:      logger,
	}, nil
}

func (r *rmqPublisher) Publish(ctx context.Context, key string, n models.Notification) error {
	ch, err := r.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	env := Envelope{
		Meta: Meta{
			ID:         uuid.NewString(),
			Source:     "policyangel-api",
			OccurredAt: time.Now(),
		},
		Data: n,
	}
	body, err := json.Marshal(env)
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(
		ctx, r.exchange, key, false, false,
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    env.Meta.ID,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err == nil {
		r.log.Info("published", zap.String("key", key), zap.String("exchange", r.exchange))
	}
	return err
}

func (r *rmqPublisher) Close() error {
	return r.conn.Close()
}
