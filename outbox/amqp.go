package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rpupo63/reelbyte-backend/models"
)

// Message is the body published for every outbox event.
type Message struct {
	EventID    int64           `json:"event_id"`
	EntityType string          `json:"entity_type"`
	EntityID   uuid.UUID       `json:"entity_id"`
	Op         string          `json:"op"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

func newMessage(evt models.OutboxEvent) Message {
	return Message{
		EventID:    evt.ID,
		EntityType: evt.EntityType,
		EntityID:   evt.EntityID,
		Op:         evt.Op,
		OccurredAt: evt.CreatedAt,
		Data:       json.RawMessage(evt.Payload),
	}
}

// AMQPSink publishes events to a topic exchange, routed as "<entity>.<op>".
type AMQPSink struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewAMQPSink(url, exchange string) (*AMQPSink, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	return &AMQPSink{conn: conn, channel: ch, exchange: exchange}, nil
}

func (s *AMQPSink) Name() string { return "rabbitmq" }

func (s *AMQPSink) Close() {
	if s.channel != nil {
		_ = s.channel.Close()
	}
	if s.conn != nil {
		_ = s.conn.Close()
	}
}

func (s *AMQPSink) Deliver(ctx context.Context, events []models.OutboxEvent) map[int64]error {
	failures := make(map[int64]error)
	for _, evt := range events {
		body, err := json.Marshal(newMessage(evt))
		if err != nil {
			failures[evt.ID] = err
			continue
		}
		err = s.channel.PublishWithContext(ctx, s.exchange, evt.RoutingKey(), false, false, amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    strconv.FormatInt(evt.ID, 10),
			Type:         evt.RoutingKey(),
			Timestamp:    evt.CreatedAt,
			Body:         body,
		})
		if err != nil {
			failures[evt.ID] = err
		}
	}
	return failures
}
