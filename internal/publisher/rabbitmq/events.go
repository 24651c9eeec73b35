package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"locshare/internal/model"
	"locshare/internal/service/arrival"

	amqp "github.com/rabbitmq/amqp091-go"
)

var _ arrival.Notifier = (*EventPublisher)(nil)

const (
	exchangeName = "locshare.events"
	queueName    = "arrival_notifications"
)

// EventPublisher fans out arrival and auth events over RabbitMQ
type EventPublisher struct {
	ch *amqp.Channel
}

func NewEventPublisher(conn *amqp.Connection) (*EventPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchangeName, "fanout", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(queueName, "", exchangeName, false, nil); err != nil {
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	return &EventPublisher{ch: ch}, nil
}

type eventMessage struct {
	Type       string `json:"type"`
	Title      string `json:"title,omitempty"`
	Message    string `json:"message,omitempty"`
	MemberID   string `json:"member_id"`
	CircleID   string `json:"circle_id,omitempty"`
	LocationID string `json:"location_id,omitempty"`
	Timestamp  int64  `json:"timestamp"`
}

// NotifyArrival publishes the one-shot arrival notification
func (p *EventPublisher) NotifyArrival(ctx context.Context, arr model.Arrival) error {
	return p.publish(ctx, eventMessage{
		Type:       "arrival",
		Title:      arr.Title,
		Message:    arr.Message,
		MemberID:   arr.MemberID,
		CircleID:   arr.CircleID,
		LocationID: arr.LocationID,
		Timestamp:  arr.Timestamp.Unix(),
	})
}

// NotifyAuthExpired signals that the member must re-authenticate
func (p *EventPublisher) NotifyAuthExpired(ctx context.Context, memberID string) error {
	return p.publish(ctx, eventMessage{
		Type:      "auth_expired",
		MemberID:  memberID,
		Timestamp: time.Now().Unix(),
	})
}

func (p *EventPublisher) publish(ctx context.Context, msg eventMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	return p.ch.PublishWithContext(ctx, exchangeName, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}
