package queue

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher hands entity change events to the broker.
type Publisher interface {
	Publish(ctx context.Context, ev EntityChangedEvent) error
}

// NopPublisher drops every event.  It is used when no broker URL is
// configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, EntityChangedEvent) error { return nil }

// AMQPPublisher publishes events to a durable RabbitMQ queue.  A fresh
// connection is dialed per event; write volume is low and this keeps the
// publisher free of shared connection state.
type AMQPPublisher struct {
	URL   string
	Queue string
	Log   *zap.Logger
}

// NewAMQPPublisher returns a publisher for url/queue, or NopPublisher when
// url is empty.
func NewAMQPPublisher(url, queue string, log *zap.Logger) Publisher {
	if url == "" {
		return NopPublisher{}
	}
	return &AMQPPublisher{URL: url, Queue: queue, Log: log}
}

// Publish sends ev as a persistent JSON message routed to the queue via the
// default exchange.  Errors are logged and returned so the caller can
// choose to ignore them.
func (p *AMQPPublisher) Publish(ctx context.Context, ev EntityChangedEvent) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		p.Log.Warn("rabbitmq: dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.Log.Warn("rabbitmq: channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(p.Queue, true, false, false, false, nil); err != nil {
		p.Log.Warn("rabbitmq: queue declare failed", zap.String("queue", p.Queue), zap.Error(err))
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.EventID,
		Timestamp:    ev.OccurredAt,
		Type:         ev.Entity + "." + ev.Action,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.Queue, false, false, pub); err != nil {
		p.Log.Warn("rabbitmq: publish failed", zap.String("event_id", ev.EventID), zap.Error(err))
		return err
	}
	return nil
}
