package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// AuditConsumer reads entity change events and writes one structured log
// line per event.
type AuditConsumer struct {
	URL   string
	Queue string
	Log   *zap.Logger
}

// Run connects, declares the queue and consumes until ctx is cancelled.
// Broker failures trigger a reconnect with exponential backoff capped at
// 30s; a malformed message is rejected without requeue and the loop keeps
// going.
func (a *AuditConsumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		conn, err := amqp.Dial(a.URL)
		if err != nil {
			a.Log.Warn("audit-consumer: failed to dial broker", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = a.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		a.Log.Warn("audit-consumer: consume loop ended; reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (a *AuditConsumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		a.Log.Warn("audit-consumer: set QoS failed", zap.Error(err))
	}
	if _, err := ch.QueueDeclare(a.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(a.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := a.handleMessage(d.Body); err != nil {
				a.Log.Warn("audit-consumer: handle message failed", zap.Error(err))
				_ = d.Nack(false, false) // do not requeue to avoid tight loops
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (a *AuditConsumer) handleMessage(body []byte) error {
	var ev EntityChangedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Entity == "" || ev.Action == "" {
		return errors.New("event without entity or action")
	}
	fields := []zap.Field{
		zap.String("event_id", ev.EventID),
		zap.String("entity", ev.Entity),
		zap.String("action", ev.Action),
		zap.Time("occurred_at", ev.OccurredAt),
	}
	if ev.Entity == EntitySession {
		fields = append(fields, zap.Uint64("movie_id", ev.MovieID), zap.Uint64("theater_id", ev.TheaterID))
	} else {
		fields = append(fields, zap.Uint64("id", ev.ID))
	}
	a.Log.Info("entity changed", fields...)
	return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
