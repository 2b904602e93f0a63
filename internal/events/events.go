// Package events publishes sync log entries to RabbitMQ so other services can
// follow what was pushed to Unisender.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/foxzi/unisender-sync/internal/models"
)

// Publisher sends one sync log entry to a broker
type Publisher interface {
	Publish(e *models.SyncLogEntry) error
}

// Store persists sync log entries
type Store interface {
	Record(e *models.SyncLogEntry) error
}

// AMQPPublisher publishes entries as JSON to a durable queue
type AMQPPublisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

// Dial connects to the broker and declares the queue
func Dial(url, queue string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	q, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &AMQPPublisher{conn: conn, ch: ch, queue: q.Name}, nil
}

// Publish sends the entry to the queue
func (p *AMQPPublisher) Publish(e *models.SyncLogEntry) error {
	body, err := Encode(e)
	if err != nil {
		return err
	}

	err = p.ch.Publish(
		"",
		p.queue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    e.ID,
			Timestamp:    e.CreatedAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish sync event: %w", err)
	}
	return nil
}

// Close closes the channel and the connection
func (p *AMQPPublisher) Close() error {
	if err := p.ch.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}

// Encode returns the JSON body of a sync event
func Encode(e *models.SyncLogEntry) ([]byte, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to encode sync event: %w", err)
	}
	return body, nil
}

// Log records entries in the store and then publishes them. A failed publish
// is logged and does not fail the record.
type Log struct {
	store     Store
	publisher Publisher
	logger    *slog.Logger
}

// NewLog creates a publishing sync log
func NewLog(store Store, publisher Publisher, logger *slog.Logger) *Log {
	return &Log{
		store:     store,
		publisher: publisher,
		logger:    logger.With("component", "events"),
	}
}

// Record stores the entry and publishes it
func (l *Log) Record(e *models.SyncLogEntry) error {
	if err := l.store.Record(e); err != nil {
		return err
	}

	if err := l.publisher.Publish(e); err != nil {
		l.logger.Error("failed to publish sync event",
			"id", e.ID,
			"entity", e.Entity,
			"entity_id", e.EntityID,
			"error", err)
	}
	return nil
}
