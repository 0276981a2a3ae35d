// Package events publishes resume lifecycle notifications to a message broker.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"
)

const (
	RoutingResumeParsed   = "resume.parsed"
	RoutingResumeAnalyzed = "resume.analyzed"
)

// Parsed is emitted after text has been extracted from an uploaded PDF.
type Parsed struct {
	ResumeID   string    `json:"resume_id,omitempty"`
	Filename   string    `json:"filename"`
	Strategy   string    `json:"strategy,omitempty"`
	TextLength int       `json:"text_length"`
	Sentinel   bool      `json:"sentinel"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Analyzed is emitted after a resume has been scored against a job description.
type Analyzed struct {
	Filename        string    `json:"filename"`
	ATSScore        *float64  `json:"ats_score,omitempty"`
	ATSError        string    `json:"ats_error,omitempty"`
	FeedbackError   string    `json:"feedback_error,omitempty"`
	MissingKeywords []string  `json:"missing_keywords,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// Publisher sends an event body under a routing key.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
	Close() error
}

// Nop discards every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
func (Nop) Close() error                               { return nil }

type channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type connection interface {
	Channel() (channel, error)
	IsClosed() bool
	Close() error
}

// amqpConn adapts *amqp.Connection to connection.
type amqpConn struct {
	*amqp.Connection
}

func (c amqpConn) Channel() (channel, error) {
	ch, err := c.Connection.Channel()
	if err != nil {
		return nil, err
	}
	return ch, nil
}

var errPublisherClosed = errors.New("publisher closed")

// AMQPPublisher publishes JSON bodies to a durable topic exchange. A dropped broker
// connection is redialed on the next Publish.
type AMQPPublisher struct {
	exchange string
	dial     func() (connection, error)

	mu       sync.Mutex
	conn     connection
	shutdown bool
}

// NewAMQP dials url and declares exchange as a durable topic exchange. The exchange is
// declared again after every reconnect.
func NewAMQP(url, exchange string) (*AMQPPublisher, error) {
	p := &AMQPPublisher{
		exchange: exchange,
		dial:     func() (connection, error) { return dialAMQP(url, exchange) },
	}
	conn, err := p.dial()
	if err != nil {
		return nil, err
	}
	p.conn = conn
	return p, nil
}

func dialAMQP(url, exchange string) (connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %q: %w", exchange, err)
	}
	return amqpConn{conn}, nil
}

// open returns a fresh channel, redialing first when the connection is gone.
func (p *AMQPPublisher) open() (channel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.shutdown {
		return nil, errPublisherClosed
	}
	if p.conn == nil || p.conn.IsClosed() {
		conn, err := p.dial()
		if err != nil {
			return nil, err
		}
		p.conn = conn
	}

	ch, err := p.conn.Channel()
	if err != nil {
		_ = p.conn.Close()
		p.conn = nil
		return nil, err
	}
	return ch, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", routingKey, err)
	}

	ch, err := p.open()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	return ch.Publish(
		p.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.shutdown = true
	if p.conn == nil || p.conn.IsClosed() {
		return nil
	}
	return p.conn.Close()
}
