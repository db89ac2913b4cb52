package reporting

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

// publisher is the subset of *amqp091.Channel the reporter needs.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// AMQPReporter publishes events as persistent JSON messages to a direct
// exchange. Publishing is serialized because an AMQP channel is not safe for
// concurrent use.
type AMQPReporter struct {
	conn     *amqp091.Connection
	channel  publisher
	exchange string
	queue    string
	log      *zap.SugaredLogger
	mu       sync.Mutex
}

// NewAMQPReporter dials url and declares the exchange, the queue and their
// binding (routing key = queue name).
func NewAMQPReporter(url, exchange, queue string, log *zap.SugaredLogger) (*AMQPReporter, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declare(channel, exchange, queue); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return &AMQPReporter{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		queue:    queue,
		log:      log,
	}, nil
}

func declare(ch *amqp091.Channel, exchange, queue string) error {
	if err := ch.ExchangeDeclare(exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(queue, queue, exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// Report publishes the event. Failures are logged and swallowed.
func (r *AMQPReporter) Report(ctx context.Context, e Event) {
	body, err := json.Marshal(e)
	if err != nil {
		r.log.Warnw("failed to encode error report", "error", err)
		return
	}

	// The request may already be finished; do not inherit its cancellation.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	r.mu.Lock()
	defer r.mu.Unlock()

	err = r.channel.PublishWithContext(ctx, r.exchange, r.queue, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    e.OccurredAt,
		Type:         "error_report",
		Body:         body,
	})
	if err != nil {
		r.log.Warnw("failed to publish error report", "error", err, "code", e.Code)
	}
}

// Close closes the channel and the connection.
func (r *AMQPReporter) Close() error {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
