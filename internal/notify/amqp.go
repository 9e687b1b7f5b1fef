package notify

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Exchange is the fanout exchange shop records are published to.
const Exchange = "burgershop.records"

const publishTimeout = 10 * time.Second

var _ Emitter = (*AMQPEmitter)(nil)

// AMQPEmitter publishes records to a RabbitMQ fanout exchange. Publish
// failures are logged and swallowed; a broken channel is re-dialed on the
// next emit.
type AMQPEmitter struct {
	url string
	lg  *zap.Logger

	mu      sync.Mutex
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

// NewAMQPEmitter dials the broker and declares the records exchange.
func NewAMQPEmitter(url string, lg *zap.Logger) (*AMQPEmitter, error) {
	e := &AMQPEmitter{url: url, lg: lg}
	if err := e.connect(); err != nil {
		return nil, errors.Wrap(err, "connect to broker")
	}
	return e, nil
}

func (e *AMQPEmitter) connect() error {
	conn, err := amqp091.Dial(e.url)
	if err != nil {
		return errors.Wrap(err, "dial")
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return errors.Wrap(err, "open channel")
	}
	if err := channel.ExchangeDeclare(Exchange, "fanout", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return errors.Wrap(err, "declare exchange")
	}

	e.conn = conn
	e.channel = channel
	return nil
}

func (e *AMQPEmitter) Emit(ctx context.Context, rec Record) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := e.publish(ctx, rec); err != nil {
		e.lg.Warn("record emission failed",
			zap.String("record_id", rec.ID),
			zap.String("type", string(rec.Type)),
			zap.Error(err),
		)
	}
}

func (e *AMQPEmitter) publish(ctx context.Context, rec Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.conn == nil || e.conn.IsClosed() {
		if err := e.connect(); err != nil {
			return errors.Wrap(err, "reconnect")
		}
	}

	return e.channel.PublishWithContext(ctx, Exchange, "", false, false, amqp091.Publishing{
		ContentType: "application/json",
		MessageId:   rec.ID,
		Timestamp:   rec.At,
		Type:        string(rec.Type),
		Body:        rec.JSON(),
	})
}

// Close shuts down the broker connection.
func (e *AMQPEmitter) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.channel != nil {
		e.channel.Close()
	}
	if e.conn != nil {
		return e.conn.Close()
	}
	return nil
}
