package queue

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Queue names. Both are durable and published through the default
// exchange with the queue name as routing key.
const (
	KitchenQueue  = "kitchen.new_order"
	DBChangeQueue = "pos.db_change"
)

// Publisher sends order events to RabbitMQ. The connection is opened on
// first use and re-dialed after the broker drops it.
type Publisher struct {
	url string
	log logrus.FieldLogger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewPublisher returns a Publisher for the broker at url. No connection is
// made until the first publish.
func NewPublisher(url string, log logrus.FieldLogger) *Publisher {
	return &Publisher{url: url, log: log}
}

// PublishKitchenOrder sends ev to the kitchen queue.
func (p *Publisher) PublishKitchenOrder(ctx context.Context, ev KitchenOrderEvent) error {
	return p.publish(ctx, KitchenQueue, ev)
}

// PublishDBChange sends ev to the change feed queue.
func (p *Publisher) PublishDBChange(ctx context.Context, ev DBChangeEvent) error {
	return p.publish(ctx, DBChangeQueue, ev)
}

func (p *Publisher) publish(ctx context.Context, queue string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
		p.reset()
		return errors.Wrapf(err, "publish to %s", queue)
	}
	return nil
}

// channel returns an open channel, dialing when needed. p.mu must be held.
func (p *Publisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() && p.conn != nil && !p.conn.IsClosed() {
		return p.ch, nil
	}
	p.reset()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, errors.Wrap(err, "dial broker")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "open channel")
	}
	for _, q := range []string{KitchenQueue, DBChangeQueue} {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, errors.Wrapf(err, "declare queue %s", q)
		}
	}
	p.conn, p.ch = conn, ch
	p.log.WithField("queues", []string{KitchenQueue, DBChangeQueue}).Info("connected to rabbitmq")
	return ch, nil
}

func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.ch, p.conn = nil, nil
}

// Close releases the broker connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
	return nil
}
