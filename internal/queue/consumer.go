package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// KitchenDisplay consumes NEW_KITCHEN_ORDER events and appends one line per
// ticket to a log file that the pass screen tails.
type KitchenDisplay struct {
	url     string
	logPath string
	log     logrus.FieldLogger
}

// NewKitchenDisplay returns a consumer writing tickets to logPath.
func NewKitchenDisplay(url, logPath string, log logrus.FieldLogger) *KitchenDisplay {
	return &KitchenDisplay{url: url, logPath: logPath, log: log}
}

// Run consumes until ctx is cancelled, reconnecting with exponential
// backoff whenever the broker is unreachable or drops the connection.
func (k *KitchenDisplay) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(k.url)
		if err != nil {
			k.log.WithError(err).WithField("retry_in", backoff.String()).Warn("kitchen-display: dial failed")
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = k.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		k.log.WithError(err).Warn("kitchen-display: consume loop ended, reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (k *KitchenDisplay) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return errors.Wrap(err, "channel open")
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		k.log.WithError(err).Warn("kitchen-display: set QoS failed")
	}
	if _, err := ch.QueueDeclare(KitchenQueue, true, false, false, false, nil); err != nil {
		return errors.Wrap(err, "queue declare")
	}
	msgs, err := ch.Consume(KitchenQueue, "", false, false, false, false, nil)
	if err != nil {
		return errors.Wrap(err, "queue consume")
	}
	k.log.WithField("queue", KitchenQueue).Info("kitchen-display: consuming")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := k.Handle(d.Body); err != nil {
				k.log.WithError(err).Error("kitchen-display: handle message failed")
				// rejected without requeue to avoid a poison-message loop
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Handle decodes one message body and appends its ticket line.
func (k *KitchenDisplay) Handle(body []byte) error {
	var ev KitchenOrderEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return errors.Wrap(err, "unmarshal")
	}
	if ev.Type != EventNewKitchenOrder {
		return errors.Errorf("unexpected event type %q", ev.Type)
	}
	if err := os.MkdirAll(filepath.Dir(k.logPath), 0o755); err != nil {
		return errors.Wrap(err, "mkdir logs")
	}
	f, err := os.OpenFile(k.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrap(err, "open log file")
	}
	defer f.Close()

	if _, err := f.WriteString(TicketLine(ev)); err != nil {
		return errors.Wrap(err, "write log")
	}
	k.log.WithFields(logrus.Fields{"order_id": ev.OrderID, "items": len(ev.Items)}).Info("kitchen ticket printed")
	return nil
}

// TicketLine renders ev as a single log line.
func TicketLine(ev KitchenOrderEvent) string {
	items := make([]string, 0, len(ev.Items))
	for _, it := range ev.Items {
		station := "-"
		if it.StationID != nil {
			station = *it.StationID
		}
		name := it.Name
		if name == "" {
			name = it.MenuItemID
		}
		items = append(items, fmt.Sprintf("%dx %s@%s", it.Quantity, name, station))
	}
	return fmt.Sprintf("[%s] Kitchen ticket | order_id=%s | order=%s | type=%s | restaurant=%s | items=[%s]\n",
		ev.FiredAt.UTC().Format(time.RFC3339), ev.OrderID, ev.OrderNumber, ev.OrderType, ev.RestaurantID, strings.Join(items, ", "))
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
