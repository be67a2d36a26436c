package notify

import (
	"context"
	"encoding/json"
	"fmt"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"time"
)

const AlertExchange = "notifications_fanout"

type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Alert is the message body published for every notification.
type Alert struct {
	To      string    `json:"to"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	SentAt  time.Time `json:"sent_at"`
}

// AMQPSender publishes alerts to a fanout exchange; a mail relay or any other
// subscriber picks them up from there.
type AMQPSender struct {
	pub      publisher
	exchange string
	log      *zap.Logger
	closeFn  func() error
}

func NewAMQPSender(pub publisher, exchange string, log *zap.Logger) *AMQPSender {
	if exchange == "" {
		exchange = AlertExchange
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AMQPSender{pub: pub, exchange: exchange, log: log, closeFn: func() error { return nil }}
}

// DialAMQP connects, opens a channel and declares the alert exchange.
func DialAMQP(url string, log *zap.Logger) (*AMQPSender, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	if err := ch.ExchangeDeclare(AlertExchange, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq exchange: %w", err)
	}
	s := NewAMQPSender(ch, AlertExchange, log)
	s.closeFn = func() error {
		_ = ch.Close()
		return conn.Close()
	}
	return s, nil
}

func (s *AMQPSender) Send(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return ErrNoRecipient
	}
	b, err := json.Marshal(Alert{To: to, Subject: subject, Body: body, SentAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = s.pub.PublishWithContext(ctx, s.exchange, "", false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Body:         b,
		Timestamp:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("publish alert: %w", err)
	}
	s.log.Debug("alert_published", zap.String("exchange", s.exchange), zap.String("to", to))
	return nil
}

func (s *AMQPSender) Close() error { return s.closeFn() }
