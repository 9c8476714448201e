package rabbitmq

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends messages to durable queues named after the topic through
// the default exchange.
type Publisher struct {
	url string

	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	declared map[string]bool
}

func NewPublisher(url string) (*Publisher, error) {
	p := &Publisher{url: url, declared: make(map[string]bool)}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq: dial failed: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq: channel open failed: %w", err)
	}
	p.conn, p.ch = conn, ch
	p.declared = make(map[string]bool)
	return nil
}

func (p *Publisher) Publish(ctx context.Context, topic string, msgs ...domain.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() {
		if err := p.connect(); err != nil {
			return err
		}
	}

	if !p.declared[topic] {
		if _, err := p.ch.QueueDeclare(topic, true, false, false, false, nil); err != nil {
			return fmt.Errorf("rabbitmq: queue declare failed: %w", err)
		}
		p.declared[topic] = true
	}

	for _, m := range msgs {
		pub := amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			MessageId:    string(m.Key),
			Body:         m.Value,
		}
		if err := p.ch.PublishWithContext(ctx, "", topic, false, false, pub); err != nil {
			return fmt.Errorf("rabbitmq: publish failed: %w", err)
		}
	}
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
