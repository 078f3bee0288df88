package rabbitmq

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

var (
	ErrNotConfirmed   = errors.New("rabbitmq: publish not confirmed")
	ErrConfirmTimeout = errors.New("rabbitmq: publish confirm timeout")
)

type Publisher struct {
	mu         sync.Mutex                  // one publish+confirm round at a time
	ch         *amqp091.Channel            // AMQP channel for publishing messages
	confirms   <-chan amqp091.Confirmation // Channel to receive publish confirmations
	exchange   string                      // Exchange to publish messages to
	routingKey string                      // Routing key for the messages
}

func NewPublisher(conn *amqp091.Connection, exchange, routingKey string) (*Publisher, error) {

	if conn == nil {
		return nil, errors.New("AMQP connection is nil")
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	if err := ch.Confirm(false); err != nil {
		ch.Close()
		return nil, err
	}

	confirms := ch.NotifyPublish(make(chan amqp091.Confirmation, 16))

	return &Publisher{
		ch:         ch,
		confirms:   confirms,
		exchange:   exchange,
		routingKey: routingKey,
	}, nil
}

const confirmTimeout = 5 * time.Second

// Publish sends body and waits for the broker confirm of that message.
func (p *Publisher) Publish(ctx context.Context, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil {
		return errors.New("AMQP channel is nil")
	}

	tag := p.ch.GetNextPublishSeqNo()
	if err := p.publish(ctx, body); err != nil {
		return err
	}

	return awaitConfirm(ctx, p.confirms, tag, confirmTimeout)
}

// awaitConfirm waits for the confirm carrying tag. Confirms with a lower tag
// belong to publishes that already gave up waiting and are discarded.
func awaitConfirm(ctx context.Context, confirms <-chan amqp091.Confirmation, tag uint64, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case confirm, ok := <-confirms:
			if !ok {
				return ErrNotConfirmed
			}
			if confirm.DeliveryTag < tag {
				continue
			}
			if !confirm.Ack {
				return ErrNotConfirmed
			}
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return ErrConfirmTimeout
		}
	}
}

func (p *Publisher) publish(ctx context.Context, body []byte) error {
	return p.ch.PublishWithContext(
		ctx,
		p.exchange,
		p.routingKey,
		false,
		false,
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}

func (p *Publisher) Close() error {
	if p.ch != nil {
		return p.ch.Close()
	}
	return nil
}
