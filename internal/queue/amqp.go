package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/streadway/amqp"

	"github.com/unclebandit/customer-service/internal/logs"
)

// AMQPQueue publishes JSON messages to durable queues named after the topic.
type AMQPQueue struct {
	conn *amqp.Connection
	ch   *amqp.Channel

	mu       sync.Mutex
	declared map[string]bool

	done     chan error
	doneOnce sync.Once
}

func DialAMQP(url string) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	q := &AMQPQueue{conn: conn, ch: ch, declared: map[string]bool{}, done: make(chan error, 1)}

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))
	go func() {
		if amqpErr, ok := <-closed; ok && amqpErr != nil {
			q.fail(fmt.Errorf("amqp connection closed: %w", amqpErr))
			return
		}
		q.fail(errors.New("amqp connection closed"))
	}()
	return q, nil
}

// Done yields one error once the connection or a consumer stops.
func (q *AMQPQueue) Done() <-chan error {
	return q.done
}

func (q *AMQPQueue) fail(err error) {
	q.doneOnce.Do(func() {
		q.done <- err
		close(q.done)
	})
}

// declare must be called with q.mu held.
func (q *AMQPQueue) declare(topic string) error {
	if q.declared[topic] {
		return nil
	}
	_, err := q.ch.QueueDeclare(
		topic, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", topic, err)
	}
	q.declared[topic] = true
	return nil
}

func (q *AMQPQueue) Publish(topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.declare(topic); err != nil {
		return err
	}
	return q.ch.Publish(
		"",
		topic,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// Subscribe consumes topic with manual acks. The handler receives the raw
// message body as []byte.
func (q *AMQPQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	if err := q.declare(topic); err != nil {
		q.mu.Unlock()
		return err
	}
	msgs, err := q.ch.Consume(
		topic,
		"",
		false, // autoAck
		false,
		false,
		false,
		nil,
	)
	q.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go q.consume(topic, msgs, handler)
	return nil
}

func (q *AMQPQueue) consume(topic string, msgs <-chan amqp.Delivery, handler func(payload any) error) {
	for d := range msgs {
		handleDelivery(topic, d, handler)
	}
	logs.Log.WithField("topic", topic).Warn("delivery channel closed")
	q.fail(fmt.Errorf("delivery channel for %s closed", topic))
}

// handleDelivery acks on success. A failed message is requeued once and
// dropped if it fails again on redelivery.
func handleDelivery(topic string, d amqp.Delivery, handler func(payload any) error) {
	log := logs.Log.WithField("topic", topic)
	if err := handler(d.Body); err != nil {
		requeue := !d.Redelivered
		log.WithError(err).WithField("requeue", requeue).Warn("failed to process message")
		if nackErr := d.Nack(false, requeue); nackErr != nil {
			log.WithError(nackErr).Error("nack failed")
		}
		return
	}
	if err := d.Ack(false); err != nil {
		log.WithError(err).Error("ack failed")
	}
}

func (q *AMQPQueue) Close() error {
	if err := q.ch.Close(); err != nil {
		q.conn.Close()
		return err
	}
	return q.conn.Close()
}

var (
	_ Queue   = (*AMQPQueue)(nil)
	_ Stopper = (*AMQPQueue)(nil)
)
