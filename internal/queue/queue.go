package queue

import (
	"fmt"
	"sync"
	"time"

	"github.com/unclebandit/customer-service/internal/logs"
)

// TopicCustomerCreated carries a CustomerCreated after every successful add.
const TopicCustomerCreated = "customer_created"

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// Stopper is implemented by queues whose subscriptions can end on their own,
// such as a broker connection dropping.
type Stopper interface {
	Done() <-chan error
}

// InMemoryQueue delivers to subscribers on goroutines, retrying failed handlers.
type InMemoryQueue struct {
	MaxRetries int
	Backoff    time.Duration

	mu       sync.Mutex
	handlers map[string][]func(payload any) error
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		MaxRetries: 3,
		Backoff:    500 * time.Millisecond,
		handlers:   make(map[string][]func(payload any) error),
	}
}

// JobPayload wraps a message payload with retry info
type JobPayload struct {
	Payload    any
	RetryCount int
	MaxRetries int
}

// Publish sends a message to all subscribers
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := append([]func(payload any) error(nil), q.handlers[topic]...)
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	for _, handler := range handlers {
		job := JobPayload{Payload: payload, MaxRetries: q.MaxRetries}
		go q.processJob(topic, handler, job)
	}

	return nil
}

// processJob handles retries and errors
func (q *InMemoryQueue) processJob(topic string, handler func(payload any) error, job JobPayload) {
	log := logs.Log.WithField("topic", topic)
	for {
		err := handler(job.Payload)
		if err == nil {
			log.Debugf("job processed: %+v", job.Payload)
			return
		}

		job.RetryCount++
		log.WithError(err).Warnf("job failed (attempt %d/%d): %+v", job.RetryCount, job.MaxRetries, job.Payload)

		if job.RetryCount > job.MaxRetries {
			log.Errorf("job permanently failed after %d retries: %+v", job.MaxRetries, job.Payload)
			return
		}

		// linear backoff
		time.Sleep(time.Duration(job.RetryCount) * q.Backoff)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

var _ Queue = (*InMemoryQueue)(nil)
