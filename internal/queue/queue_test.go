package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/customer-service/internal/errors"
	"github.com/unclebandit/customer-service/internal/model"
)

func TestPublishWithoutSubscribers(t *testing.T) {
	q := NewInMemoryQueue()
	err := q.Publish(TopicCustomerCreated, CustomerCreated{CustomerID: 1})
	assert.EqualError(t, err, "no subscribers for topic customer_created")
}

func TestPublishDeliversToEverySubscriber(t *testing.T) {
	q := NewInMemoryQueue()
	got := make(chan any, 2)
	for i := 0; i < 2; i++ {
		require.NoError(t, q.Subscribe("t", func(p any) error {
			got <- p
			return nil
		}))
	}

	require.NoError(t, q.Publish("t", 7))

	for i := 0; i < 2; i++ {
		select {
		case p := <-got:
			assert.Equal(t, 7, p)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for delivery")
		}
	}
}

func TestFailedJobIsRetriedUntilLimit(t *testing.T) {
	q := NewInMemoryQueue()
	q.MaxRetries = 2
	q.Backoff = time.Millisecond

	var wg sync.WaitGroup
	wg.Add(3) // first attempt + 2 retries
	var mu sync.Mutex
	calls := 0
	require.NoError(t, q.Subscribe("t", func(any) error {
		mu.Lock()
		calls++
		mu.Unlock()
		wg.Done()
		return errors.New("boom")
	}))

	require.NoError(t, q.Publish("t", "x"))
	wg.Wait()

	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, calls)
}

func TestDecodeCustomerCreated(t *testing.T) {
	ev, err := DecodeCustomerCreated([]byte(`{"customer_id":5}`))
	require.NoError(t, err)
	assert.Equal(t, 5, ev.CustomerID)

	ev, err = DecodeCustomerCreated(CustomerCreated{CustomerID: 6})
	require.NoError(t, err)
	assert.Equal(t, 6, ev.CustomerID)

	_, err = DecodeCustomerCreated([]byte(`nope`))
	assert.Error(t, err)

	_, err = DecodeCustomerCreated(42)
	assert.EqualError(t, err, "unexpected payload type int")
}

type fakeAcknowledger struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.acked = true
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	f.nacked = true
	f.requeue = requeue
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return nil
}

func TestHandleDeliveryAcksOnSuccess(t *testing.T) {
	ack := &fakeAcknowledger{}
	var body []byte

	handleDelivery("t", amqp.Delivery{Acknowledger: ack, Body: []byte(`{"customer_id":1}`)}, func(p any) error {
		body = p.([]byte)
		return nil
	})

	assert.True(t, ack.acked)
	assert.False(t, ack.nacked)
	assert.JSONEq(t, `{"customer_id":1}`, string(body))
}

func TestHandleDeliveryRequeuesOnce(t *testing.T) {
	failing := func(any) error { return errors.New("db down") }

	first := &fakeAcknowledger{}
	handleDelivery("t", amqp.Delivery{Acknowledger: first}, failing)
	assert.True(t, first.nacked)
	assert.True(t, first.requeue)

	again := &fakeAcknowledger{}
	handleDelivery("t", amqp.Delivery{Acknowledger: again, Redelivered: true}, failing)
	assert.True(t, again.nacked)
	assert.False(t, again.requeue)
}

type stubRepo struct {
	customers map[int]*model.Customer
	findErr   error
}

func (s *stubRepo) Save(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	return c, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id int) (*model.Customer, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	c, ok := s.customers[id]
	if !ok {
		return nil, appErrors.NewCustomerNotFound(id)
	}
	return c, nil
}

func (s *stubRepo) DeleteByID(ctx context.Context, id int) error { return nil }

// capturingQueue records the subscribed handler so tests can call it directly.
type capturingQueue struct {
	handler func(any) error
}

func (c *capturingQueue) Publish(string, any) error { return nil }

func (c *capturingQueue) Subscribe(topic string, h func(any) error) error {
	c.handler = h
	return nil
}

func TestCustomerCreatedSubscriber(t *testing.T) {
	name := "Jane Smith"
	repo := &stubRepo{customers: map[int]*model.Customer{1: {ID: 1, Name: &name}}}
	q := &capturingQueue{}
	require.NoError(t, StartCustomerCreatedSubscriber(q, repo))

	assert.NoError(t, q.handler(CustomerCreated{CustomerID: 1}))
	assert.NoError(t, q.handler(CustomerCreated{CustomerID: 2}), "unknown customers are not retried")
	assert.NoError(t, q.handler("garbage"), "malformed events are dropped")

	repo.findErr = appErrors.NewPersistenceError("find", errors.New("db down"))
	assert.Error(t, q.handler(CustomerCreated{CustomerID: 1}), "store failures are retried")
}

func TestConsumeReportsClosedDeliveries(t *testing.T) {
	q := &AMQPQueue{done: make(chan error, 1)}
	msgs := make(chan amqp.Delivery, 1)
	ack := &fakeAcknowledger{}
	msgs <- amqp.Delivery{Acknowledger: ack, Body: []byte(`{"customer_id":1}`)}
	close(msgs)

	q.consume(TopicCustomerCreated, msgs, func(any) error { return nil })

	assert.True(t, ack.acked)
	select {
	case err := <-q.Done():
		assert.EqualError(t, err, "delivery channel for customer_created closed")
	default:
		t.Fatal("closed delivery channel was not reported")
	}
}

func TestFailReportsFirstErrorOnly(t *testing.T) {
	q := &AMQPQueue{done: make(chan error, 1)}

	q.fail(errors.New("first"))
	q.fail(errors.New("second"))

	assert.EqualError(t, <-q.Done(), "first")
	_, open := <-q.Done()
	assert.False(t, open)
}
