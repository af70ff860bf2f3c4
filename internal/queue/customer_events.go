package queue

import (
	"context"
	"encoding/json"
	"fmt"

	appErrors "github.com/unclebandit/customer-service/internal/errors"
	"github.com/unclebandit/customer-service/internal/logs"
	"github.com/unclebandit/customer-service/internal/repository"
)

type CustomerCreated struct {
	CustomerID int `json:"customer_id"`
}

// DecodeCustomerCreated accepts the in-memory value or an AMQP body.
func DecodeCustomerCreated(payload any) (CustomerCreated, error) {
	switch p := payload.(type) {
	case CustomerCreated:
		return p, nil
	case *CustomerCreated:
		if p == nil {
			return CustomerCreated{}, fmt.Errorf("nil customer_created payload")
		}
		return *p, nil
	case []byte:
		var ev CustomerCreated
		if err := json.Unmarshal(p, &ev); err != nil {
			return CustomerCreated{}, fmt.Errorf("invalid customer_created payload: %w", err)
		}
		return ev, nil
	default:
		return CustomerCreated{}, fmt.Errorf("unexpected payload type %T", payload)
	}
}

// StartCustomerCreatedSubscriber logs every newly created customer after
// loading it back from the repository.
func StartCustomerCreatedSubscriber(q Queue, repo repository.CustomerRepositoryInterface) error {
	return q.Subscribe(TopicCustomerCreated, func(payload any) error {
		ev, err := DecodeCustomerCreated(payload)
		if err != nil {
			logs.Log.WithError(err).Warn("dropping malformed event")
			return nil // no retry
		}

		log := logs.Log.WithField("customer_id", ev.CustomerID)
		customer, err := repo.FindByID(context.Background(), ev.CustomerID)
		if err != nil {
			if appErrors.IsNotFound(err) {
				log.Warn("customer not found for event")
				return nil
			}
			return err // retry
		}

		log.WithFields(map[string]any{
			"name":    deref(customer.Name),
			"address": deref(customer.Address),
		}).Info("📩 customer created")
		return nil
	})
}

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
