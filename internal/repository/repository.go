package repository

import (
	"context"

	"github.com/unclebandit/customer-service/internal/model"
)

// Repository is the data-access contract shared by every entity store.
type Repository[T any, ID comparable] interface {
	Save(ctx context.Context, entity *T) (*T, error)
	FindByID(ctx context.Context, id ID) (*T, error)
	DeleteByID(ctx context.Context, id ID) error
}

// CustomerRepositoryInterface defines methods used by the customer controller and worker
type CustomerRepositoryInterface interface {
	Repository[model.Customer, int]
}
