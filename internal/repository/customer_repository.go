package repository

import (
	"context"
	"database/sql"
	"errors"

	appErrors "github.com/unclebandit/customer-service/internal/errors"
	"github.com/unclebandit/customer-service/internal/model"
)

// CustomerRepository is the database/sql implementation. Queries use
// $n placeholders and RETURNING, which both lib/pq and sqlite3 accept.
type CustomerRepository struct {
	DB *sql.DB
}

// Save inserts a new row and returns a copy carrying the generated id.
// Any id already set on c is ignored.
func (r *CustomerRepository) Save(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	if c == nil {
		return nil, appErrors.ErrMissingInput
	}
	query := `
        INSERT INTO customer_model (name, address, salary)
        VALUES ($1, $2, $3)
        RETURNING id
    `
	saved := *c
	saved.ID = 0
	if err := r.DB.QueryRowContext(ctx, query, c.Name, c.Address, c.Salary).Scan(&saved.ID); err != nil {
		return nil, appErrors.NewPersistenceError("save", err)
	}
	return &saved, nil
}

// FindByID fetches a customer by ID
func (r *CustomerRepository) FindByID(ctx context.Context, id int) (*model.Customer, error) {
	query := `
        SELECT id, name, address, salary
        FROM customer_model
        WHERE id = $1
    `
	var c model.Customer
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Address, &c.Salary)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NewCustomerNotFound(id)
		}
		return nil, appErrors.NewPersistenceError("find", err)
	}
	return &c, nil
}

func (r *CustomerRepository) DeleteByID(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM customer_model WHERE id = $1`, id)
	if err != nil {
		return appErrors.NewPersistenceError("delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return appErrors.NewPersistenceError("delete", err)
	}
	if n == 0 {
		return appErrors.NewCustomerNotFound(id)
	}
	return nil
}

var _ CustomerRepositoryInterface = (*CustomerRepository)(nil)
