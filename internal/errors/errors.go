// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
)

// ErrMissingInput is returned when a request carries no customer payload.
var ErrMissingInput = errors.New("customer data is required")

// ErrCustomerNotFound is returned by lookups and deletes on an unknown id.
type ErrCustomerNotFound struct {
	CustomerID int
}

func (e *ErrCustomerNotFound) Error() string {
	return fmt.Sprintf("customer with ID %d not found", e.CustomerID)
}

// Helper constructor
func NewCustomerNotFound(id int) error {
	return &ErrCustomerNotFound{CustomerID: id}
}

// PersistenceError wraps a failure reported by the underlying store.
// Error() returns the store's own message so callers can surface it as is.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NewPersistenceError returns nil when err is nil.
func NewPersistenceError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}

// IsNotFound reports whether err is, or wraps, an ErrCustomerNotFound.
func IsNotFound(err error) bool {
	var nf *ErrCustomerNotFound
	return errors.As(err, &nf)
}
