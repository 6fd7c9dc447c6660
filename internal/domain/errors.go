package domain

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Rich errors below unwrap to one of these so
// callers can classify failures with errors.Is regardless of context
// added along the way.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrOutOfStock        = errors.New("out of stock")
	ErrInvalidOrderState = errors.New("invalid order state")
	ErrDuplicateID       = errors.New("duplicate id")
	ErrDanglingReference = errors.New("dangling reference")
	ErrStorage           = errors.New("storage failure")
)

// NotFoundError reports a missing entity by kind and id.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s: not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFound builds a NotFoundError for the given entity kind.
func NewNotFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// OutOfStockError carries everything the caller needs to report an
// unsatisfiable export quantity.
type OutOfStockError struct {
	ProductID   string
	ProductName string
	Requested   int
	Available   int
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("product %s (%s): requested %d, available %d",
		e.ProductID, e.ProductName, e.Requested, e.Available)
}

func (e *OutOfStockError) Unwrap() error { return ErrOutOfStock }

// QuantityError reports a non-positive quantity or an empty item list.
type QuantityError struct {
	Quantity int
	Reason   string
}

func (e *QuantityError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("quantity must be positive, got %d", e.Quantity)
}

func (e *QuantityError) Unwrap() error { return ErrInvalidQuantity }

// StateError reports an order operation attempted outside PENDING.
type StateError struct {
	OrderID string
	Status  OrderStatus
	Op      string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("order %s: cannot %s in state %s", e.OrderID, e.Op, e.Status)
}

func (e *StateError) Unwrap() error { return ErrInvalidOrderState }

// DuplicateIDError reports an id collision inside a repository.
type DuplicateIDError struct {
	Kind string
	ID   string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("%s %s: duplicate id", e.Kind, e.ID)
}

func (e *DuplicateIDError) Unwrap() error { return ErrDuplicateID }

// DanglingReferenceError reports a stored row pointing at an id that no
// sibling repository knows.
type DanglingReferenceError struct {
	Kind  string
	ID    string
	RefBy string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("%s references unknown %s %s", e.RefBy, e.Kind, e.ID)
}

func (e *DanglingReferenceError) Unwrap() error { return ErrDanglingReference }
