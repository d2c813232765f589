package store

import (
	"fmt"

	"github.com/assistravel/casedesk/internal/domain"
)

// StoreError is any failure reported by the underlying store: connectivity,
// query errors, constraint violations not claimed by a more specific type.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NotFoundError reports an update target that no longer exists.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("store: %s %d not found", e.Entity, e.ID)
}

// ValidationError carries per-field constraint messages. Client-side form
// validation produces these before the gateway is reached; the gateway also
// maps store uniqueness violations into one.
type ValidationError struct {
	Fields domain.FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d field(s)", len(e.Fields))
}
