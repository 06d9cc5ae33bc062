// Package repository defines the owner-scoped table contract shared by the
// local database and the managed backend.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when an id has no row owned by the caller.
var ErrNotFound = errors.New("record not found")

// NotFound wraps ErrNotFound with the missing id.
func NotFound(table string, id uint) error {
	return fmt.Errorf("%s %d: %w", table, id, ErrNotFound)
}

// Fields is a partial update keyed by column name. A nil value clears the column.
type Fields map[string]any

// Table is one owner-scoped collection of T rows. Every method filters by
// ownerID so a caller can only see and change its own rows.
type Table[T any] interface {
	// List returns the owner's rows, newest date first.
	List(ctx context.Context, ownerID string) ([]T, error)
	Get(ctx context.Context, ownerID string, id uint) (*T, error)
	// Insert stores rec and fills in the identifier the store assigned.
	Insert(ctx context.Context, rec *T) error
	Update(ctx context.Context, ownerID string, id uint, fields Fields) (*T, error)
	Delete(ctx context.Context, ownerID string, id uint) error
}

// BackendError is a failed remote or database operation.
type BackendError struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`
	Code    string `json:"code,omitempty"`
	Status  int    `json:"status"`
}

func (e *BackendError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Details != "" {
		b.WriteString(" Details: ")
		b.WriteString(e.Details)
	}
	if e.Code != "" {
		fmt.Fprintf(&b, " [Code: %s]", e.Code)
	}
	return b.String()
}
