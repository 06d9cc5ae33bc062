// Package auth carries the caller's identity through the service layer.
package auth

import (
	"context"
	"errors"
)

// ErrUnauthenticated is returned when no active session backs a call.
var ErrUnauthenticated = errors.New("user not logged in")

// User is an authenticated identity.
type User struct {
	ID       string         `json:"id"`
	Email    string         `json:"email"`
	Metadata map[string]any `json:"user_metadata,omitempty"`
}

// Provider resolves a bearer token to the user it belongs to. It returns
// ErrUnauthenticated when the token names no active session.
type Provider interface {
	CurrentUser(ctx context.Context, token string) (*User, error)
}

type ctxKey struct{}

// WithUser returns a copy of ctx carrying u.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFrom returns the user stored by WithUser, or ErrUnauthenticated.
func UserFrom(ctx context.Context) (*User, error) {
	u, ok := ctx.Value(ctxKey{}).(*User)
	if !ok || u == nil || u.ID == "" {
		return nil, ErrUnauthenticated
	}
	return u, nil
}

// Require returns ErrUnauthenticated unless u is a usable identity.
func Require(u *User) error {
	if u == nil || u.ID == "" {
		return ErrUnauthenticated
	}
	return nil
}
