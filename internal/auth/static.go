package auth

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/google/uuid"

	"trading-journal-go/internal/config"
)

// StaticProvider accepts a fixed set of tokens. It backs local mode.
type StaticProvider struct {
	users map[string]User
}

var _ Provider = (*StaticProvider)(nil)

// NewStaticProvider builds a provider from configured users. Every id must be a UUID.
func NewStaticProvider(users []config.User) (*StaticProvider, error) {
	p := &StaticProvider{users: make(map[string]User, len(users))}
	for _, u := range users {
		if u.Token == "" {
			return nil, fmt.Errorf("user %q has no token", u.Email)
		}
		id, err := uuid.Parse(u.ID)
		if err != nil {
			return nil, fmt.Errorf("user %q: invalid id: %w", u.Email, err)
		}
		p.users[u.Token] = User{ID: id.String(), Email: u.Email}
	}
	return p, nil
}

// CurrentUser looks token up among the configured users.
func (p *StaticProvider) CurrentUser(_ context.Context, token string) (*User, error) {
	for known, u := range p.users {
		if subtle.ConstantTimeCompare([]byte(known), []byte(token)) == 1 {
			user := u
			return &user, nil
		}
	}
	return nil, ErrUnauthenticated
}
