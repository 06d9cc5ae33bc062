package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"trading-journal-go/internal/auth"
	"trading-journal-go/internal/repository"
)

var _ auth.Provider = (*Client)(nil)

// CurrentUser resolves an access token through the hosted auth service.
func (c *Client) CurrentUser(ctx context.Context, token string) (*auth.User, error) {
	if token == "" {
		return nil, auth.ErrUnauthenticated
	}

	var user auth.User
	req := c.client.R().
		SetHeader("apikey", c.apiKey).
		SetAuthToken(token).
		SetResult(&user)

	_, err := c.doRequest(ctx, http.MethodGet, authPath+"/user", req)
	if err != nil {
		var be *repository.BackendError
		if errors.As(err, &be) && (be.Status == http.StatusUnauthorized || be.Status == http.StatusForbidden) {
			return nil, auth.ErrUnauthenticated
		}
		c.logger.Error("Failed to get current user", zap.Error(err))
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}

	if _, err := uuid.Parse(user.ID); err != nil {
		return nil, fmt.Errorf("auth service returned invalid user id %q: %w", user.ID, err)
	}
	return &user, nil
}
