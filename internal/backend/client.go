// Package backend talks to the managed backend that hosts identities,
// journal tables and chart images.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"trading-journal-go/internal/config"
	"trading-journal-go/internal/repository"
)

const (
	authPath    = "/auth/v1"
	restPath    = "/rest/v1"
	storagePath = "/storage/v1"
)

// Client is a REST client for the managed backend. Table and storage calls
// authenticate with the service key; identity lookups use the caller's token.
type Client struct {
	client  *resty.Client
	baseURL string
	apiKey  string
	logger  *zap.Logger
	limiter *rate.Limiter
}

// NewClient creates a backend client from cfg.
func NewClient(cfg *config.Backend, logger *zap.Logger) *Client {
	baseURL := strings.TrimRight(cfg.URL, "/")

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("apikey", cfg.ServiceKey).
		SetAuthToken(cfg.ServiceKey)

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = cfg.ServiceKey
	}

	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	return &Client{
		client:  client,
		baseURL: baseURL,
		apiKey:  apiKey,
		logger:  logger.Named("backend"),
		limiter: rate.NewLimiter(limit, burst),
	}
}

// apiError covers the error bodies of the auth, rest and storage services.
type apiError struct {
	Message          string          `json:"message"`
	Msg              string          `json:"msg"`
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
	Details          string          `json:"details"`
	Hint             string          `json:"hint"`
	Code             json.RawMessage `json:"code"`
	ErrorCode        string          `json:"error_code"`
}

// doRequest waits for the limiter and executes req once. Failures come back
// as *repository.BackendError; nothing is retried.
func (c *Client) doRequest(ctx context.Context, method, path string, req *resty.Request) (*resty.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	c.logger.Debug("Executing request", zap.String("method", method), zap.String("url", c.baseURL+path))
	resp, err := req.SetContext(ctx).Execute(method, path)
	if err != nil {
		return nil, &repository.BackendError{
			Message: fmt.Sprintf("%s %s failed", method, path),
			Details: err.Error(),
			Status:  http.StatusBadGateway,
		}
	}
	if resp.IsError() {
		return resp, responseError(resp)
	}
	return resp, nil
}

func responseError(resp *resty.Response) *repository.BackendError {
	be := &repository.BackendError{Status: resp.StatusCode()}

	var body apiError
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		be.Message = strings.TrimSpace(resp.String())
		if be.Message == "" {
			be.Message = resp.Status()
		}
		return be
	}

	be.Message = firstNonEmpty(body.Message, body.Msg, body.ErrorDescription, body.Error, resp.Status())
	be.Details = body.Details
	be.Hint = body.Hint
	be.Code = firstNonEmpty(strings.Trim(string(body.Code), `"`), body.ErrorCode)
	if body.Error != "" && body.Error != be.Message && be.Code == "" {
		be.Code = body.Error
	}
	return be
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
