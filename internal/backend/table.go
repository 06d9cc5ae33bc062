package backend

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"

	"trading-journal-go/internal/repository"
)

// Table is a repository.Table served by the backend's REST interface.
type Table[T any] struct {
	c    *Client
	name string
}

// NewTable binds T rows to the named remote table.
func NewTable[T any](c *Client, name string) *Table[T] {
	return &Table[T]{c: c, name: name}
}

func (t *Table[T]) path() string { return restPath + "/" + t.name }

func (t *Table[T]) scoped(ownerID string) *resty.Request {
	return t.c.client.R().
		SetHeader("Accept", "application/json").
		SetQueryParam("user_id", "eq."+ownerID)
}

func (t *Table[T]) returning(req *resty.Request) *resty.Request {
	return req.
		SetHeader("Content-Type", "application/json").
		SetHeader("Prefer", "return=representation")
}

func (t *Table[T]) List(ctx context.Context, ownerID string) ([]T, error) {
	rows := []T{}
	req := t.scoped(ownerID).
		SetQueryParam("select", "*").
		SetQueryParam("order", "date.desc,id.desc").
		SetResult(&rows)

	if _, err := t.c.doRequest(ctx, http.MethodGet, t.path(), req); err != nil {
		return nil, err
	}
	return rows, nil
}

func (t *Table[T]) Get(ctx context.Context, ownerID string, id uint) (*T, error) {
	var rows []T
	req := t.scoped(ownerID).
		SetQueryParam("select", "*").
		SetQueryParam("id", eq(id)).
		SetQueryParam("limit", "1").
		SetResult(&rows)

	if _, err := t.c.doRequest(ctx, http.MethodGet, t.path(), req); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, repository.NotFound(t.name, id)
	}
	return &rows[0], nil
}

func (t *Table[T]) Insert(ctx context.Context, rec *T) error {
	var rows []T
	req := t.returning(t.c.client.R()).
		SetBody([]*T{rec}).
		SetResult(&rows)

	if _, err := t.c.doRequest(ctx, http.MethodPost, t.path(), req); err != nil {
		return err
	}
	if len(rows) == 0 {
		return &repository.BackendError{Message: "Insert operation returned no data.", Status: http.StatusInternalServerError}
	}
	*rec = rows[0]
	return nil
}

func (t *Table[T]) Update(ctx context.Context, ownerID string, id uint, fields repository.Fields) (*T, error) {
	var rows []T
	req := t.returning(t.scoped(ownerID)).
		SetQueryParam("id", eq(id)).
		SetBody(map[string]any(fields)).
		SetResult(&rows)

	if _, err := t.c.doRequest(ctx, http.MethodPatch, t.path(), req); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, repository.NotFound(t.name, id)
	}
	return &rows[0], nil
}

func (t *Table[T]) Delete(ctx context.Context, ownerID string, id uint) error {
	var rows []T
	req := t.returning(t.scoped(ownerID)).
		SetQueryParam("id", eq(id)).
		SetResult(&rows)

	if _, err := t.c.doRequest(ctx, http.MethodDelete, t.path(), req); err != nil {
		return err
	}
	if len(rows) == 0 {
		return repository.NotFound(t.name, id)
	}
	return nil
}

func eq(id uint) string { return "eq." + strconv.FormatUint(uint64(id), 10) }

var _ repository.Table[struct{}] = (*Table[struct{}])(nil)
