package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"trading-journal-go/internal/repository"
)

// Table is a gorm-backed repository.Table.
type Table[T any] struct {
	db   *gorm.DB
	name string
}

// NewTable binds T rows to the named table.
func NewTable[T any](db *gorm.DB, name string) *Table[T] {
	return &Table[T]{db: db, name: name}
}

func (t *Table[T]) scoped(ctx context.Context, ownerID string) *gorm.DB {
	return t.db.WithContext(ctx).Table(t.name).Where("user_id = ?", ownerID)
}

func (t *Table[T]) List(ctx context.Context, ownerID string) ([]T, error) {
	var rows []T
	if err := t.scoped(ctx, ownerID).Order("date desc").Order("id desc").Find(&rows).Error; err != nil {
		return nil, dbError("list "+t.name, err)
	}
	return rows, nil
}

func (t *Table[T]) Get(ctx context.Context, ownerID string, id uint) (*T, error) {
	var row T
	err := t.scoped(ctx, ownerID).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.NotFound(t.name, id)
	}
	if err != nil {
		return nil, dbError("get "+t.name, err)
	}
	return &row, nil
}

func (t *Table[T]) Insert(ctx context.Context, rec *T) error {
	if err := t.db.WithContext(ctx).Table(t.name).Create(rec).Error; err != nil {
		return dbError("insert "+t.name, err)
	}
	return nil
}

func (t *Table[T]) Update(ctx context.Context, ownerID string, id uint, fields repository.Fields) (*T, error) {
	res := t.scoped(ctx, ownerID).Where("id = ?", id).Updates(map[string]any(fields))
	if res.Error != nil {
		return nil, dbError("update "+t.name, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, repository.NotFound(t.name, id)
	}
	return t.Get(ctx, ownerID, id)
}

func (t *Table[T]) Delete(ctx context.Context, ownerID string, id uint) error {
	res := t.scoped(ctx, ownerID).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return dbError("delete "+t.name, res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.NotFound(t.name, id)
	}
	return nil
}

func dbError(op string, err error) error {
	return &repository.BackendError{
		Message: fmt.Sprintf("failed to %s", op),
		Details: err.Error(),
		Status:  500,
	}
}

var _ repository.Table[struct{}] = (*Table[struct{}])(nil)
