package journal

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"trading-journal-go/internal/assets"
	"trading-journal-go/internal/auth"
	"trading-journal-go/internal/models"
	"trading-journal-go/internal/repository"
)

// IdeaInput is a new idea as submitted. Slots missing from the map stay empty.
type IdeaInput struct {
	Date   string
	Pair   string
	Signal models.Signal
	Slots  map[string]assets.FieldValue
}

// IdeaPatch is a partial idea update. Nil header fields and missing slots are
// left unchanged.
type IdeaPatch struct {
	Date   *string
	Pair   *string
	Signal *models.Signal
	Slots  map[string]assets.FieldValue
}

// Ideas is the kind-independent view of an IdeaBook.
type Ideas interface {
	Kind() models.IdeaKind
	List(ctx context.Context, user *auth.User) ([]models.Idea, error)
	Create(ctx context.Context, user *auth.User, in IdeaInput) (models.Idea, error)
	Update(ctx context.Context, user *auth.User, id uint, patch IdeaPatch) (models.Idea, error)
	Delete(ctx context.Context, user *auth.User, id uint) error
}

// IdeaBook manages one idea collection and the chart images its rows point at.
type IdeaBook[T any, P interface {
	*T
	models.Idea
}] struct {
	kind   models.IdeaKind
	table  repository.Table[T]
	assets *assets.Manager
	logger *zap.Logger
}

// NewIdeaBook creates an IdeaBook for kind. manager must write to kind's bucket.
func NewIdeaBook[T any, P interface {
	*T
	models.Idea
}](kind models.IdeaKind, table repository.Table[T], manager *assets.Manager, logger *zap.Logger) *IdeaBook[T, P] {
	return &IdeaBook[T, P]{
		kind:   kind,
		table:  table,
		assets: manager,
		logger: logger.Named("ideas").With(zap.String("kind", kind.Name)),
	}
}

// NewTraderIdeas is an IdeaBook over the weekday chart collection.
func NewTraderIdeas(table repository.Table[models.TraderIdea], manager *assets.Manager, logger *zap.Logger) *IdeaBook[models.TraderIdea, *models.TraderIdea] {
	return NewIdeaBook[models.TraderIdea, *models.TraderIdea](models.TraderIdeaKind, table, manager, logger)
}

// NewMgiStrategies is an IdeaBook over the timeframe chart collection.
func NewMgiStrategies(table repository.Table[models.MgiStrategy], manager *assets.Manager, logger *zap.Logger) *IdeaBook[models.MgiStrategy, *models.MgiStrategy] {
	return NewIdeaBook[models.MgiStrategy, *models.MgiStrategy](models.MgiStrategyKind, table, manager, logger)
}

var (
	_ Ideas = (*IdeaBook[models.TraderIdea, *models.TraderIdea])(nil)
	_ Ideas = (*IdeaBook[models.MgiStrategy, *models.MgiStrategy])(nil)
)

func (b *IdeaBook[T, P]) Kind() models.IdeaKind { return b.kind }

func (b *IdeaBook[T, P]) List(ctx context.Context, user *auth.User) ([]models.Idea, error) {
	if err := auth.Require(user); err != nil {
		return nil, err
	}
	rows, err := b.table.List(ctx, user.ID)
	if err != nil {
		b.logger.Error("Failed to list ideas", zap.String("user", user.ID), zap.Error(err))
		return nil, err
	}
	ideas := make([]models.Idea, len(rows))
	for i := range rows {
		ideas[i] = P(&rows[i])
	}
	return ideas, nil
}

// Create uploads the submitted charts one by one and inserts the record once
// all of them are stored. If the insert fails the uploads are removed again.
func (b *IdeaBook[T, P]) Create(ctx context.Context, user *auth.User, in IdeaInput) (models.Idea, error) {
	if err := auth.Require(user); err != nil {
		return nil, err
	}
	h, err := validateHeader(in.Date, in.Pair)
	if err != nil {
		return nil, err
	}
	if err := b.checkSlots(in.Slots); err != nil {
		return nil, err
	}

	signal := in.Signal
	if strings.TrimSpace(string(signal)) == "" {
		signal = models.SignalBuy
	}

	res, err := b.assets.Resolve(ctx, assets.Request{
		Owner:     user.ID,
		Pair:      h.pair,
		Slots:     b.kind.Slots,
		Submitted: in.Slots,
	})
	if err != nil {
		return nil, err
	}

	var row T
	idea := P(&row)
	*idea.Header() = models.IdeaHeader{
		Date:   h.date,
		Day:    h.day,
		Pair:   h.pair,
		Signal: signal,
		UserID: user.ID,
	}
	for field, value := range res.Fields {
		idea.SetSlot(field, value)
	}

	if err := b.table.Insert(ctx, &row); err != nil {
		b.logger.Error("Failed to insert idea", zap.String("user", user.ID), zap.Error(err))
		b.assets.Rollback(ctx, res)
		return nil, err
	}
	b.assets.Commit(ctx, res)

	b.logger.Info("Idea recorded", zap.Uint("id", idea.Header().ID), zap.Int("uploads", len(res.Uploaded())))
	return idea, nil
}

// Update merges patch into the user's idea id. New charts are uploaded before
// the row is written; charts the row stops referencing are removed after.
func (b *IdeaBook[T, P]) Update(ctx context.Context, user *auth.User, id uint, patch IdeaPatch) (models.Idea, error) {
	if err := auth.Require(user); err != nil {
		return nil, err
	}

	fields := repository.Fields{}
	if patch.Date != nil {
		date, day, err := validateDate(*patch.Date)
		if err != nil {
			return nil, err
		}
		fields["date"] = date
		fields["day"] = day
	}
	var pair string
	if patch.Pair != nil {
		p, err := validatePair(*patch.Pair)
		if err != nil {
			return nil, err
		}
		pair = p
		fields["pair"] = p
	}
	if patch.Signal != nil {
		fields["signal"] = *patch.Signal
	}
	if err := b.checkSlots(patch.Slots); err != nil {
		return nil, err
	}
	if len(fields) == 0 && !changesSlots(patch.Slots) {
		return nil, errNoFields
	}

	row, err := b.table.Get(ctx, user.ID, id)
	if err != nil {
		return nil, err
	}
	existing := P(row)
	if pair == "" {
		pair = existing.Header().Pair
	}

	current := make(map[string]*string, len(b.kind.Slots))
	for _, field := range b.kind.Slots {
		current[field] = existing.Slot(field)
	}

	res, err := b.assets.Resolve(ctx, assets.Request{
		Owner:     user.ID,
		Pair:      pair,
		Slots:     b.kind.Slots,
		Current:   current,
		Submitted: patch.Slots,
	})
	if err != nil {
		return nil, err
	}
	for field, value := range res.Fields {
		if value == nil {
			fields[field] = nil
			continue
		}
		fields[field] = *value
	}

	updated, err := b.table.Update(ctx, user.ID, id, fields)
	if err != nil {
		b.logger.Error("Failed to update idea", zap.Uint("id", id), zap.Error(err))
		b.assets.Rollback(ctx, res)
		return nil, err
	}
	b.assets.Commit(ctx, res)
	return P(updated), nil
}

// Delete removes every chart the idea references, then the row. Chart
// removal failures do not stop the row delete.
func (b *IdeaBook[T, P]) Delete(ctx context.Context, user *auth.User, id uint) error {
	if err := auth.Require(user); err != nil {
		return err
	}
	row, err := b.table.Get(ctx, user.ID, id)
	if err != nil {
		return err
	}

	b.assets.Purge(ctx, models.FilledSlots(b.kind, P(row)))

	if err := b.table.Delete(ctx, user.ID, id); err != nil {
		return err
	}
	b.logger.Info("Idea deleted", zap.Uint("id", id))
	return nil
}

func (b *IdeaBook[T, P]) checkSlots(slots map[string]assets.FieldValue) error {
	for field := range slots {
		if !b.kind.HasSlot(field) {
			return invalid(field, "unknown chart slot for %s ideas", b.kind.Name)
		}
	}
	return nil
}

func changesSlots(slots map[string]assets.FieldValue) bool {
	for _, v := range slots {
		if v.Action() != assets.Unchanged {
			return true
		}
	}
	return false
}
