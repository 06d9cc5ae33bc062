package journal

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"trading-journal-go/internal/auth"
	"trading-journal-go/internal/models"
	"trading-journal-go/internal/repository"
	"trading-journal-go/internal/stats"
)

// TradeInput is a new trade as submitted.
type TradeInput struct {
	Date     string        `json:"date"`
	Pair     string        `json:"pair"`
	Signal   models.Signal `json:"signal"`
	RiskUSD  models.Amount `json:"risk_usd"`
	GainUSD  models.Amount `json:"gain_usd"`
	RiskPips models.Amount `json:"risk_pips"`
	GainPips models.Amount `json:"gain_pips"`
}

// TradePatch is a partial trade update. Nil fields are left unchanged.
type TradePatch struct {
	Date     *string        `json:"date"`
	Pair     *string        `json:"pair"`
	Signal   *models.Signal `json:"signal"`
	RiskUSD  *models.Amount `json:"risk_usd"`
	GainUSD  *models.Amount `json:"gain_usd"`
	RiskPips *models.Amount `json:"risk_pips"`
	GainPips *models.Amount `json:"gain_pips"`
}

// TradeBook manages the trades of one account.
type TradeBook struct {
	account models.Account
	table   repository.Table[models.Trade]
	logger  *zap.Logger
}

// NewTradeBook creates a TradeBook for account backed by table.
func NewTradeBook(account models.Account, table repository.Table[models.Trade], logger *zap.Logger) *TradeBook {
	return &TradeBook{
		account: account,
		table:   table,
		logger:  logger.Named("trades").With(zap.String("account", account.Name)),
	}
}

func (b *TradeBook) Account() models.Account { return b.account }

// List returns the user's trades, newest first.
func (b *TradeBook) List(ctx context.Context, user *auth.User) ([]models.Trade, error) {
	if err := auth.Require(user); err != nil {
		return nil, err
	}
	trades, err := b.table.List(ctx, user.ID)
	if err != nil {
		b.logger.Error("Failed to list trades", zap.String("user", user.ID), zap.Error(err))
		return nil, err
	}
	return trades, nil
}

func (b *TradeBook) Create(ctx context.Context, user *auth.User, in TradeInput) (*models.Trade, error) {
	if err := auth.Require(user); err != nil {
		return nil, err
	}
	h, err := validateHeader(in.Date, in.Pair)
	if err != nil {
		return nil, err
	}

	trade := &models.Trade{
		Date:     h.date,
		Day:      h.day,
		Pair:     h.pair,
		Signal:   in.Signal,
		RiskUSD:  in.RiskUSD,
		GainUSD:  in.GainUSD,
		RiskPips: in.RiskPips,
		GainPips: in.GainPips,
		UserID:   user.ID,
	}
	if err := b.table.Insert(ctx, trade); err != nil {
		b.logger.Error("Failed to insert trade", zap.String("user", user.ID), zap.Error(err))
		return nil, err
	}
	b.logger.Info("Trade recorded", zap.Uint("id", trade.ID), zap.String("pair", trade.Pair))
	return trade, nil
}

// Update applies patch to the user's trade id. A changed date also moves the
// derived weekday.
func (b *TradeBook) Update(ctx context.Context, user *auth.User, id uint, patch TradePatch) (*models.Trade, error) {
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
	if patch.Pair != nil {
		pair, err := validatePair(*patch.Pair)
		if err != nil {
			return nil, err
		}
		fields["pair"] = pair
	}
	if patch.Signal != nil {
		fields["signal"] = *patch.Signal
	}
	for column, v := range map[string]*models.Amount{
		"risk_usd":  patch.RiskUSD,
		"gain_usd":  patch.GainUSD,
		"risk_pips": patch.RiskPips,
		"gain_pips": patch.GainPips,
	} {
		if v != nil {
			fields[column] = *v
		}
	}
	if len(fields) == 0 {
		return nil, errNoFields
	}

	trade, err := b.table.Update(ctx, user.ID, id, fields)
	if err != nil {
		return nil, err
	}
	return trade, nil
}

func (b *TradeBook) Delete(ctx context.Context, user *auth.User, id uint) error {
	if err := auth.Require(user); err != nil {
		return err
	}
	if err := b.table.Delete(ctx, user.ID, id); err != nil {
		return err
	}
	b.logger.Info("Trade deleted", zap.Uint("id", id))
	return nil
}

// Statistics summarises every trade the user has in this account.
func (b *TradeBook) Statistics(ctx context.Context, user *auth.User) (stats.Summary, error) {
	trades, err := b.List(ctx, user)
	if err != nil {
		return stats.Summary{}, fmt.Errorf("failed to load trades for statistics: %w", err)
	}
	return stats.Calculate(trades), nil
}

// Charts returns the gain/risk series of the user's trades in unit.
func (b *TradeBook) Charts(ctx context.Context, user *auth.User, unit stats.Unit) ([]stats.Point, error) {
	trades, err := b.List(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to load trades for charts: %w", err)
	}
	return stats.Series(trades, unit), nil
}
