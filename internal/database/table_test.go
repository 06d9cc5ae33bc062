package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"trading-journal-go/internal/models"
	"trading-journal-go/internal/repository"
)

const (
	alice = "4b6f3d1e-6f3b-4a8e-9a51-7f0d5c2c9e11"
	bob   = "9d2a1c44-0c1f-4b7e-8f3e-2a6b1d7c5e90"
)

// setupTest opens a fresh in-memory database per test.
func setupTest(t *testing.T) *gorm.DB {
	db, err := NewDatabase("file::memory:")
	require.NoError(t, err)
	return db
}

func seedTrade(t *testing.T, table *Table[models.Trade], owner, date, pair string) *models.Trade {
	rec := &models.Trade{
		Date:    date,
		Pair:    pair,
		Signal:  models.SignalBuy,
		RiskUSD: models.NewAmount(10),
		GainUSD: models.NewAmount(12.5),
		UserID:  owner,
	}
	require.NoError(t, table.Insert(context.Background(), rec))
	return rec
}

func TestTable_ListScopedAndOrdered(t *testing.T) {
	// Arrange
	db := setupTest(t)
	trades := NewTable[models.Trade](db, models.PersonalAccount.Table)
	ctx := context.Background()

	first := seedTrade(t, trades, alice, "2024-01-10", "EURUSD")
	seedTrade(t, trades, alice, "2024-03-01", "GBPUSD")
	seedTrade(t, trades, alice, "2024-01-10", "USDJPY")
	seedTrade(t, trades, bob, "2024-05-05", "XAUUSD")

	// Act
	rows, err := trades.List(ctx, alice)

	// Assert
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.NotZero(t, first.ID)
	assert.Equal(t, "GBPUSD", rows[0].Pair)
	assert.Equal(t, "USDJPY", rows[1].Pair, "same date falls back to newest id")
	assert.Equal(t, "EURUSD", rows[2].Pair)
	assert.Equal(t, "12.5", rows[0].GainUSD.String())
	for _, r := range rows {
		assert.Equal(t, alice, r.UserID)
	}
}

func TestTable_AccountsAreSeparate(t *testing.T) {
	db := setupTest(t)
	personal := NewTable[models.Trade](db, models.PersonalAccount.Table)
	funded := NewTable[models.Trade](db, models.FundedAccount.Table)

	seedTrade(t, personal, alice, "2024-01-10", "EURUSD")

	rows, err := funded.List(context.Background(), alice)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestTable_Update(t *testing.T) {
	db := setupTest(t)
	trades := NewTable[models.Trade](db, models.FundedAccount.Table)
	ctx := context.Background()
	rec := seedTrade(t, trades, alice, "2024-01-10", "EURUSD")

	t.Run("Partial merge", func(t *testing.T) {
		updated, err := trades.Update(ctx, alice, rec.ID, repository.Fields{
			"gain_usd": models.NewAmount(-3),
			"pair":     "EURGBP",
		})

		require.NoError(t, err)
		assert.Equal(t, "EURGBP", updated.Pair)
		assert.Equal(t, "-3", updated.GainUSD.String())
		assert.Equal(t, "10", updated.RiskUSD.String(), "untouched column keeps its value")
		assert.Equal(t, "2024-01-10", updated.Date)
	})

	t.Run("Other owner cannot update", func(t *testing.T) {
		_, err := trades.Update(ctx, bob, rec.ID, repository.Fields{"pair": "HACKED"})
		assert.ErrorIs(t, err, repository.ErrNotFound)

		got, err := trades.Get(ctx, alice, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, "EURGBP", got.Pair)
	})

	t.Run("Missing id", func(t *testing.T) {
		_, err := trades.Update(ctx, alice, 999, repository.Fields{"pair": "X"})
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestTable_Delete(t *testing.T) {
	db := setupTest(t)
	trades := NewTable[models.Trade](db, models.PersonalAccount.Table)
	ctx := context.Background()
	rec := seedTrade(t, trades, alice, "2024-01-10", "EURUSD")

	err := trades.Delete(ctx, bob, rec.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, trades.Delete(ctx, alice, rec.ID))

	_, err = trades.Get(ctx, alice, rec.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, trades.Delete(ctx, alice, rec.ID), repository.ErrNotFound)
}

func TestTable_IdeaSlots(t *testing.T) {
	db := setupTest(t)
	ideas := NewTable[models.MgiStrategy](db, models.MgiStrategyKind.Table)
	ctx := context.Background()
	url := "https://store/object/public/mgi-images/u/a.png"

	rec := &models.MgiStrategy{
		IdeaHeader: models.IdeaHeader{Date: "2024-02-02", Pair: "NAS100", Signal: models.SignalSell, UserID: alice},
		DailyChart: &url,
	}
	require.NoError(t, ideas.Insert(ctx, rec))

	updated, err := ideas.Update(ctx, alice, rec.ID, repository.Fields{"daily_chart": nil, "pnl_chart": url})
	require.NoError(t, err)

	assert.Nil(t, updated.DailyChart)
	require.NotNil(t, updated.PnlChart)
	assert.Equal(t, url, *updated.PnlChart)
	assert.Equal(t, "NAS100", updated.Pair)
}
