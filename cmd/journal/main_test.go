package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"trading-journal-go/internal/auth"
	"trading-journal-go/internal/config"
	"trading-journal-go/internal/journal"
	"trading-journal-go/internal/models"
)

const aliceID = "4b6f3d1e-6f3b-4a8e-9a51-7f0d5c2c9e11"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// localConfig writes a local-mode config.yml into a temp dir and returns the dir.
func localConfig(t *testing.T) (string, config.Config) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Database.DSN = filepath.Join(dir, "journal.db")
	cfg.Storage.Root = filepath.Join(dir, "storage")
	cfg.Logger.Level = "error"
	cfg.Auth.Users = []config.User{{Token: "t", ID: aliceID, Email: "alice@example.com"}}
	require.NoError(t, cfg.SaveToFile(filepath.Join(dir, "config.yml")))
	return dir, cfg
}

func TestConfigCommands(t *testing.T) {
	file := filepath.Join(t.TempDir(), "configs", "config.yml")

	out, err := run(t, "config", "init", "-o", file)
	require.NoError(t, err)
	assert.Contains(t, out, file)

	out, err = run(t, "config", "validate", "-f", file)
	require.NoError(t, err)
	assert.Contains(t, out, "local mode")

	_, err = run(t, "config", "validate", "-f", filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestStatsCommand(t *testing.T) {
	// Arrange
	dir, cfg := localConfig(t)
	a, err := newApp(cfg, zap.NewNop())
	require.NoError(t, err)
	book := a.tradeBook(models.FundedAccount)
	for _, gain := range []float64{150, 20} {
		_, err := book.Create(context.Background(), &auth.User{ID: aliceID}, journal.TradeInput{
			Date: "2024-01-15", Pair: "US30", Signal: models.SignalBuy,
			RiskUSD: models.NewAmount(100), GainUSD: models.NewAmount(gain),
		})
		require.NoError(t, err)
	}
	require.NoError(t, a.Close())

	// Act
	out, err := run(t, "--config", dir, "stats", "--account", "funded", "--user", aliceID)

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Funded account")
	assert.Contains(t, out, "$200.00")
	assert.Contains(t, out, "$170.00")
	assert.Contains(t, out, "50.0%")
}

func TestStatsCommand_BadFlags(t *testing.T) {
	dir, _ := localConfig(t)

	_, err := run(t, "--config", dir, "stats", "--account", "demo", "--user", aliceID)
	assert.ErrorContains(t, err, "unknown account")

	_, err = run(t, "--config", dir, "stats", "--user", "not-a-uuid")
	assert.ErrorContains(t, err, "invalid --user")
}

func TestNewApp_Services(t *testing.T) {
	_, cfg := localConfig(t)
	a, err := newApp(cfg, zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	svc := a.services()

	assert.Len(t, svc.Trades, len(models.Accounts))
	assert.Len(t, svc.Ideas, 2)
	assert.NotNil(t, svc.Files)
	assert.Equal(t, int64(10<<20), svc.MaxUploadBytes)

	remote := cfg
	remote.Backend.Mode = config.ModeRemote
	remote.Backend.URL = "https://example.supabase.co"
	remote.Backend.ServiceKey = "service"
	r, err := newApp(remote, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, r.services().Files)
	assert.NoError(t, r.Close())
}
