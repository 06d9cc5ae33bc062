package main

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"trading-journal-go/internal/api"
	"trading-journal-go/internal/assets"
	"trading-journal-go/internal/auth"
	"trading-journal-go/internal/backend"
	"trading-journal-go/internal/config"
	"trading-journal-go/internal/database"
	"trading-journal-go/internal/journal"
	"trading-journal-go/internal/models"
	"trading-journal-go/internal/repository"
	"trading-journal-go/internal/storage"
)

// app holds the services for one configuration. Exactly one of db and
// client is set.
type app struct {
	cfg    config.Config
	log    *zap.Logger
	db     *gorm.DB
	client *backend.Client
	store  assets.ObjectStore
	auth   auth.Provider
	files  *storage.Disk
}

func newApp(cfg config.Config, log *zap.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log}

	switch cfg.Backend.Mode {
	case config.ModeLocal:
		db, err := database.NewDatabase(cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		log.Info("Database connection successful and schema migrated.", zap.String("dsn", cfg.Database.DSN))

		disk, err := storage.NewOsDisk(cfg.Storage.Root, cfg.Server.PublicURL, log)
		if err != nil {
			return nil, err
		}
		provider, err := auth.NewStaticProvider(cfg.Auth.Users)
		if err != nil {
			return nil, fmt.Errorf("invalid auth.users: %w", err)
		}
		if len(cfg.Auth.Users) == 0 {
			log.Warn("No users configured; every API request will be rejected")
		}
		a.db, a.store, a.auth, a.files = db, disk, provider, disk

	case config.ModeRemote:
		client := backend.NewClient(&cfg.Backend, log)
		a.client, a.store, a.auth = client, client, client
		log.Info("Using managed backend", zap.String("url", cfg.Backend.URL))

	default:
		return nil, fmt.Errorf("unknown backend mode %q", cfg.Backend.Mode)
	}
	return a, nil
}

// table binds T rows to name in whichever store the app uses.
func table[T any](a *app, name string) repository.Table[T] {
	if a.db != nil {
		return database.NewTable[T](a.db, name)
	}
	return backend.NewTable[T](a.client, name)
}

func (a *app) manager(bucket string) *assets.Manager {
	return assets.NewManager(a.store, bucket, a.log, assets.WithDefaultExt(a.cfg.Storage.DefaultExt))
}

func (a *app) tradeBook(account models.Account) *journal.TradeBook {
	return journal.NewTradeBook(account, table[models.Trade](a, account.Table), a.log)
}

func (a *app) services() api.Services {
	svc := api.Services{
		Auth:           a.auth,
		MaxUploadBytes: a.cfg.Storage.MaxUploadMB << 20,
		Ideas: []journal.Ideas{
			journal.NewTraderIdeas(
				table[models.TraderIdea](a, models.TraderIdeaKind.Table),
				a.manager(a.cfg.Storage.TraderBucket),
				a.log,
			),
			journal.NewMgiStrategies(
				table[models.MgiStrategy](a, models.MgiStrategyKind.Table),
				a.manager(a.cfg.Storage.MgiBucket),
				a.log,
			),
		},
	}
	for _, account := range models.Accounts {
		svc.Trades = append(svc.Trades, a.tradeBook(account))
	}
	if a.files != nil {
		svc.Files = a.files.Handler()
	}
	return svc
}

func (a *app) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
