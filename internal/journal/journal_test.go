package journal

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"trading-journal-go/internal/assets"
	"trading-journal-go/internal/auth"
	"trading-journal-go/internal/database"
	"trading-journal-go/internal/models"
	"trading-journal-go/internal/storage"
)

var (
	alice = &auth.User{ID: "4b6f3d1e-6f3b-4a8e-9a51-7f0d5c2c9e11", Email: "alice@example.com"}
	bob   = &auth.User{ID: "9d2a1c44-0c1f-4b7e-8f3e-2a6b1d7c5e90", Email: "bob@example.com"}
)

// flakyStore wraps a Disk and fails uploads whose path contains a chosen
// slot name, or every removal.
type flakyStore struct {
	*storage.Disk
	mu         sync.Mutex
	failField  string
	failRemove error
	removed    []string
}

func (s *flakyStore) Upload(ctx context.Context, bucket, path string, file assets.File, overwrite bool) error {
	if s.failField != "" && strings.Contains(path, s.failField) {
		return errors.New("storage quota exceeded")
	}
	return s.Disk.Upload(ctx, bucket, path, file, overwrite)
}

func (s *flakyStore) Remove(ctx context.Context, bucket string, paths []string) error {
	s.mu.Lock()
	s.removed = append(s.removed, paths...)
	s.mu.Unlock()
	if s.failRemove != nil {
		return s.failRemove
	}
	return s.Disk.Remove(ctx, bucket, paths)
}

type fixture struct {
	fs     afero.Fs
	store  *flakyStore
	trades *TradeBook
	funded *TradeBook
	trader *IdeaBook[models.TraderIdea, *models.TraderIdea]
	mgi    *IdeaBook[models.MgiStrategy, *models.MgiStrategy]
}

// setupTest wires the services to an in-memory database and filesystem.
func setupTest(t *testing.T) *fixture {
	db, err := database.NewDatabase("file::memory:")
	require.NoError(t, err)

	fs := afero.NewMemMapFs()
	store := &flakyStore{Disk: storage.NewDisk(fs, "http://localhost:8080", zap.NewNop())}

	tick := time.UnixMilli(1700000000000)
	clock := assets.WithClock(func() time.Time {
		tick = tick.Add(time.Millisecond)
		return tick
	})
	logger := zap.NewNop()

	return &fixture{
		fs:     fs,
		store:  store,
		trades: NewTradeBook(models.PersonalAccount, database.NewTable[models.Trade](db, models.PersonalAccount.Table), logger),
		funded: NewTradeBook(models.FundedAccount, database.NewTable[models.Trade](db, models.FundedAccount.Table), logger),
		trader: NewTraderIdeas(
			database.NewTable[models.TraderIdea](db, models.TraderIdeaKind.Table),
			assets.NewManager(store, models.TraderIdeaKind.Bucket, logger, clock),
			logger,
		),
		mgi: NewMgiStrategies(
			database.NewTable[models.MgiStrategy](db, models.MgiStrategyKind.Table),
			assets.NewManager(store, models.MgiStrategyKind.Bucket, logger, clock),
			logger,
		),
	}
}

// stored reports whether the object behind a public URL exists.
func (f *fixture) stored(t *testing.T, bucket string, url *string) bool {
	t.Helper()
	require.NotNil(t, url)
	ok, err := afero.Exists(f.fs, "/"+bucket+"/"+assets.ObjectPath(bucket, *url))
	require.NoError(t, err)
	return ok
}

// objectCount counts stored files below bucket.
func (f *fixture) objectCount(t *testing.T, bucket string) int {
	t.Helper()
	n := 0
	err := afero.Walk(f.fs, "/"+bucket, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !info.IsDir() {
			n++
		}
		return nil
	})
	require.NoError(t, err)
	return n
}

func png(name string) assets.FieldValue {
	return assets.UploadFile(assets.File{Name: name, ContentType: "image/png", Data: []byte("png:" + name)})
}

func strPtr(s string) *string { return &s }
