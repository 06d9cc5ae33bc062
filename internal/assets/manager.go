package assets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ObjectStore is the object storage the manager writes chart images to.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, path string, file File, overwrite bool) error
	PublicURL(bucket, path string) string
	Remove(ctx context.Context, bucket string, paths []string) error
}

// UploadError reports the slot whose upload aborted an operation.
type UploadError struct {
	Field    string
	FileName string
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("failed to upload image %s (%s): %v", e.Field, e.FileName, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

var errEmptyFile = errors.New("no file provided for upload")

// Request describes one record write.
type Request struct {
	Owner string
	// Pair names the instrument in generated paths.
	Pair string
	// Slots fixes the order in which fields are processed.
	Slots []string
	// Current holds the persisted slot values; nil on create.
	Current map[string]*string
	// Submitted holds the form's value per slot; missing slots are Unchanged.
	Submitted map[string]FieldValue
}

// Resolution is the outcome of Resolve. Fields holds the value to persist for
// every slot that takes part in the write; slots absent from Fields must be
// left out of the payload.
type Resolution struct {
	Fields   map[string]*string
	uploaded []string
	stale    []string
}

// Uploaded lists the storage paths written while resolving.
func (r *Resolution) Uploaded() []string { return r.uploaded }

// Stale lists the URLs superseded by this write.
func (r *Resolution) Stale() []string { return r.stale }

// Option configures a Manager.
type Option func(*Manager)

// WithDefaultExt sets the extension used when an upload has no file suffix.
func WithDefaultExt(ext string) Option {
	return func(m *Manager) {
		if ext != "" {
			m.defaultExt = ext
		}
	}
}

// WithClock replaces the timestamp source of generated paths.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// Manager runs the slot lifecycle against one bucket.
type Manager struct {
	store      ObjectStore
	bucket     string
	defaultExt string
	logger     *zap.Logger
	now        func() time.Time
}

// NewManager creates a Manager for bucket.
func NewManager(store ObjectStore, bucket string, logger *zap.Logger, opts ...Option) *Manager {
	m := &Manager{
		store:      store,
		bucket:     bucket,
		defaultExt: "jpg",
		logger:     logger.Named("assets").With(zap.String("bucket", bucket)),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Bucket returns the bucket the manager writes to.
func (m *Manager) Bucket() string { return m.bucket }

// Resolve walks the slots in order and uploads new files one at a time. The
// first failed upload stops the walk, removes whatever this call already
// uploaded and returns an *UploadError; nothing must be written in that case.
// Superseded objects are only recorded here and removed by Commit.
func (m *Manager) Resolve(ctx context.Context, req Request) (*Resolution, error) {
	res := &Resolution{Fields: make(map[string]*string)}

	for _, field := range req.Slots {
		value, ok := req.Submitted[field]
		if !ok {
			continue
		}
		old := req.Current[field]

		switch value.Action() {
		case Unchanged:
			continue

		case Upload:
			url, path, err := m.upload(ctx, req, field, value.File())
			if err != nil {
				m.Rollback(ctx, res)
				return nil, err
			}
			res.uploaded = append(res.uploaded, path)
			res.Fields[field] = &url
			if old != nil && *old != "" && *old != url {
				res.stale = append(res.stale, *old)
			}

		case Clear:
			res.Fields[field] = nil
			if old != nil && *old != "" {
				res.stale = append(res.stale, *old)
			}

		case SetURL:
			url := value.URL()
			res.Fields[field] = &url
		}
	}
	return res, nil
}

func (m *Manager) upload(ctx context.Context, req Request, field string, file File) (string, string, error) {
	if len(file.Data) == 0 {
		return "", "", &UploadError{Field: field, FileName: file.Name, Err: errEmptyFile}
	}

	path := ObjectKey(req.Owner, req.Pair, field, file.Name, m.defaultExt, m.now())
	l := m.logger.With(zap.String("field", field), zap.String("path", path))

	if err := m.store.Upload(ctx, m.bucket, path, file, true); err != nil {
		l.Error("Upload failed", zap.Error(err))
		return "", "", &UploadError{Field: field, FileName: file.Name, Err: err}
	}
	l.Debug("Uploaded slot image", zap.Int("bytes", len(file.Data)))
	return m.store.PublicURL(m.bucket, path), path, nil
}

// Commit removes the objects the written record no longer references.
func (m *Manager) Commit(ctx context.Context, res *Resolution) {
	if res == nil {
		return
	}
	m.Purge(ctx, res.stale)
}

// Rollback removes the objects uploaded for a write that did not happen.
func (m *Manager) Rollback(ctx context.Context, res *Resolution) {
	if res == nil {
		return
	}
	for _, path := range res.uploaded {
		m.remove(ctx, path, path)
	}
}

// Purge attempts one removal per URL. Failures are logged and never returned.
func (m *Manager) Purge(ctx context.Context, urls []string) {
	for _, url := range urls {
		path := ObjectPath(m.bucket, url)
		if path == "" {
			m.logger.Warn("Could not determine storage path for deletion", zap.String("url", url))
			continue
		}
		m.remove(ctx, url, path)
	}
}

func (m *Manager) remove(ctx context.Context, ref, path string) {
	if err := m.store.Remove(ctx, m.bucket, []string{path}); err != nil {
		m.logger.Warn("Storage deletion failed, continuing",
			zap.String("ref", ref),
			zap.String("path", path),
			zap.Error(err),
		)
	}
}
