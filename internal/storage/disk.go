// Package storage keeps chart images on a local filesystem for running the
// journal without the managed backend.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"trading-journal-go/internal/assets"
)

// PublicPrefix is where Handler is mounted.
const PublicPrefix = "/storage/v1/object/public/"

// ErrExists is returned by Upload when the object is present and overwrite
// was not requested.
var ErrExists = errors.New("object already exists")

// Disk is an assets.ObjectStore over an afero filesystem. Objects live at
// {bucket}/{path} below the filesystem root.
type Disk struct {
	fs         afero.Fs
	publicBase string
	logger     *zap.Logger
}

var _ assets.ObjectStore = (*Disk)(nil)

// NewDisk stores objects in fs and builds public URLs below publicBase, the
// address the API server is reachable at.
func NewDisk(fs afero.Fs, publicBase string, logger *zap.Logger) *Disk {
	return &Disk{
		fs:         fs,
		publicBase: strings.TrimRight(publicBase, "/"),
		logger:     logger.Named("storage"),
	}
}

// NewOsDisk roots a Disk at dir on the host filesystem.
func NewOsDisk(dir, publicBase string, logger *zap.Logger) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root %s: %w", dir, err)
	}
	return NewDisk(afero.NewBasePathFs(afero.NewOsFs(), dir), publicBase, logger), nil
}

func (d *Disk) Upload(ctx context.Context, bucket, objectPath string, file assets.File, overwrite bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, err := objectName(bucket, objectPath)
	if err != nil {
		return err
	}

	if !overwrite {
		exists, err := afero.Exists(d.fs, name)
		if err != nil {
			return fmt.Errorf("stat %s: %w", name, err)
		}
		if exists {
			return fmt.Errorf("%s: %w", name, ErrExists)
		}
	}

	if err := d.fs.MkdirAll(path.Dir(name), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", name, err)
	}
	if err := afero.WriteFile(d.fs, name, file.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	d.logger.Debug("Stored object", zap.String("name", name), zap.Int("bytes", len(file.Data)))
	return nil
}

func (d *Disk) PublicURL(bucket, objectPath string) string {
	return d.publicBase + PublicPrefix + bucket + "/" + assets.EscapePath(objectPath)
}

// Remove deletes paths from bucket. Missing objects are not an error.
func (d *Disk) Remove(ctx context.Context, bucket string, paths []string) error {
	var errs []error
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		name, err := objectName(bucket, p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := d.fs.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, fmt.Errorf("remove %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Handler serves stored objects read-only. Mount it at PublicPrefix.
func (d *Disk) Handler() http.Handler {
	fs := afero.NewHttpFs(afero.NewReadOnlyFs(d.fs))
	return http.StripPrefix(strings.TrimSuffix(PublicPrefix, "/"), noListing(http.FileServer(fs.Dir("/"))))
}

func noListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// objectName joins bucket and path, refusing anything that would escape the
// bucket.
func objectName(bucket, objectPath string) (string, error) {
	if bucket == "" || strings.ContainsAny(bucket, `/\`) || bucket == "." || bucket == ".." {
		return "", fmt.Errorf("invalid bucket %q", bucket)
	}
	clean := path.Clean("/" + objectPath)
	if clean == "/" {
		return "", fmt.Errorf("invalid object path %q", objectPath)
	}
	return "/" + bucket + clean, nil
}
