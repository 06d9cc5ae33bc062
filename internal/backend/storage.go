package backend

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"trading-journal-go/internal/assets"
)

var _ assets.ObjectStore = (*Client)(nil)

// Upload writes file to bucket/path.
func (c *Client) Upload(ctx context.Context, bucket, path string, file assets.File, overwrite bool) error {
	contentType := file.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(file.Data)
	}

	req := c.client.R().
		SetHeader("Content-Type", contentType).
		SetHeader("x-upsert", strconv.FormatBool(overwrite)).
		SetBody(file.Data)

	objectPath := fmt.Sprintf("%s/object/%s/%s", storagePath, bucket, assets.EscapePath(path))
	if _, err := c.doRequest(ctx, http.MethodPost, objectPath, req); err != nil {
		return fmt.Errorf("upload %s/%s: %w", bucket, path, err)
	}
	c.logger.Debug("Uploaded object", zap.String("bucket", bucket), zap.String("path", path))
	return nil
}

// PublicURL returns the public address of bucket/path.
func (c *Client) PublicURL(bucket, path string) string {
	return fmt.Sprintf("%s%s/object/public/%s/%s", c.baseURL, storagePath, bucket, assets.EscapePath(path))
}

// Remove deletes the objects at paths.
func (c *Client) Remove(ctx context.Context, bucket string, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	req := c.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string][]string{"prefixes": paths})

	if _, err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("%s/object/%s", storagePath, bucket), req); err != nil {
		return fmt.Errorf("remove from %s: %w", bucket, err)
	}
	return nil
}
