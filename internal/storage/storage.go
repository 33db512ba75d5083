// Package storage provides object storage for gallery images via a
// MinIO/S3-compatible endpoint. It can run disabled, in which case items are
// created from externally hosted URLs only.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sparklinkhq/sparklink/internal/config"
	"go.uber.org/zap"
)

var (
	ErrStorageDisabled        = errors.New("storage_disabled")
	ErrUnsupportedContentType = errors.New("unsupported_content_type")
	ErrImageTooLarge          = errors.New("image_too_large")
)

var extensionByContentType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Client uploads gallery images to a single bucket and builds their public
// URLs. A nil-configured client reports ErrStorageDisabled on every upload.
type Client struct {
	mc            *minio.Client
	bucket        string
	publicBaseURL string
	maxUploadSize int64
	log           *zap.Logger
}

func New(cfg config.Config, log *zap.Logger) (*Client, error) {
	c := &Client{
		bucket:        cfg.Storage.Bucket,
		publicBaseURL: strings.TrimRight(cfg.Storage.PublicBaseURL, "/"),
		maxUploadSize: cfg.Storage.MaxUploadSize,
		log:           log.Named("storage"),
	}
	if !cfg.Storage.Enabled {
		return c, nil
	}

	mc, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	c.mc = mc
	return c, nil
}

// Enabled reports whether uploads are available.
func (c *Client) Enabled() bool { return c.mc != nil }

// EnsureBucket creates the bucket if it does not exist yet. Called once at
// startup.
func (c *Client) EnsureBucket(ctx context.Context) error {
	if c.mc == nil {
		return nil
	}
	exists, err := c.mc.BucketExists(ctx, c.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	c.log.Info("creating storage bucket", zap.String("bucket", c.bucket))
	return c.mc.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{})
}

// Upload stores an image under a fresh uuid key and returns the object key
// and its public URL.
func (c *Client) Upload(ctx context.Context, body io.Reader, size int64, contentType string) (key, url string, err error) {
	if c.mc == nil {
		return "", "", ErrStorageDisabled
	}

	ext, ok := extensionByContentType[strings.ToLower(contentType)]
	if !ok {
		return "", "", ErrUnsupportedContentType
	}
	if c.maxUploadSize > 0 && size > c.maxUploadSize {
		return "", "", ErrImageTooLarge
	}

	key = path.Join("gallery", uuid.NewString()+ext)
	_, err = c.mc.PutObject(ctx, c.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", "", err
	}
	return key, c.URL(key), nil
}

// Remove deletes an uploaded object. Missing objects are not an error.
func (c *Client) Remove(ctx context.Context, key string) error {
	if c.mc == nil || key == "" {
		return nil
	}
	return c.mc.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{})
}

// URL builds the public URL for an object key.
func (c *Client) URL(key string) string {
	if c.publicBaseURL != "" {
		return c.publicBaseURL + "/" + key
	}
	if c.mc == nil {
		return key
	}
	return c.mc.EndpointURL().String() + "/" + c.bucket + "/" + key
}

// MaxUploadSize returns the configured per-image size cap in bytes.
func (c *Client) MaxUploadSize() int64 { return c.maxUploadSize }
