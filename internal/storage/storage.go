// Package storage keeps uploaded resume PDFs in an S3-compatible object store.
// Implementations stream content and never touch local disk.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"resumeparser/internal/config"
)

var (
	// ErrDisabled is returned by New when object storage is switched off.
	ErrDisabled = errors.New("object storage disabled")
	// ErrObjectNotFound is wrapped by Get when the key does not exist.
	ErrObjectNotFound = errors.New("object not found")
)

const pdfContentType = "application/pdf"

// PutObjectOptions describe an upload. Size is the exact byte count, or -1 when unknown.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the object store used for resume files.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get streams an object's content alongside its info. The caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited URL for downloading the object without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// New builds the backend selected by cfg.Driver. It returns ErrDisabled for "none" or an empty driver.
func New(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "none":
		return nil, ErrDisabled
	case "minio":
		return NewMinIO(ctx, cfg.MinIO)
	case "s3", "r2":
		return NewS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
