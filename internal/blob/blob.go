// Package blob stores plan archives outside the plan store.
//
// Two drivers exist: a local directory (fs) and an S3 compatible bucket (s3).
// Keys are slash separated and archives are write-once: putting an existing
// key fails with ErrExists.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/danieljhkim/smokeplan/internal/config"
)

// ErrExists is returned by Put when the key is already stored.
var ErrExists = errors.New("blob already exists")

// Info describes a stored blob.
type Info struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"contentType,omitempty"`
	LastModified time.Time `json:"lastModified"`
	// Location is a human readable address (file path or s3:// URL).
	Location string `json:"location"`
}

// Store is a write-once object store.
type Store interface {
	Driver() string
	Put(ctx context.Context, key string, r io.Reader, contentType string) (Info, error)
	List(ctx context.Context, prefix string) ([]Info, error)
}

// Open builds the store selected by cfg. It returns nil when no driver is
// configured. fsRoot is used by the fs driver when cfg.Root is empty.
func Open(ctx context.Context, cfg config.BlobConfig, fsRoot string) (Store, error) {
	switch cfg.Driver {
	case config.BlobNone:
		return nil, nil
	case config.BlobFS:
		root := cfg.Root
		if root == "" {
			root = fsRoot
		}
		return NewFSStore(root)
	case config.BlobS3:
		return NewS3Store(ctx, S3Config{
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			Endpoint:  cfg.Endpoint,
			PathStyle: cfg.PathStyle,
		})
	default:
		return nil, fmt.Errorf("unsupported blob driver %q", cfg.Driver)
	}
}
