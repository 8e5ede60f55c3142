package storage

import (
	"context"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
)

// Package storage archives raw uploads in an S3-compatible object store.
// Implementations must avoid using local disk and rely on streaming I/O only.

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the object store used for source files.
type Storage interface {
	// Put uploads an object under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Delete removes objects by key. Missing objects are not an error.
	Delete(ctx context.Context, keys ...string) error
}

// SourceKey returns a fresh object key for a project's upload, keeping the
// original extension so objects stay recognizable.
func SourceKey(projectID, ext string) string {
	return path.Join("projects", projectID, uuid.NewString()+ext)
}
