// Package storage puts MinIO, AWS S3, and Google Cloud Storage behind one
// object-store interface. House images live here: uploads land under a
// temporary prefix, and the sweep endpoint lists and deletes leftovers.
package storage

import (
	"context"
	"io"
	"time"
)

// Storage is the object-store surface the listing module depends on. Objects
// are public-read behind a CDN base URL, so reads never go through here.
type Storage interface {
	io.Closer

	// PutObject streams data into the bucket under key.
	PutObject(ctx context.Context, bucket, key string, r io.Reader, opts PutOptions) error
	// DeleteObject removes the object. Deleting a missing key succeeds.
	DeleteObject(ctx context.Context, bucket, key string) error
	// ListObjects returns up to Limit objects under a prefix, resuming
	// after Token when set.
	ListObjects(ctx context.Context, bucket, prefix string, opts ListOptions) ([]ObjectInfo, error)
}

// PutOptions configures an upload.
type PutOptions struct {
	// Size is the content length, -1 when unknown.
	Size int64
	// ContentType is the MIME type stored with the object.
	ContentType string
	// Metadata is custom key/value metadata stored with the object.
	Metadata map[string]string
}

// ListOptions pages a listing.
type ListOptions struct {
	// Limit caps the number of results; 0 means no cap.
	Limit int32
	// Token is the key to resume after, exclusive.
	Token string
}

// ObjectInfo describes one listed object.
type ObjectInfo struct {
	// Key is the object key.
	Key string
	// Size is the object size in bytes.
	Size int64
	// UpdatedAt is the last modified time; the sweep ages objects by it.
	UpdatedAt time.Time
}
