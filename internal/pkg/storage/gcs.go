package storage

import (
	"context"
	"errors"
	"io"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// GCSAdapter implements Storage on Google Cloud Storage.
type GCSAdapter struct {
	client *gcs.Client
}

// GCSOptions configures the GCS adapter.
type GCSOptions struct {
	// Client provides an existing GCS client. When nil a default client is
	// created from ambient credentials.
	Client *gcs.Client
}

// NewGCS wraps the given client, or builds one from the environment.
func NewGCS(ctx context.Context, opts GCSOptions) (*GCSAdapter, error) {
	client := opts.Client
	if client == nil {
		created, err := gcs.NewClient(ctx)
		if err != nil {
			return nil, err
		}
		client = created
	}
	return &GCSAdapter{client: client}, nil
}

// PutObject streams data into a bucket. The object becomes visible only once
// the writer closes without error.
func (g *GCSAdapter) PutObject(ctx context.Context, bucket, key string, r io.Reader, opts PutOptions) error {
	w := g.client.Bucket(bucket).Object(key).NewWriter(ctx)
	if opts.ContentType != "" {
		w.ContentType = opts.ContentType
	}
	if len(opts.Metadata) > 0 {
		w.Metadata = opts.Metadata
	}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// DeleteObject removes an object. A missing key is not an error.
func (g *GCSAdapter) DeleteObject(ctx context.Context, bucket, key string) error {
	err := g.client.Bucket(bucket).Object(key).Delete(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil
	}
	return err
}

// ListObjects lists a prefix, resuming after the token key. GCS offsets are
// inclusive, so the token key itself is skipped.
func (g *GCSAdapter) ListObjects(ctx context.Context, bucket, prefix string, opts ListOptions) ([]ObjectInfo, error) {
	query := &gcs.Query{Prefix: prefix}
	if opts.Token != "" {
		query.StartOffset = opts.Token
	}

	it := g.client.Bucket(bucket).Objects(ctx, query)
	objects := make([]ObjectInfo, 0)
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		if attrs.Name == opts.Token {
			continue
		}
		objects = append(objects, ObjectInfo{
			Key:       attrs.Name,
			Size:      attrs.Size,
			UpdatedAt: attrs.Updated,
		})
		if opts.Limit > 0 && int32(len(objects)) >= opts.Limit {
			break
		}
	}
	return objects, nil
}

// Close releases the underlying client.
func (g *GCSAdapter) Close() error {
	return g.client.Close()
}
