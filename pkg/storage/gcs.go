package storage

import (
	"context"
	"errors"
	"fmt"

	gcs "cloud.google.com/go/storage"
	pkglogger "github.com/getyourdepa/depa-cms/pkg/logger"
	"google.golang.org/api/iterator"
)

// GCSBaseURL is the public host of Google Cloud Storage objects.
const GCSBaseURL = "https://storage.googleapis.com"

// GCSStore stores objects in a Cloud Storage (Firebase Storage) bucket.
type GCSStore struct {
	bucket  *gcs.BucketHandle
	name    string
	baseURL string
}

// NewGCSStore wraps a bucket handle. Public URLs take the form
// https://storage.googleapis.com/<bucket>/<path>.
func NewGCSStore(bucket *gcs.BucketHandle, name string) *GCSStore {
	pkglogger.GetLogger().Info().
		Str("bucket", name).
		Msg("GCS storage client initialized")

	return &GCSStore{
		bucket:  bucket,
		name:    name,
		baseURL: GCSBaseURL + "/" + name,
	}
}

func (s *GCSStore) Save(ctx context.Context, path string, data []byte, contentType string) error {
	w := s.bucket.Object(path).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("gcs upload failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("gcs upload failed: %w", err)
	}
	return nil
}

func (s *GCSStore) MakePublic(ctx context.Context, path string) error {
	if err := s.bucket.Object(path).ACL().Set(ctx, gcs.AllUsers, gcs.RoleReader); err != nil {
		return fmt.Errorf("gcs make public failed: %w", err)
	}
	return nil
}

func (s *GCSStore) PublicURL(path string) string {
	return s.baseURL + "/" + escapePath(path)
}

func (s *GCSStore) PathFromURL(rawURL string) (string, bool) {
	return pathAfterPrefix(rawURL, s.baseURL)
}

func (s *GCSStore) Delete(ctx context.Context, path string) error {
	if err := s.bucket.Object(path).Delete(ctx); err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return ErrObjectNotFound
		}
		return fmt.Errorf("gcs delete failed: %w", err)
	}
	return nil
}

func (s *GCSStore) List(ctx context.Context, prefix string) ([]Object, error) {
	it := s.bucket.Objects(ctx, &gcs.Query{Prefix: prefix})

	var out []Object
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("gcs list failed: %w", err)
		}
		out = append(out, Object{
			Path:        attrs.Name,
			ContentType: attrs.ContentType,
			Size:        attrs.Size,
			Updated:     attrs.Updated,
		})
	}
	return out, nil
}
