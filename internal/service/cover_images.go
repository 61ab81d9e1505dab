package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/getyourdepa/depa-cms/internal/domain"
	pkglogger "github.com/getyourdepa/depa-cms/pkg/logger"
	"github.com/getyourdepa/depa-cms/pkg/storage"
)

const imagesFolder = "images"

// CoverImages uploads and discards the public images attached to records.
type CoverImages struct {
	objects storage.ObjectStore
	now     func() time.Time
}

func NewCoverImages(objects storage.ObjectStore) *CoverImages {
	return &CoverImages{objects: objects, now: time.Now}
}

// Upload stores up at images/<folder>/<name>-<unixmillis>, makes it public
// and returns its public URL.
func (c *CoverImages) Upload(ctx context.Context, folder, name string, up domain.Upload) (string, error) {
	path := storage.GenerateKey(imagesFolder+"/"+folder, name, c.now())
	return c.put(ctx, path, up)
}

func (c *CoverImages) put(ctx context.Context, path string, up domain.Upload) (string, error) {
	if err := c.objects.Save(ctx, path, up.Data, contentType(up)); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	if err := c.objects.MakePublic(ctx, path); err != nil {
		return "", fmt.Errorf("make %s public: %w", path, err)
	}
	return c.objects.PublicURL(path), nil
}

// Discard deletes the object behind url when url belongs to this store.
// It never fails; errors are logged.
func (c *CoverImages) Discard(ctx context.Context, url string) {
	if url == "" {
		return
	}
	path, ok := c.objects.PathFromURL(url)
	if !ok {
		return
	}
	if err := c.objects.Delete(ctx, path); err != nil {
		pkglogger.GetLogger().Warn().
			Err(err).
			Str("path", path).
			Msg("failed to delete old image")
	}
}

// contentType trusts the client's type unless it is missing or generic.
func contentType(up domain.Upload) string {
	if up.ContentType != "" && up.ContentType != "application/octet-stream" {
		return up.ContentType
	}
	return http.DetectContentType(up.Data)
}
