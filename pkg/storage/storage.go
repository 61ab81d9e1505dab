// Package storage provides public object storage for uploaded images.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ErrObjectNotFound is returned when deleting an object that does not exist.
var ErrObjectNotFound = errors.New("object not found")

// Object describes a stored object.
type Object struct {
	Path        string
	ContentType string
	Size        int64
	Updated     time.Time
}

// ObjectStore saves objects and exposes them at public URLs.
type ObjectStore interface {
	Save(ctx context.Context, path string, data []byte, contentType string) error
	MakePublic(ctx context.Context, path string) error
	PublicURL(path string) string
	// PathFromURL recovers the object path from a URL produced by PublicURL.
	// It reports false for URLs outside this store.
	PathFromURL(rawURL string) (string, bool)
	Delete(ctx context.Context, path string) error
	List(ctx context.Context, prefix string) ([]Object, error)
}

// GenerateKey builds "<folder>/<name>-<unixmillis>", the layout used for
// cover images.
func GenerateKey(folder, name string, now time.Time) string {
	return fmt.Sprintf("%s/%s-%d", strings.Trim(folder, "/"), name, now.UnixMilli())
}

// pathAfterPrefix implements PathFromURL for stores whose public URLs are
// base + "/" + escaped path.
func pathAfterPrefix(rawURL, base string) (string, bool) {
	prefix := strings.TrimRight(base, "/") + "/"
	if base == "" || !strings.HasPrefix(rawURL, prefix) {
		return "", false
	}
	rest := strings.TrimPrefix(rawURL, prefix)
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}
	p, err := url.PathUnescape(rest)
	if err != nil || p == "" {
		return "", false
	}
	return p, true
}

// escapePath escapes each segment of an object path for use in a URL.
func escapePath(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}
