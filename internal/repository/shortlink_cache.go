package repository

import (
	"context"
	"errors"

	"github.com/getyourdepa/depa-cms/internal/domain"
	pkgcache "github.com/getyourdepa/depa-cms/pkg/cache"
	pkglogger "github.com/getyourdepa/depa-cms/pkg/logger"
)

// cachedShortLinkRepository serves redirects from Redis. Short links are
// immutable once created, so entries never need invalidation.
type cachedShortLinkRepository struct {
	ShortLinkRepository
	cache pkgcache.Service
}

// NewCachedShortLinkRepository wraps inner with a read-through cache.
func NewCachedShortLinkRepository(inner ShortLinkRepository, cache pkgcache.Service) ShortLinkRepository {
	if cache == nil || !cache.IsAvailable() {
		return inner
	}
	return &cachedShortLinkRepository{ShortLinkRepository: inner, cache: cache}
}

func (r *cachedShortLinkRepository) FindByKey(ctx context.Context, key string) (*domain.ShortLink, error) {
	cacheKey := pkgcache.PrefixShortLink + key

	var cached domain.ShortLink
	err := r.cache.Get(ctx, cacheKey, &cached)
	if err == nil {
		cached.Key = key
		return &cached, nil
	}
	if !errors.Is(err, pkgcache.ErrMiss) {
		pkglogger.GetLogger().Warn().Err(err).Str("key", key).Msg("short link cache read failed")
	}

	link, err := r.ShortLinkRepository.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, cacheKey, link, pkgcache.TTLShortLink); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("key", key).Msg("short link cache write failed")
	}
	return link, nil
}
