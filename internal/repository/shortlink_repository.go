package repository

import (
	"context"
	"errors"

	"github.com/getyourdepa/depa-cms/internal/common"
	"github.com/getyourdepa/depa-cms/internal/domain"
	"github.com/getyourdepa/depa-cms/internal/store"
)

// ShortLinkRepository stores short links keyed by their short key.
type ShortLinkRepository interface {
	// CreateIfAbsent fails with common.ErrAlreadyExists when the key is taken.
	CreateIfAbsent(ctx context.Context, link *domain.ShortLink) error
	FindByKey(ctx context.Context, key string) (*domain.ShortLink, error)
}

type shortLinkRepository struct {
	store store.Store
}

// NewShortLinkRepository creates a new ShortLinkRepository
func NewShortLinkRepository(s store.Store) ShortLinkRepository {
	return &shortLinkRepository{store: s}
}

func (r *shortLinkRepository) CreateIfAbsent(ctx context.Context, link *domain.ShortLink) error {
	err := r.store.Create(ctx, domain.CollectionShortLinks, link.Key, link)
	if errors.Is(err, store.ErrAlreadyExists) {
		return common.ErrAlreadyExists
	}
	return err
}

func (r *shortLinkRepository) FindByKey(ctx context.Context, key string) (*domain.ShortLink, error) {
	snap, err := r.store.Get(ctx, domain.CollectionShortLinks, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}

	var link domain.ShortLink
	if err := snap.DataTo(&link); err != nil {
		return nil, err
	}
	link.Key = snap.ID()
	return &link, nil
}
