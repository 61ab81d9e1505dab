package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/getyourdepa/depa-cms/internal/common"
	"github.com/getyourdepa/depa-cms/internal/domain"
	"github.com/getyourdepa/depa-cms/internal/patch"
	"github.com/getyourdepa/depa-cms/internal/store"
)

// ContentRepository persists one content record kind.
type ContentRepository[R domain.Record] interface {
	List(ctx context.Context) ([]R, error)
	FindByID(ctx context.Context, id string) (R, error)
	Create(ctx context.Context, rec R) (string, error)
	Update(ctx context.Context, id string, p *patch.Patch) error
	Delete(ctx context.Context, id string) error
}

type contentRepository[R domain.Record] struct {
	store      store.Store
	collection string
	newRecord  func() R
}

// NewContentRepository creates a repository over collection. newRecord
// allocates an empty record to decode into.
func NewContentRepository[R domain.Record](s store.Store, collection string, newRecord func() R) ContentRepository[R] {
	return &contentRepository[R]{store: s, collection: collection, newRecord: newRecord}
}

// NewPostRepository creates the posts repository
func NewPostRepository(s store.Store) ContentRepository[*domain.Post] {
	return NewContentRepository(s, domain.CollectionPosts, func() *domain.Post { return &domain.Post{} })
}

// NewListingRepository creates the listings repository
func NewListingRepository(s store.Store) ContentRepository[*domain.Listing] {
	return NewContentRepository(s, domain.CollectionListings, func() *domain.Listing { return &domain.Listing{} })
}

// NewZoneRepository creates the zones repository
func NewZoneRepository(s store.Store) ContentRepository[*domain.Zone] {
	return NewContentRepository(s, domain.CollectionZones, func() *domain.Zone { return &domain.Zone{} })
}

// List returns every record, newest pubDate first.
func (r *contentRepository[R]) List(ctx context.Context) ([]R, error) {
	snaps, err := r.store.List(ctx, r.collection, store.Order{Field: "pubDate", Direction: store.Desc})
	if err != nil {
		return nil, err
	}

	out := make([]R, 0, len(snaps))
	for _, snap := range snaps {
		rec, err := r.decode(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *contentRepository[R]) FindByID(ctx context.Context, id string) (R, error) {
	var zero R
	snap, err := r.store.Get(ctx, r.collection, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return zero, common.ErrNotFound
		}
		return zero, err
	}
	return r.decode(snap)
}

func (r *contentRepository[R]) Create(ctx context.Context, rec R) (string, error) {
	id, err := r.store.Add(ctx, r.collection, rec)
	if err != nil {
		return "", err
	}
	rec.SetID(id)
	return id, nil
}

// Update validates and applies p. An empty patch only checks that the
// record exists.
func (r *contentRepository[R]) Update(ctx context.Context, id string, p *patch.Patch) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}
	if p.IsEmpty() {
		_, err := r.FindByID(ctx, id)
		return err
	}
	if err := r.store.Update(ctx, r.collection, id, p); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return common.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *contentRepository[R]) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, r.collection, id)
}

func (r *contentRepository[R]) decode(snap store.Snapshot) (R, error) {
	rec := r.newRecord()
	if err := snap.DataTo(rec); err != nil {
		var zero R
		return zero, fmt.Errorf("decode %s/%s: %w", r.collection, snap.ID(), err)
	}
	rec.SetID(snap.ID())
	return rec, nil
}
