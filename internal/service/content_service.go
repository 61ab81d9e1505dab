package service

import (
	"context"
	"fmt"
	"time"

	"github.com/getyourdepa/depa-cms/internal/domain"
	"github.com/getyourdepa/depa-cms/internal/normalize"
	"github.com/getyourdepa/depa-cms/internal/patch"
	"github.com/getyourdepa/depa-cms/internal/repository"
	pkglogger "github.com/getyourdepa/depa-cms/pkg/logger"
)

const coverImageField = "coverImage"

// Rebuilder is told when published content changes.
type Rebuilder interface {
	Trigger()
}

// Kind describes how one record kind is built from its input.
type Kind[R domain.Record, In domain.Input] struct {
	Collection string
	Build      func(in In, now time.Time) R
	Patch      func(in In) *patch.Patch
}

// PostKind, ListingKind and ZoneKind wire the record normalizer to each collection.
var (
	PostKind = Kind[*domain.Post, domain.PostInput]{
		Collection: domain.CollectionPosts,
		Build:      normalize.NewPost,
		Patch:      normalize.PostPatch,
	}
	ListingKind = Kind[*domain.Listing, domain.ListingInput]{
		Collection: domain.CollectionListings,
		Build:      normalize.NewListing,
		Patch:      normalize.ListingPatch,
	}
	ZoneKind = Kind[*domain.Zone, domain.ZoneInput]{
		Collection: domain.CollectionZones,
		Build:      normalize.NewZone,
		Patch:      normalize.ZonePatch,
	}
)

// ContentService manages one kind of content record.
type ContentService[R domain.Record, In domain.Input] interface {
	List(ctx context.Context) ([]R, error)
	Get(ctx context.Context, id string) (R, error)
	Create(ctx context.Context, in In) (string, error)
	Update(ctx context.Context, id string, in In) error
	Delete(ctx context.Context, id string) error
}

type (
	PostService    = ContentService[*domain.Post, domain.PostInput]
	ListingService = ContentService[*domain.Listing, domain.ListingInput]
	ZoneService    = ContentService[*domain.Zone, domain.ZoneInput]
)

type contentService[R domain.Record, In domain.Input] struct {
	kind    Kind[R, In]
	repo    repository.ContentRepository[R]
	covers  *CoverImages
	rebuild Rebuilder
	now     func() time.Time
}

// NewContentService creates a service for kind. rebuild may be nil.
func NewContentService[R domain.Record, In domain.Input](
	kind Kind[R, In],
	repo repository.ContentRepository[R],
	covers *CoverImages,
	rebuild Rebuilder,
) ContentService[R, In] {
	return &contentService[R, In]{
		kind:    kind,
		repo:    repo,
		covers:  covers,
		rebuild: rebuild,
		now:     time.Now,
	}
}

func (s *contentService[R, In]) List(ctx context.Context) ([]R, error) {
	return s.repo.List(ctx)
}

func (s *contentService[R, In]) Get(ctx context.Context, id string) (R, error) {
	return s.repo.FindByID(ctx, id)
}

// Create stores a new record. A submitted cover is uploaded first and named
// after the Spanish slug.
func (s *contentService[R, In]) Create(ctx context.Context, in In) (string, error) {
	rec := s.kind.Build(in, s.now())

	var uploaded string
	if up, ok := in.CoverField().Get(); ok {
		url, err := s.covers.Upload(ctx, s.kind.Collection, normalize.CoverName(in.Texts()), up)
		if err != nil {
			return "", fmt.Errorf("upload cover: %w", err)
		}
		uploaded = url
		rec.SetCoverImage(url)
	}

	id, err := s.repo.Create(ctx, rec)
	if err != nil {
		s.covers.Discard(ctx, uploaded)
		return "", err
	}

	pkglogger.GetLogger().Info().
		Str("collection", s.kind.Collection).
		Str("id", id).
		Msg("record created")
	s.triggerRebuild()
	return id, nil
}

// Update applies only the submitted fields. Replacing or clearing the cover
// discards the previous image once the record is updated.
func (s *contentService[R, In]) Update(ctx context.Context, id string, in In) error {
	p := s.kind.Patch(in)
	cover := in.CoverField()

	var previous, uploaded string
	if !cover.IsUnchanged() {
		current, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		previous = current.GetCoverImage()
	}

	switch {
	case cover.IsSet():
		up, _ := cover.Get()
		url, err := s.covers.Upload(ctx, s.kind.Collection, id, up)
		if err != nil {
			return fmt.Errorf("upload cover: %w", err)
		}
		uploaded = url
		p.Set(coverImageField, url)
	case cover.IsCleared():
		p.Delete(coverImageField)
	}

	if err := s.repo.Update(ctx, id, p); err != nil {
		s.covers.Discard(ctx, uploaded)
		return err
	}

	if previous != "" && previous != uploaded {
		s.covers.Discard(ctx, previous)
	}

	pkglogger.GetLogger().Info().
		Str("collection", s.kind.Collection).
		Str("id", id).
		Int("fields", p.Len()).
		Msg("record updated")
	s.triggerRebuild()
	return nil
}

// Delete removes the record and, best effort, its cover image.
func (s *contentService[R, In]) Delete(ctx context.Context, id string) error {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	s.covers.Discard(ctx, rec.GetCoverImage())

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	pkglogger.GetLogger().Info().
		Str("collection", s.kind.Collection).
		Str("id", id).
		Msg("record deleted")
	s.triggerRebuild()
	return nil
}

func (s *contentService[R, In]) triggerRebuild() {
	if s.rebuild != nil {
		s.rebuild.Trigger()
	}
}
