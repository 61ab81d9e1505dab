// Package firestore implements store.Store on Cloud Firestore.
package firestore

import (
	"context"
	"errors"
	"fmt"

	gfs "cloud.google.com/go/firestore"
	"github.com/getyourdepa/depa-cms/internal/patch"
	"github.com/getyourdepa/depa-cms/internal/store"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Store is a Firestore-backed document store.
type Store struct {
	client *gfs.Client
}

// New wraps an initialized Firestore client.
func New(client *gfs.Client) *Store {
	return &Store{client: client}
}

type snapshot struct {
	*gfs.DocumentSnapshot
}

func (s snapshot) ID() string { return s.Ref.ID }

func (s *Store) Add(ctx context.Context, collection string, doc any) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("firestore add %s: %w", collection, err)
	}
	return ref.ID, nil
}

func (s *Store) Create(ctx context.Context, collection, id string, doc any) error {
	if _, err := s.client.Collection(collection).Doc(id).Create(ctx, doc); err != nil {
		return mapError(err, "create", collection, id)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (store.Snapshot, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		return nil, mapError(err, "get", collection, id)
	}
	return snapshot{snap}, nil
}

func (s *Store) List(ctx context.Context, collection string, order ...store.Order) ([]store.Snapshot, error) {
	q := s.client.Collection(collection).Query
	for _, o := range order {
		dir := gfs.Asc
		if o.Direction == store.Desc {
			dir = gfs.Desc
		}
		q = q.OrderBy(o.Field, dir)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []store.Snapshot
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("firestore list %s: %w", collection, err)
		}
		out = append(out, snapshot{snap})
	}
	return out, nil
}

func (s *Store) Update(ctx context.Context, collection, id string, p *patch.Patch) error {
	if _, err := s.client.Collection(collection).Doc(id).Update(ctx, Updates(p)); err != nil {
		return mapError(err, "update", collection, id)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.client.Collection(collection).Doc(id).Delete(ctx); err != nil {
		return mapError(err, "delete", collection, id)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// Updates flattens a patch into Firestore field-path updates. Delete ops use
// the firestore.Delete sentinel.
func Updates(p *patch.Patch) []gfs.Update {
	ops := p.Ops()
	updates := make([]gfs.Update, 0, len(ops))
	for _, op := range ops {
		u := gfs.Update{Path: op.Path, Value: op.Value}
		if op.Delete {
			u.Value = gfs.Delete
		}
		updates = append(updates, u)
	}
	return updates
}

func mapError(err error, action, collection, id string) error {
	switch status.Code(err) {
	case codes.NotFound:
		return store.ErrNotFound
	case codes.AlreadyExists:
		return store.ErrAlreadyExists
	}
	return fmt.Errorf("firestore %s %s/%s: %w", action, collection, id, err)
}
