// Package store defines the document persistence contract. Backends live in
// the firestore, mongo and sqlstore subpackages.
package store

import (
	"context"
	"errors"

	"github.com/getyourdepa/depa-cms/internal/patch"
)

var (
	ErrNotFound      = errors.New("document not found")
	ErrAlreadyExists = errors.New("document already exists")
)

// Direction of an ordered listing.
type Direction int

const (
	Asc Direction = iota
	Desc
)

// Order sorts a listing by a top-level field.
type Order struct {
	Field     string
	Direction Direction
}

// Snapshot is one stored document.
type Snapshot interface {
	ID() string
	// DataTo decodes the document into dst, a pointer to a struct tagged for
	// the backend.
	DataTo(dst any) error
}

// Store is a collection-oriented document database.
type Store interface {
	// Add stores doc under a new store-assigned id.
	Add(ctx context.Context, collection string, doc any) (string, error)
	// Create stores doc under id, failing with ErrAlreadyExists if taken.
	Create(ctx context.Context, collection, id string, doc any) error
	Get(ctx context.Context, collection, id string) (Snapshot, error)
	List(ctx context.Context, collection string, order ...Order) ([]Snapshot, error)
	// Update applies a validated patch to an existing document.
	Update(ctx context.Context, collection, id string, p *patch.Patch) error
	Delete(ctx context.Context, collection, id string) error
	Close() error
}
