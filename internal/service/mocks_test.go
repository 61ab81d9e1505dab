package service

import (
	"context"

	"github.com/getyourdepa/depa-cms/internal/domain"
	"github.com/getyourdepa/depa-cms/internal/patch"
	"github.com/getyourdepa/depa-cms/pkg/storage"
	"github.com/stretchr/testify/mock"
)

// --- Mock ContentRepository ---

type mockContentRepo[R domain.Record] struct {
	mock.Mock
}

func (m *mockContentRepo[R]) List(ctx context.Context) ([]R, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]R), args.Error(1)
}

func (m *mockContentRepo[R]) FindByID(ctx context.Context, id string) (R, error) {
	args := m.Called(ctx, id)
	var zero R
	if args.Get(0) == nil {
		return zero, args.Error(1)
	}
	return args.Get(0).(R), args.Error(1)
}

func (m *mockContentRepo[R]) Create(ctx context.Context, rec R) (string, error) {
	args := m.Called(ctx, rec)
	return args.String(0), args.Error(1)
}

func (m *mockContentRepo[R]) Update(ctx context.Context, id string, p *patch.Patch) error {
	return m.Called(ctx, id, p).Error(0)
}

func (m *mockContentRepo[R]) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// --- Mock ObjectStore ---

type mockObjectStore struct {
	mock.Mock
}

func (m *mockObjectStore) Save(ctx context.Context, path string, data []byte, contentType string) error {
	return m.Called(ctx, path, data, contentType).Error(0)
}

func (m *mockObjectStore) MakePublic(ctx context.Context, path string) error {
	return m.Called(ctx, path).Error(0)
}

func (m *mockObjectStore) PublicURL(path string) string {
	return m.Called(path).String(0)
}

func (m *mockObjectStore) PathFromURL(rawURL string) (string, bool) {
	args := m.Called(rawURL)
	return args.String(0), args.Bool(1)
}

func (m *mockObjectStore) Delete(ctx context.Context, path string) error {
	return m.Called(ctx, path).Error(0)
}

func (m *mockObjectStore) List(ctx context.Context, prefix string) ([]storage.Object, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.Object), args.Error(1)
}

// --- Mock ShortLinkRepository ---

type mockShortLinkRepo struct {
	mock.Mock
}

func (m *mockShortLinkRepo) CreateIfAbsent(ctx context.Context, link *domain.ShortLink) error {
	return m.Called(ctx, link).Error(0)
}

func (m *mockShortLinkRepo) FindByKey(ctx context.Context, key string) (*domain.ShortLink, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShortLink), args.Error(1)
}

// --- Rebuilder spy ---

type countingRebuilder struct {
	calls int
}

func (r *countingRebuilder) Trigger() { r.calls++ }
