package item

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courseloop/assessment-platform/internal/assessment"
)

type stubStore struct {
	items   map[string]assessment.Item
	inserts int
	updates int
	gets    int
}

func newStubStore() *stubStore {
	return &stubStore{items: map[string]assessment.Item{}}
}

func (s *stubStore) Insert(_ context.Context, it assessment.Item) error {
	s.inserts++
	s.items[it.ID] = it
	return nil
}

func (s *stubStore) Update(_ context.Context, it assessment.Item) error {
	s.updates++
	if _, ok := s.items[it.ID]; !ok {
		return ErrNotFound
	}
	s.items[it.ID] = it
	return nil
}

func (s *stubStore) Get(_ context.Context, id string) (assessment.Item, error) {
	s.gets++
	it, ok := s.items[id]
	if !ok {
		return assessment.Item{}, ErrNotFound
	}
	return it, nil
}

func (s *stubStore) Delete(_ context.Context, id string) error {
	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}
	delete(s.items, id)
	return nil
}

type memCache struct {
	items map[string]assessment.Item
}

func newMemCache() *memCache {
	return &memCache{items: map[string]assessment.Item{}}
}

func (c *memCache) Get(_ context.Context, id string) (*assessment.Item, error) {
	it, ok := c.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (c *memCache) Set(_ context.Context, it assessment.Item) error {
	c.items[it.ID] = it
	return nil
}

func (c *memCache) Invalidate(_ context.Context, id string) error {
	delete(c.items, id)
	return nil
}

func newTestService(store Store, cache Cache) *Service {
	return NewService(store, cache, zerolog.Nop())
}

func mustItem(t *testing.T, kind string) assessment.Item {
	t.Helper()
	it, err := assessment.NewItem(kind)
	require.NoError(t, err)
	return it
}

func TestLoadCacheHitSkipsStore(t *testing.T) {
	store := newStubStore()
	cache := newMemCache()
	svc := newTestService(store, cache)

	it := mustItem(t, assessment.KindTrueFalse)
	it.ID = "tf-1"
	cache.items[it.ID] = it

	got, err := svc.Load(context.Background(), "tf-1")
	require.NoError(t, err)
	assert.Equal(t, "tf-1", got.ID)
	assert.Zero(t, store.gets)
}

func TestLoadMissFillsCache(t *testing.T) {
	store := newStubStore()
	cache := newMemCache()
	svc := newTestService(store, cache)

	it := mustItem(t, assessment.KindSingleChoice)
	it.ID = "sc-1"
	store.items[it.ID] = it

	got, err := svc.Load(context.Background(), "sc-1")
	require.NoError(t, err)
	assert.Equal(t, "sc-1", got.ID)
	assert.Contains(t, cache.items, "sc-1")
}

func TestLoadUnknownItem(t *testing.T) {
	svc := newTestService(newStubStore(), newMemCache())

	_, err := svc.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveItemAssignsID(t *testing.T) {
	store := newStubStore()
	svc := newTestService(store, newMemCache())

	it := mustItem(t, assessment.KindOrdering)
	id, err := svc.SaveItem(context.Background(), it)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, 1, store.inserts)
}

func TestSaveItemUpdatesAndInvalidates(t *testing.T) {
	store := newStubStore()
	cache := newMemCache()
	svc := newTestService(store, cache)

	it := mustItem(t, assessment.KindText)
	it.ID = "txt-1"
	store.items[it.ID] = it
	cache.items[it.ID] = it

	it.Prompt = "updated"
	id, err := svc.SaveItem(context.Background(), it)
	require.NoError(t, err)
	assert.Equal(t, "txt-1", id)
	assert.Equal(t, 1, store.updates)
	assert.NotContains(t, cache.items, "txt-1")
	assert.Equal(t, "updated", store.items["txt-1"].Prompt)
}

func TestSaveItemKeepsOpaqueClientID(t *testing.T) {
	store := newStubStore()
	svc := newTestService(store, newMemCache())

	// ids are opaque strings, not necessarily uuids
	it := mustItem(t, assessment.KindSingleChoice)
	it.ID = "course-7/item-3"

	id, err := svc.SaveItem(context.Background(), it)
	require.NoError(t, err)
	assert.Equal(t, "course-7/item-3", id)
	assert.Contains(t, store.items, "course-7/item-3")
}

func TestSaveItemRejectsInvalid(t *testing.T) {
	store := newStubStore()
	svc := newTestService(store, newMemCache())

	it := mustItem(t, assessment.KindTrueFalse)
	it.MaxPoints = 0

	_, err := svc.SaveItem(context.Background(), it)
	require.Error(t, err)
	assert.ErrorIs(t, err, assessment.ErrInvalidItem)
	assert.Zero(t, store.inserts)
}

func TestDeleteInvalidatesCache(t *testing.T) {
	store := newStubStore()
	cache := newMemCache()
	svc := newTestService(store, cache)

	it := mustItem(t, assessment.KindMatching)
	it.ID = "m-1"
	store.items[it.ID] = it
	cache.items[it.ID] = it

	require.NoError(t, svc.Delete(context.Background(), "m-1"))
	assert.NotContains(t, store.items, "m-1")
	assert.NotContains(t, cache.items, "m-1")
}
