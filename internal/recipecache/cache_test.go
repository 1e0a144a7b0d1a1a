package recipecache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSource struct {
	entries map[uint][]Entry
	err     error
	calls   int
}

func (f *fakeSource) Entries(_ context.Context, productID uint) ([]Entry, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.entries[productID], nil
}

type failingStore struct{}

func (failingStore) Get(string) (string, bool, error) { return "", false, errors.New("store down") }
func (failingStore) Set(string, string) error         { return errors.New("store down") }

func newTestCache(t *testing.T, source Source) (*Cache, *BadgerStore) {
	t.Helper()
	db, err := OpenBadger("", true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	store := NewBadgerStore(db)
	return New(store, source, zap.NewNop()), store
}

func burgerRecipe() []Entry {
	return []Entry{{IngredientID: 1, Quantity: 150}, {IngredientID: 2, Quantity: 30}, {IngredientID: 3, Quantity: 20}}
}

func TestEntriesFallsBackOnMiss(t *testing.T) {
	source := &fakeSource{entries: map[uint][]Entry{1: burgerRecipe()}}
	cache, _ := newTestCache(t, source)

	entries, err := cache.Entries(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, burgerRecipe(), entries)
	assert.Equal(t, 1, source.calls)

	// Read path does not write back: a second miss recomputes again.
	_, err = cache.Entries(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}

func TestEntriesServedFromStoreAfterPopulate(t *testing.T) {
	source := &fakeSource{entries: map[uint][]Entry{1: burgerRecipe()}}
	cache, _ := newTestCache(t, source)

	require.NoError(t, cache.Populate(context.Background(), 1))
	require.Equal(t, 1, source.calls)

	entries, err := cache.Entries(context.Background(), 1)
	require.NoError(t, err)
	// Round-trip consistency: cached answer matches the authoritative one.
	assert.Equal(t, burgerRecipe(), entries)
	assert.Equal(t, 1, source.calls, "cached read must not hit the source")
}

func TestEntriesFallsBackOnUnparsableValue(t *testing.T) {
	source := &fakeSource{entries: map[uint][]Entry{1: burgerRecipe()}}
	cache, store := newTestCache(t, source)

	require.NoError(t, store.Set(Key(1), "{not json"))

	entries, err := cache.Entries(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, burgerRecipe(), entries)
}

func TestEntriesFallsBackWhenStoreUnreachable(t *testing.T) {
	source := &fakeSource{entries: map[uint][]Entry{1: burgerRecipe()}}
	cache := New(failingStore{}, source, zap.NewNop())

	entries, err := cache.Entries(context.Background(), 1)
	require.NoError(t, err, "a broken cache store must never surface to callers")
	assert.Equal(t, burgerRecipe(), entries)
}

func TestPopulateSwallowsWriteFailure(t *testing.T) {
	source := &fakeSource{entries: map[uint][]Entry{1: burgerRecipe()}}
	cache := New(failingStore{}, source, zap.NewNop())

	assert.NoError(t, cache.Populate(context.Background(), 1))
}

func TestPopulateSurfacesSourceFailure(t *testing.T) {
	source := &fakeSource{err: errors.New("db down")}
	cache, _ := newTestCache(t, source)

	assert.Error(t, cache.Populate(context.Background(), 1))
}

func TestEntriesEmptyRecipe(t *testing.T) {
	source := &fakeSource{entries: map[uint][]Entry{}}
	cache, _ := newTestCache(t, source)

	entries, err := cache.Entries(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
