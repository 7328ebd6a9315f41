package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T, limit int) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"), limit)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	store.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Minute)
	}
	return store
}

func queries(entries []*Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Query)
	}
	return out
}

func TestStore_RecordAndRecent(t *testing.T) {
	store := setupTestStore(t, 0)

	require.NoError(t, store.Record("climate policy", true))
	require.NoError(t, store.Record("election results", false))
	require.NoError(t, store.Record("ai regulation", true))

	entries, err := store.Recent(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"ai regulation", "election results", "climate policy"}, queries(entries))
	assert.False(t, entries[1].OK)
	assert.True(t, entries[0].At.After(entries[1].At))

	entries, err = store.Recent(2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	last, err := store.LastQuery()
	require.NoError(t, err)
	assert.Equal(t, "ai regulation", last)
}

func TestStore_PrunesToLimit(t *testing.T) {
	store := setupTestStore(t, 2)

	for _, q := range []string{"one", "two", "three", "four"} {
		require.NoError(t, store.Record(q, true))
	}

	entries, err := store.Recent(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"four", "three"}, queries(entries))
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := Open(path, 0)
	require.NoError(t, err)
	require.NoError(t, store.Record("persisted", true))
	require.NoError(t, store.Close())

	store, err = Open(path, 0)
	require.NoError(t, err)
	defer store.Close()

	entries, err := store.Recent(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"persisted"}, queries(entries))
}

func TestStore_Clear(t *testing.T) {
	store := setupTestStore(t, 0)
	require.NoError(t, store.Record("gone", true))
	require.NoError(t, store.Clear())

	entries, err := store.Recent(0)
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, store.Record("after clear", true))
	entries, err = store.Recent(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"after clear"}, queries(entries))
}

func TestStore_Grep(t *testing.T) {
	store := setupTestStore(t, 0)
	for _, q := range []string{"climate policy", "election results", "climate summit", "ai regulation"} {
		require.NoError(t, store.Record(q, true))
	}

	tests := []struct {
		term     string
		expected []string
	}{
		{"climate", []string{"climate policy", "climate summit"}},
		{"elect", []string{"election results"}},
		{"REGULATION", []string{"ai regulation"}},
		{"weather", []string{}},
		{"  ", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got, err := store.Grep(tt.term, 10)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.expected, queries(got))
		})
	}
}

func TestIndex_RestoresStoredFields(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	idx, err := NewIndex([]*Entry{{ID: 7, Query: "ukraine grain deal", At: at, OK: true}})
	require.NoError(t, err)
	defer idx.Close()

	got, err := idx.Search("grain", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint64(7), got[0].ID)
	assert.Equal(t, "ukraine grain deal", got[0].Query)
	assert.True(t, got[0].At.Equal(at))
	assert.True(t, got[0].OK)
}

func TestRecall(t *testing.T) {
	r := NewRecall([]string{"newest", "newest", "middle", "oldest"})
	assert.Equal(t, 3, r.Len())

	q, ok := r.Prev("draft")
	assert.True(t, ok)
	assert.Equal(t, "newest", q)

	q, _ = r.Prev(q)
	assert.Equal(t, "middle", q)
	q, _ = r.Prev(q)
	assert.Equal(t, "oldest", q)

	q, ok = r.Prev(q)
	assert.False(t, ok)
	assert.Equal(t, "oldest", q)

	q, _ = r.Next()
	assert.Equal(t, "middle", q)
	q, _ = r.Next()
	assert.Equal(t, "newest", q)
	q, ok = r.Next()
	assert.True(t, ok)
	assert.Equal(t, "draft", q, "stepping past the newest entry restores the draft")

	_, ok = r.Next()
	assert.False(t, ok)
}

func TestRecall_Push(t *testing.T) {
	r := FromEntries([]*Entry{{Query: "b"}, {Query: "a"}})
	r.Push("c")
	r.Push("c")
	assert.Equal(t, 3, r.Len())

	q, _ := r.Prev("")
	assert.Equal(t, "c", q)
}
