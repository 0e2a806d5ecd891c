package snapshot_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Emeline-1/pathinfer/internal/asid"
	"github.com/Emeline-1/pathinfer/internal/relation"
	"github.com/Emeline-1/pathinfer/internal/relstore"
	"github.com/Emeline-1/pathinfer/internal/snapshot"
)

func TestSaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	cache, err := snapshot.Open(filepath.Join(dir, "relstore.sqlite3"))
	require.NoError(t, err)
	defer cache.Close()

	a, err := asid.Encode("100")
	require.NoError(t, err)
	b, err := asid.Encode("200")
	require.NoError(t, err)

	s := relstore.New()
	s.Set(a, b, relation.Customer)
	s.Set(b, a, relation.Provider)

	require.NoError(t, cache.Save("snap1", s, []asid.ID{a, b}))

	loaded, ok, err := cache.Load("snap1")
	require.NoError(t, err)
	require.True(t, ok)

	tag, found := loaded.Relation(a, b)
	require.True(t, found)
	require.Equal(t, relation.Customer, tag)
}

func TestLoadReportsNotOKForUnknownTag(t *testing.T) {
	dir := t.TempDir()
	cache, err := snapshot.Open(filepath.Join(dir, "relstore.sqlite3"))
	require.NoError(t, err)
	defer cache.Close()

	_, ok, err := cache.Load("absent")
	require.NoError(t, err)
	require.False(t, ok)
}
