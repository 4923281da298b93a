package localstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"dollardash/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestStoreSetGetDelete(t *testing.T) {
	s := newStore(t)

	_, err := s.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set("k", "one"))
	require.NoError(t, s.Set("k", "two"))
	v, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "two", v)

	require.NoError(t, s.Delete("k"))
	require.NoError(t, s.Delete("k"))
	_, err = s.Get("k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Set("a/b", "x"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a_b.json", entries[0].Name())
}

func TestSnapshotsDefaultsWhenEmpty(t *testing.T) {
	snaps := NewSnapshots(newStore(t))
	snap := snaps.Load()

	assert.Len(t, snap.Products, 12)
	assert.Empty(t, snap.Orders)
	assert.Equal(t, models.DefaultStoreConfig(), snap.Config)
}

func TestSnapshotsRoundTrip(t *testing.T) {
	snaps := NewSnapshots(newStore(t))
	want := Snapshot{
		Products: []models.Product{{ID: "p1", Name: "Mug", Price: 100, Category: models.CategoryHouseware, Image: "https://img/1"}},
		Orders: []models.Order{{
			ID:        "LOCAL-1",
			Customer:  models.Customer{Name: "A", Phone: "1", Address: "x", City: "Lahore"},
			Items:     []models.CartItem{{Product: models.Product{ID: "p1", Name: "Mug", Price: 100}, Quantity: 2}},
			Total:     200,
			Timestamp: 1,
		}},
		Config: models.StoreConfig{ItemPrice: 150, BundleItemCount: 4},
	}
	require.NoError(t, snaps.Save(want))

	assert.Equal(t, want, snaps.Load())
}

func TestSnapshotsCorruptKeyDefaultsOnlyThatCollection(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	require.NoError(t, err)
	snaps := NewSnapshots(store)

	require.NoError(t, snaps.SaveConfig(models.StoreConfig{ItemPrice: 80, BundleItemCount: 3}))
	require.NoError(t, store.Set(KeyProducts, "{not json"))

	snap := snaps.Load()
	assert.Len(t, snap.Products, 12)
	assert.Equal(t, 80, snap.Config.ItemPrice)
	assert.Equal(t, filepath.Join(dir, KeyProducts+".json"), store.path(KeyProducts))
}

func TestPrefsMode(t *testing.T) {
	p := NewPrefs(newStore(t))

	m, err := p.Mode()
	require.NoError(t, err)
	assert.Empty(t, m)

	require.NoError(t, p.SetMode("local"))
	m, _ = p.Mode()
	assert.Equal(t, "local", m)

	require.NoError(t, p.ClearMode())
	m, _ = p.Mode()
	assert.Empty(t, m)
}

func TestPrefsFavoritesPerVisitor(t *testing.T) {
	p := NewPrefs(newStore(t))

	require.NoError(t, p.SetFavorites("v1", []string{"1", "3"}))
	ids, err := p.Favorites("v1")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, ids)

	ids, err = p.Favorites("v2")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestPrefsDriveToken(t *testing.T) {
	p := NewPrefs(newStore(t))

	_, _, ok := p.DriveToken()
	assert.False(t, ok)

	exp := time.UnixMilli(time.Now().Add(time.Hour).UnixMilli())
	require.NoError(t, p.SetDriveToken("tok", exp))
	tok, got, ok := p.DriveToken()
	require.True(t, ok)
	assert.Equal(t, "tok", tok)
	assert.True(t, exp.Equal(got))

	require.NoError(t, p.ClearDriveToken())
	_, _, ok = p.DriveToken()
	assert.False(t, ok)
}

func TestPrefsDriveTokenWithoutExpiry(t *testing.T) {
	store := newStore(t)
	p := NewPrefs(store)

	require.NoError(t, store.Set(KeyDriveToken, "tok"))
	_, _, ok := p.DriveToken()
	assert.False(t, ok, "a token without an expiry must not count as stored")

	require.NoError(t, store.Set(KeyDriveTokenExp, "soon"))
	_, _, ok = p.DriveToken()
	assert.False(t, ok)
}
