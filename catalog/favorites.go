package catalog

import (
	"log"
	"sort"
	"sync"
)

// FavoritesStore persists a visitor's favorite ids.
type FavoritesStore interface {
	Favorites(visitor string) ([]string, error)
	SetFavorites(visitor string, ids []string) error
}

// FavoriteSet is one visitor's favorites. It is written through to the
// store on every change, whatever the data source mode.
type FavoriteSet struct {
	mu      sync.Mutex
	visitor string
	ids     map[string]bool
	store   FavoritesStore
}

// LoadFavorites reads the visitor's saved set. A read failure starts empty.
func LoadFavorites(store FavoritesStore, visitor string) *FavoriteSet {
	f := &FavoriteSet{visitor: visitor, ids: map[string]bool{}, store: store}
	ids, err := store.Favorites(visitor)
	if err != nil {
		log.Printf("[Favorites] load %s: %v", visitor, err)
		return f
	}
	for _, id := range ids {
		f.ids[id] = true
	}
	return f
}

// Toggle flips id and reports whether it is now a favorite.
func (f *FavoriteSet) Toggle(id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ids[id] {
		delete(f.ids, id)
	} else {
		f.ids[id] = true
	}
	return f.ids[id], f.store.SetFavorites(f.visitor, f.sorted())
}

func (f *FavoriteSet) Contains(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ids[id]
}

// IDs returns the favorites in a stable order.
func (f *FavoriteSet) IDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted()
}

// Set returns a copy usable with Filter.
func (f *FavoriteSet) Set() map[string]bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]bool, len(f.ids))
	for id := range f.ids {
		out[id] = true
	}
	return out
}

func (f *FavoriteSet) sorted() []string {
	out := make([]string, 0, len(f.ids))
	for id := range f.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
