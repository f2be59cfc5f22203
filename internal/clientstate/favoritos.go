package clientstate

import (
	"encoding/json"
	"errors"
	"sort"
	"sync"
)

const favoritosKey = "favoritos"

// Favoritos holds the set of product ids the user has marked.
type Favoritos struct {
	mu    sync.Mutex
	store Store
	ids   map[string]bool
}

func NewFavoritos(store Store) (*Favoritos, error) {
	f := &Favoritos{store: store, ids: make(map[string]bool)}
	data, err := store.Get(favoritosKey)
	if errors.Is(err, ErrNotFound) {
		return f, nil
	}
	if err != nil {
		return nil, err
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return f, nil
	}
	for _, id := range list {
		f.ids[id] = true
	}
	return f, nil
}

func (f *Favoritos) persist() error {
	list := make([]string, 0, len(f.ids))
	for id := range f.ids {
		list = append(list, id)
	}
	sort.Strings(list)
	data, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return f.store.Set(favoritosKey, data)
}

// Toggle flips a product's favorite state and reports the new state.
func (f *Favoritos) Toggle(id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ids[id] {
		delete(f.ids, id)
		return false, f.persist()
	}
	f.ids[id] = true
	return true, f.persist()
}

func (f *Favoritos) Contains(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ids[id]
}

func (f *Favoritos) List() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := make([]string, 0, len(f.ids))
	for id := range f.ids {
		list = append(list, id)
	}
	sort.Strings(list)
	return list
}
