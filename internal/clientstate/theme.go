package clientstate

import (
	"errors"
	"sync"
)

const (
	themeKey   = "theme"
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Theme remembers the user's light/dark preference.
type Theme struct {
	mu    sync.Mutex
	store Store
	mode  string
}

func NewTheme(store Store) (*Theme, error) {
	t := &Theme{store: store, mode: ThemeLight}
	data, err := store.Get(themeKey)
	if errors.Is(err, ErrNotFound) {
		return t, nil
	}
	if err != nil {
		return nil, err
	}
	if m := string(data); m == ThemeDark {
		t.mode = ThemeDark
	}
	return t, nil
}

func (t *Theme) Mode() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mode
}

// Toggle switches between light and dark and persists the choice.
func (t *Theme) Toggle() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.mode == ThemeDark {
		t.mode = ThemeLight
	} else {
		t.mode = ThemeDark
	}
	return t.mode, t.store.Set(themeKey, []byte(t.mode))
}
