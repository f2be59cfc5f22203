package clientstate

import (
	"encoding/json"
	"errors"
	"sync"
)

const sessionKey = "session"

// Perfil is the logged-in identity the app keeps on device: either a
// customer account or an admin session with its server-resolved
// capability set.
type Perfil struct {
	ClienteID   string   `json:"cliente_id,omitempty"`
	Nombre      string   `json:"nombre,omitempty"`
	Email       string   `json:"email,omitempty"`
	AdminToken  string   `json:"admin_token,omitempty"`
	Capacidades []string `json:"capacidades,omitempty"`
}

// Session persists the active login across app restarts.
type Session struct {
	mu     sync.Mutex
	store  Store
	perfil *Perfil
}

func NewSession(store Store) (*Session, error) {
	s := &Session{store: store}
	data, err := store.Get(sessionKey)
	if errors.Is(err, ErrNotFound) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	var p Perfil
	if err := json.Unmarshal(data, &p); err == nil {
		s.perfil = &p
	}
	return s, nil
}

// Guardar stores the profile as the active session.
func (s *Session) Guardar(p Perfil) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	s.perfil = &p
	return s.store.Set(sessionKey, data)
}

// Cerrar logs out and wipes the persisted session.
func (s *Session) Cerrar() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.perfil = nil
	return s.store.Delete(sessionKey)
}

// Activa reports whether a login is present.
func (s *Session) Activa() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.perfil != nil
}

// Perfil returns a copy of the active profile, or nil.
func (s *Session) Perfil() *Perfil {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.perfil == nil {
		return nil
	}
	cp := *s.perfil
	return &cp
}

// TieneCapacidad checks the server-resolved capability set; the app
// renders admin menus from this, never from a role string.
func (s *Session) TieneCapacidad(cap string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.perfil == nil {
		return false
	}
	for _, c := range s.perfil.Capacidades {
		if c == cap {
			return true
		}
	}
	return false
}
