package session

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"dollardash/bundle"
	"dollardash/cart"
	"dollardash/catalog"
	"dollardash/models"

	"github.com/google/uuid"
)

const CookieName = "dd_visitor"

// Session is one visitor's cart, bundle and favorites. Handlers hold the
// session lock across multi-step operations such as bundle completion so
// other requests from the same visitor never observe a half-applied change.
type Session struct {
	ID        string
	Cart      *cart.Cart
	Bundle    *bundle.Builder
	Favorites *catalog.FavoriteSet

	mu       sync.Mutex
	lastSeen time.Time

	ordersMu sync.Mutex
	orders   map[string]models.Order
}

// RememberOrder records an order placed from this session so its receipt can
// be fetched before the shared order list catches up.
func (s *Session) RememberOrder(o models.Order) {
	s.ordersMu.Lock()
	defer s.ordersMu.Unlock()
	if s.orders == nil {
		s.orders = make(map[string]models.Order)
	}
	s.orders[o.ID] = o
}

// PlacedOrder returns an order this session placed.
func (s *Session) PlacedOrder(id string) (models.Order, bool) {
	s.ordersMu.Lock()
	defer s.ordersMu.Unlock()
	o, ok := s.orders[id]
	return o, ok
}

// Do runs fn while holding the session lock.
func (s *Session) Do(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	favs     catalog.FavoritesStore
	opts     bundle.Options
	idle     time.Duration
	secure   bool
	now      func() time.Time
}

func NewManager(favs catalog.FavoritesStore, opts bundle.Options, idle time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		favs:     favs,
		opts:     opts,
		idle:     idle,
		now:      time.Now,
	}
}

// SetSecureCookies marks the visitor cookie Secure.
func (m *Manager) SetSecureCookies(v bool) {
	m.secure = v
}

// Get returns the caller's session, creating it and setting the visitor
// cookie when needed. The bundle is resized to cfg on every access.
func (m *Manager) Get(w http.ResponseWriter, r *http.Request, cfg models.StoreConfig) *Session {
	id := ""
	if c, err := r.Cookie(CookieName); err == nil {
		if _, perr := uuid.Parse(c.Value); perr == nil {
			id = c.Value
		}
	}
	if id == "" {
		id = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    id,
			Path:     "/",
			MaxAge:   365 * 24 * 60 * 60,
			HttpOnly: true,
			Secure:   m.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}

	s := m.lookup(id, cfg)
	if s.Bundle.Config() != cfg {
		s.Do(func() { s.Bundle.Reconfigure(cfg) })
	}
	return s
}

func (m *Manager) lookup(id string, cfg models.StoreConfig) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		s = &Session{
			ID:        id,
			Cart:      cart.New(),
			Bundle:    bundle.New(cfg, m.opts),
			Favorites: catalog.LoadFavorites(m.favs, id),
		}
		m.sessions[id] = s
	}
	s.lastSeen = m.now()
	return s
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops sessions idle for longer than the idle window.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-m.idle)
	n := 0
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// Run sweeps periodically until ctx is done.
func (m *Manager) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				log.Printf("[Session] swept %d idle sessions", n)
			}
		}
	}
}
