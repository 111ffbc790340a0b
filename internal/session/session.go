package session

import (
	"crypto/rand"
	"encoding/hex"
	"sync"

	"bytecore/internal/cart"
	"bytecore/internal/checkout"
)

// Session owns the per-shopper mutable state: the cart and its checkout
// workflow. Both live only as long as the process.
type Session struct {
	ID       string
	Cart     *cart.Cart
	Checkout *checkout.Workflow
}

// Manager hands out sessions keyed by the opaque ID carried in the session
// cookie. Unknown or expired IDs simply get a fresh session.
type Manager struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	newWorkflow func(*cart.Cart) *checkout.Workflow
}

func NewManager(newWorkflow func(*cart.Cart) *checkout.Workflow) *Manager {
	return &Manager{
		sessions:    make(map[string]*Session),
		newWorkflow: newWorkflow,
	}
}

// GetOrCreate returns the session for id, or a new session (with a new ID)
// when id is empty or unknown.
func (m *Manager) GetOrCreate(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id != "" {
		if s, ok := m.sessions[id]; ok {
			return s
		}
	}

	s := &Session{ID: newSessionID()}
	s.Cart = cart.New()
	s.Checkout = m.newWorkflow(s.Cart)
	m.sessions[s.ID] = s
	return s
}

// Drop tears a session down, e.g. after logout.
func (m *Manager) Drop(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

func newSessionID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return hex.EncodeToString(buf)
}
