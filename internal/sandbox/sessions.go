package sandbox

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sline-io/sline-go/internal/checkout/domain"
)

var ErrSessionNotFound = errors.New("checkout session not found")

// CheckoutSession is a cart imported into the hosted checkout.
type CheckoutSession struct {
	ID           string            `json:"id"`
	RetailerSlug string            `json:"retailerSlug"`
	Cart         []domain.CartLine `json:"cart"`
	Duration     *int              `json:"duration"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// SessionStore retains imported checkout sessions in memory.
type SessionStore struct {
	mu    sync.RWMutex
	items map[string]CheckoutSession
}

func NewSessionStore() *SessionStore {
	return &SessionStore{items: make(map[string]CheckoutSession)}
}

// Save stores or overwrites a session.
func (s *SessionStore) Save(_ context.Context, session CheckoutSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[session.ID] = session
	return nil
}

// Get returns the session for an id.
func (s *SessionStore) Get(_ context.Context, id string) (*CheckoutSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.items[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	copy := value
	return &copy, nil
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
