package session

import (
	"sync"
	"time"

	"github.com/staywise/concierge/internal/inventory"
)

// PendingTransaction is an unconfirmed booking awaiting an affirmative
// reply from the same sender. A sender has at most one at any time.
type PendingTransaction struct {
	SenderID  string
	Offer     inventory.Offer
	CreatedAt time.Time
}

// Store holds the per-sender pending-transaction slot. State is in-memory
// only and does not survive a restart; that volatility is accepted.
//
// Operations on different senders are independent. Callers that read state,
// decide, and then mutate must do so inside WithLock so that concurrent
// deliveries for the same sender are linearized.
type Store interface {
	GetPending(senderID string) (PendingTransaction, bool)
	SetPending(senderID string, offer inventory.Offer)
	ClearPending(senderID string)
	// WithLock runs fn while holding the sender's lock.
	WithLock(senderID string, fn func())
}

// MemoryStore is the in-process Store implementation.
type MemoryStore struct {
	mu      sync.RWMutex
	pending map[string]PendingTransaction
	locks   sync.Map // senderID -> *sync.Mutex
	now     func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		pending: make(map[string]PendingTransaction),
		now:     time.Now,
	}
}

// GetPending returns the sender's pending transaction, if any.
func (s *MemoryStore) GetPending(senderID string) (PendingTransaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tx, ok := s.pending[senderID]
	return tx, ok
}

// SetPending overwrites any existing pending transaction for the sender.
// There is no merge and no history.
func (s *MemoryStore) SetPending(senderID string, offer inventory.Offer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[senderID] = PendingTransaction{
		SenderID:  senderID,
		Offer:     offer,
		CreatedAt: s.now().UTC(),
	}
}

// ClearPending removes the sender's pending transaction.
func (s *MemoryStore) ClearPending(senderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, senderID)
}

// WithLock serializes fn against other WithLock calls for the same sender.
// Different senders proceed independently.
func (s *MemoryStore) WithLock(senderID string, fn func()) {
	lock := s.lockForSender(senderID)
	lock.Lock()
	defer lock.Unlock()
	fn()
}

func (s *MemoryStore) lockForSender(senderID string) *sync.Mutex {
	lockAny, _ := s.locks.LoadOrStore(senderID, &sync.Mutex{})
	return lockAny.(*sync.Mutex)
}
