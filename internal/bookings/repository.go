package bookings

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CompletedBooking is an append-only record written exactly once per
// confirmation. Nothing in this service reads bookings back; the table is
// an audit/export surface for downstream tooling.
type CompletedBooking struct {
	ID          uuid.UUID
	SenderID    string
	OfferName   string
	PriceCents  int64
	LocationKey string
	ConfirmedAt time.Time
}

// Repository persists completed bookings in insertion order.
type Repository interface {
	Append(ctx context.Context, booking CompletedBooking) error
}

// MemoryRepository keeps bookings in memory for development and tests.
type MemoryRepository struct {
	mu       sync.Mutex
	bookings []CompletedBooking
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Append records the booking.
func (r *MemoryRepository) Append(_ context.Context, booking CompletedBooking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings = append(r.bookings, booking)
	return nil
}

// All returns the bookings in append order.
func (r *MemoryRepository) All() []CompletedBooking {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]CompletedBooking, len(r.bookings))
	copy(out, r.bookings)
	return out
}
