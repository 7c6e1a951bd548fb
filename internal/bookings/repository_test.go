package bookings

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestMemoryRepositoryAppend(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	first := CompletedBooking{
		ID:          uuid.New(),
		SenderID:    "sender-1",
		OfferName:   "Hotel A",
		PriceCents:  10000,
		LocationKey: "paris",
		ConfirmedAt: time.Now().UTC(),
	}
	second := CompletedBooking{ID: uuid.New(), SenderID: "sender-2", OfferName: "Hotel B"}

	if err := repo.Append(ctx, first); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := repo.Append(ctx, second); err != nil {
		t.Fatalf("Append: %v", err)
	}

	all := repo.All()
	if len(all) != 2 {
		t.Fatalf("len(All()) = %d, want 2", len(all))
	}
	if all[0].ID != first.ID || all[1].ID != second.ID {
		t.Error("bookings not returned in append order")
	}
}

func TestMemoryRepositoryConcurrentAppend(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.Append(ctx, CompletedBooking{ID: uuid.New(), SenderID: "sender-1"})
		}()
	}
	wg.Wait()

	if got := len(repo.All()); got != writers {
		t.Errorf("len(All()) = %d, want %d", got, writers)
	}
}

func TestAllReturnsCopy(t *testing.T) {
	repo := NewMemoryRepository()
	_ = repo.Append(context.Background(), CompletedBooking{OfferName: "Hotel A"})

	snapshot := repo.All()
	snapshot[0].OfferName = "mutated"

	if repo.All()[0].OfferName != "Hotel A" {
		t.Error("All() must return a copy, not the backing slice")
	}
}
