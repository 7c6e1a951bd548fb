package bookings

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores bookings in the relational database.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("bookings: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// Append inserts a new row. Insertion order is preserved by the serial
// sequence on the table.
func (r *PostgresRepository) Append(ctx context.Context, booking CompletedBooking) error {
	query := `
		INSERT INTO bookings (id, sender_id, offer_name, price_cents, location_key, confirmed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.pool.Exec(ctx, query,
		booking.ID,
		booking.SenderID,
		booking.OfferName,
		booking.PriceCents,
		booking.LocationKey,
		booking.ConfirmedAt,
	); err != nil {
		return fmt.Errorf("bookings: insert failed: %w", err)
	}
	return nil
}
