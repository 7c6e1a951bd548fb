package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/staywise/concierge/internal/bookings"
	"github.com/staywise/concierge/internal/intent"
	"github.com/staywise/concierge/internal/inventory"
	observemetrics "github.com/staywise/concierge/internal/observability/metrics"
	"github.com/staywise/concierge/internal/session"
	"github.com/staywise/concierge/pkg/logging"
)

// Orchestrator turns one inbound message into exactly one reply, consulting
// the pending-transaction slot first, then domain intents, then the reply
// generator with canned fallbacks.
type Orchestrator struct {
	catalog   *inventory.Catalog
	sessions  session.Store
	bookings  bookings.Repository
	generator *ReplyGenerator
	fallbacks *FallbackReplies
	metrics   *observemetrics.PipelineMetrics
	logger    *logging.Logger
	now       func() time.Time
}

// NewOrchestrator wires the decision pipeline.
func NewOrchestrator(
	catalog *inventory.Catalog,
	sessions session.Store,
	repo bookings.Repository,
	generator *ReplyGenerator,
	fallbacks *FallbackReplies,
	metrics *observemetrics.PipelineMetrics,
	logger *logging.Logger,
) *Orchestrator {
	if catalog == nil {
		panic("conversation: catalog cannot be nil")
	}
	if sessions == nil {
		panic("conversation: session store cannot be nil")
	}
	if repo == nil {
		panic("conversation: bookings repository cannot be nil")
	}
	if generator == nil {
		panic("conversation: reply generator cannot be nil")
	}
	if fallbacks == nil {
		fallbacks = NewFallbackReplies(nil)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Orchestrator{
		catalog:   catalog,
		sessions:  sessions,
		bookings:  repo,
		generator: generator,
		fallbacks: fallbacks,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// Respond resolves the reply for one inbound message. It never returns an
// error: every internal failure degrades into a valid text reply so the
// transport can always be acknowledged.
//
// The whole decision runs under the sender's lock, so two concurrent
// deliveries for the same sender are linearized and cannot both consume the
// same pending transaction. Deliveries for different senders proceed
// independently.
func (o *Orchestrator) Respond(ctx context.Context, msg InboundMessage) Reply {
	var text string
	o.sessions.WithLock(msg.SenderID, func() {
		text = o.resolve(ctx, msg)
	})
	return Reply{To: msg.SenderID, Text: text}
}

func (o *Orchestrator) resolve(ctx context.Context, msg InboundMessage) string {
	classified := intent.Classify(msg.Text)

	if classified.Kind == intent.Confirmation {
		if pending, ok := o.sessions.GetPending(msg.SenderID); ok {
			return o.confirm(ctx, pending)
		}
		// An affirmative with nothing pending confirms nothing. The text
		// may still carry a search or book request ("yes, book Hotel A"),
		// so it gets re-read against the domain patterns.
		classified = intent.ClassifyDomain(msg.Text)
	}

	switch classified.Kind {
	case intent.Search:
		return o.search(classified.Location)
	case intent.Book:
		return o.book(msg.SenderID, classified.OfferQuery)
	default:
		return o.freeform(ctx, msg.Text)
	}
}

func (o *Orchestrator) confirm(ctx context.Context, pending session.PendingTransaction) string {
	booking := bookings.CompletedBooking{
		ID:          uuid.New(),
		SenderID:    pending.SenderID,
		OfferName:   pending.Offer.Name,
		PriceCents:  pending.Offer.PriceCents,
		LocationKey: pending.Offer.LocationKey,
		ConfirmedAt: o.now().UTC(),
	}
	if err := o.bookings.Append(ctx, booking); err != nil {
		// At-least-once intent, best-effort durability: the confirmation
		// has been decided and is still sent.
		o.logger.Error("failed to persist booking",
			"error", err,
			"sender_id", pending.SenderID,
			"offer", pending.Offer.Name,
		)
	}
	o.sessions.ClearPending(pending.SenderID)
	return fmt.Sprintf("Your booking for %s is confirmed. See you soon!", pending.Offer.Name)
}

func (o *Orchestrator) search(location string) string {
	offers, ok := o.catalog.FindOffers(location)
	if !ok || len(offers) == 0 {
		return fmt.Sprintf("Sorry, I couldn't find any hotels in %s.", location)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hotels in %s:\n", location)
	for _, offer := range offers {
		fmt.Fprintf(&b, "- %s (%s/night)\n", offer.Name, offer.PriceDollars())
	}
	b.WriteString("Reply 'Book <name>' to book one.")
	return b.String()
}

func (o *Orchestrator) book(senderID, query string) string {
	offer, ok := o.catalog.FindOfferByName(query)
	if !ok {
		return fmt.Sprintf("Sorry, I couldn't find a hotel called \"%s\".", query)
	}
	// A new book intent overwrites any earlier unconfirmed transaction.
	o.sessions.SetPending(senderID, offer)
	return fmt.Sprintf("You'd like to book %s for %s/night? Reply 'yes' to confirm.", offer.Name, offer.PriceDollars())
}

func (o *Orchestrator) freeform(ctx context.Context, text string) string {
	reply, outcome := o.generator.Resolve(ctx, text)
	if outcome == OutcomeDegraded {
		reply = o.fallbacks.Pick(text)
		// Cache the fallback too, so an identical retry inside the TTL
		// gets the same reply without another backend call.
		o.generator.Remember(ctx, text, reply)
	}
	o.metrics.ObserveGeneration(string(outcome))
	return reply
}
