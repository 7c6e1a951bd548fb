package conversation

import (
	"context"
	"fmt"

	"github.com/staywise/concierge/pkg/logging"
)

// Publisher enqueues inbound messages for asynchronous processing, so the
// webhook handler can acknowledge the transport without waiting on the
// generation backend or the outbound send.
type Publisher struct {
	queue  Queue
	logger *logging.Logger
}

// NewPublisher creates a queue-backed publisher.
func NewPublisher(queue Queue, logger *logging.Logger) *Publisher {
	if queue == nil {
		panic("conversation: queue cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Publisher{
		queue:  queue,
		logger: logger,
	}
}

// EnqueueMessage publishes one inbound message job.
func (p *Publisher) EnqueueMessage(ctx context.Context, msg InboundMessage) error {
	if ctx == nil {
		ctx = context.Background()
	}

	payload, body, err := encodePayload(queuePayload{Message: msg})
	if err != nil {
		return err
	}

	if err := p.queue.Send(ctx, body); err != nil {
		return fmt.Errorf("conversation: failed to enqueue job: %w", err)
	}

	p.logger.Debug("inbound message enqueued", "job_id", payload.ID, "sender_id", msg.SenderID)
	return nil
}
