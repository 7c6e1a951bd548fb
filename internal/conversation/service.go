package conversation

import (
	"context"
	"time"
)

// InboundMessage is one webhook delivery reduced to the fields the pipeline
// consumes. It is constructed once per delivery and never mutated.
type InboundMessage struct {
	SenderID   string    `json:"sender_id"`
	Text       string    `json:"text"`
	ReceivedAt time.Time `json:"received_at"`
}

// Reply is the single outbound message produced for an inbound one.
type Reply struct {
	To   string
	Text string
}

// Messenger delivers replies back to the end user.
type Messenger interface {
	SendText(ctx context.Context, to, body string) error
}
