package conversation

import (
	"context"
	"testing"
	"time"
)

func TestMemoryQueueSendReceive(t *testing.T) {
	ctx := context.Background()
	q := NewMemoryQueue(4)

	if err := q.Send(ctx, `{"n":1}`); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := q.Send(ctx, `{"n":2}`); err != nil {
		t.Fatalf("Send: %v", err)
	}

	messages, err := q.Receive(ctx, 10, 1)
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("received %d messages, want 2", len(messages))
	}
	if messages[0].Body != `{"n":1}` || messages[1].Body != `{"n":2}` {
		t.Errorf("messages out of order: %+v", messages)
	}
	if messages[0].ID == "" || messages[0].ReceiptHandle == "" {
		t.Error("expected generated id and receipt handle")
	}
}

func TestMemoryQueueReceiveRespectsBatchSize(t *testing.T) {
	ctx := context.Background()
	q := NewMemoryQueue(4)
	for i := 0; i < 3; i++ {
		if err := q.Send(ctx, "body"); err != nil {
			t.Fatal(err)
		}
	}

	messages, err := q.Receive(ctx, 2, 1)
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if len(messages) != 2 {
		t.Errorf("received %d messages, want 2", len(messages))
	}
}

func TestMemoryQueueReceiveTimesOutEmpty(t *testing.T) {
	q := NewMemoryQueue(1)

	start := time.Now()
	messages, err := q.Receive(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if messages != nil {
		t.Errorf("expected no messages, got %+v", messages)
	}
	if elapsed := time.Since(start); elapsed < 900*time.Millisecond {
		t.Errorf("returned after %v, expected to wait ~1s", elapsed)
	}
}

func TestMemoryQueueReceiveCancellation(t *testing.T) {
	q := NewMemoryQueue(1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := q.Receive(ctx, 1, 0)
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		if err == nil {
			t.Error("expected context error from cancelled Receive")
		}
	case <-time.After(time.Second):
		t.Fatal("Receive did not return after cancellation")
	}
}

func TestMemoryQueueDeleteIsNoOp(t *testing.T) {
	q := NewMemoryQueue(1)
	if err := q.Delete(context.Background(), "any-handle"); err != nil {
		t.Errorf("Delete: %v", err)
	}
}
