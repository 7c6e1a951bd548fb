package conversation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/staywise/concierge/internal/cache"
	"github.com/staywise/concierge/internal/llm"
)

type stubLLM struct {
	mu    sync.Mutex
	resp  llm.Response
	err   error
	calls int
	last  llm.Request
}

func (s *stubLLM) Complete(_ context.Context, req llm.Request) (llm.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.last = req
	return s.resp, s.err
}

func (s *stubLLM) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newTestGenerator(client llm.Client) *ReplyGenerator {
	return NewReplyGenerator(client, cache.NewMemoryCache(), GeneratorConfig{
		Model:    "test-model",
		System:   "be brief",
		CacheTTL: time.Minute,
	}, nil)
}

func TestResolveGeneratesAndCaches(t *testing.T) {
	ctx := context.Background()
	backend := &stubLLM{resp: llm.Response{Text: "The Eiffel Tower is in Paris."}}
	gen := newTestGenerator(backend)

	reply, outcome := gen.Resolve(ctx, "Where is the Eiffel Tower?")
	if outcome != OutcomeGenerated {
		t.Fatalf("outcome = %v, want %v", outcome, OutcomeGenerated)
	}
	if reply != "The Eiffel Tower is in Paris." {
		t.Fatalf("reply = %q", reply)
	}

	// Identical input within TTL must not hit the backend again.
	second, outcome := gen.Resolve(ctx, "Where is the Eiffel Tower?")
	if outcome != OutcomeCached {
		t.Fatalf("second outcome = %v, want %v", outcome, OutcomeCached)
	}
	if second != reply {
		t.Errorf("cached reply %q differs from first reply %q", second, reply)
	}
	if backend.callCount() != 1 {
		t.Errorf("backend calls = %d, want 1", backend.callCount())
	}
}

func TestResolveCacheKeyNormalization(t *testing.T) {
	ctx := context.Background()
	backend := &stubLLM{resp: llm.Response{Text: "hi"}}
	gen := newTestGenerator(backend)

	gen.Resolve(ctx, "Hello There")
	_, outcome := gen.Resolve(ctx, "  hello there  ")
	if outcome != OutcomeCached {
		t.Errorf("outcome = %v, want cache hit for trimmed case-folded input", outcome)
	}
	if backend.callCount() != 1 {
		t.Errorf("backend calls = %d, want 1", backend.callCount())
	}
}

func TestResolveDegradedOnError(t *testing.T) {
	backend := &stubLLM{err: errors.New("backend down")}
	gen := newTestGenerator(backend)

	reply, outcome := gen.Resolve(context.Background(), "anything")
	if outcome != OutcomeDegraded {
		t.Fatalf("outcome = %v, want %v", outcome, OutcomeDegraded)
	}
	if reply != "" {
		t.Errorf("degraded reply must be empty, got %q", reply)
	}
}

func TestResolveDegradedOnEmptyText(t *testing.T) {
	backend := &stubLLM{resp: llm.Response{Text: "   ", StopReason: "length"}}
	gen := newTestGenerator(backend)

	_, outcome := gen.Resolve(context.Background(), "anything")
	if outcome != OutcomeDegraded {
		t.Errorf("outcome = %v, want %v", outcome, OutcomeDegraded)
	}
}

func TestResolveDegradedErrorNotCached(t *testing.T) {
	ctx := context.Background()
	backend := &stubLLM{err: errors.New("backend down")}
	gen := newTestGenerator(backend)

	gen.Resolve(ctx, "anything")
	gen.Resolve(ctx, "anything")
	if backend.callCount() != 2 {
		t.Errorf("backend calls = %d, want 2; failures must not poison the cache", backend.callCount())
	}
}

func TestResolvePassesRequestFields(t *testing.T) {
	backend := &stubLLM{resp: llm.Response{Text: "ok"}}
	gen := NewReplyGenerator(backend, cache.NewMemoryCache(), GeneratorConfig{
		Model:       "test-model",
		System:      "be brief",
		MaxTokens:   128,
		Temperature: 0.3,
	}, nil)

	gen.Resolve(context.Background(), "Tell me about Paris")
	if backend.last.Model != "test-model" || backend.last.System != "be brief" {
		t.Errorf("request = %+v", backend.last)
	}
	if backend.last.Prompt != "Tell me about Paris" {
		t.Errorf("prompt = %q; the raw text, not the cache key, goes to the backend", backend.last.Prompt)
	}
	if backend.last.MaxTokens != 128 || backend.last.Temperature != 0.3 {
		t.Errorf("inference config not forwarded: %+v", backend.last)
	}
}

func TestResolveDelayHonorsCancellation(t *testing.T) {
	backend := &stubLLM{resp: llm.Response{Text: "ok"}}
	gen := NewReplyGenerator(backend, cache.NewMemoryCache(), GeneratorConfig{
		Delay: time.Minute,
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, outcome := gen.Resolve(ctx, "anything")
	if outcome != OutcomeDegraded {
		t.Fatalf("outcome = %v, want %v", outcome, OutcomeDegraded)
	}
	if backend.callCount() != 0 {
		t.Error("backend must not be called after cancellation")
	}
}

func TestRememberMakesLaterResolvesHit(t *testing.T) {
	ctx := context.Background()
	backend := &stubLLM{err: errors.New("down")}
	gen := newTestGenerator(backend)

	gen.Remember(ctx, "Hello?", "canned reply")
	reply, outcome := gen.Resolve(ctx, "hello?")
	if outcome != OutcomeCached || reply != "canned reply" {
		t.Errorf("Resolve = (%q, %v), want cached canned reply", reply, outcome)
	}
}
