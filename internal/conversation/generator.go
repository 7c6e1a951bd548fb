package conversation

import (
	"context"
	"strings"
	"time"

	"github.com/staywise/concierge/internal/cache"
	"github.com/staywise/concierge/internal/llm"
	"github.com/staywise/concierge/pkg/logging"
)

// Outcome describes how a freeform reply was resolved.
type Outcome string

const (
	// OutcomeCached means the reply came from the cache.
	OutcomeCached Outcome = "cached"
	// OutcomeGenerated means the backend produced the reply.
	OutcomeGenerated Outcome = "generated"
	// OutcomeDegraded means the backend failed or returned nothing usable.
	// The caller substitutes a fallback reply; the generator never
	// fabricates domain content.
	OutcomeDegraded Outcome = "degraded"
)

// GeneratorConfig controls the reply generator.
type GeneratorConfig struct {
	Model       string
	System      string
	MaxTokens   int32
	Temperature float32
	// Delay is an optional pause before each backend call, a light brake
	// on bursty senders. Zero disables it.
	Delay time.Duration
	// Timeout bounds each backend call. A timed-out call is degraded like
	// any other failure.
	Timeout time.Duration
	// CacheTTL is how long resolved replies stay valid for identical input.
	CacheTTL time.Duration
}

// ReplyGenerator resolves freeform text to a reply via the cache and the
// generation backend.
type ReplyGenerator struct {
	client llm.Client
	cache  cache.ReplyCache
	cfg    GeneratorConfig
	logger *logging.Logger
}

// NewReplyGenerator wires the generator.
func NewReplyGenerator(client llm.Client, replyCache cache.ReplyCache, cfg GeneratorConfig, logger *logging.Logger) *ReplyGenerator {
	if client == nil {
		panic("conversation: llm client cannot be nil")
	}
	if replyCache == nil {
		panic("conversation: reply cache cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	return &ReplyGenerator{
		client: client,
		cache:  replyCache,
		cfg:    cfg,
		logger: logger,
	}
}

// CacheKey normalizes text so Get and Put can never disagree.
func CacheKey(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Resolve returns the reply for freeform text. Cache hits are returned
// as-is; generated replies are cached before returning. On OutcomeDegraded
// the returned string is empty and the caller must substitute a fallback
// (and may cache it via Remember).
func (g *ReplyGenerator) Resolve(ctx context.Context, text string) (string, Outcome) {
	key := CacheKey(text)
	if value, ok := g.cache.Get(ctx, key); ok {
		return value, OutcomeCached
	}

	if g.cfg.Delay > 0 {
		select {
		case <-time.After(g.cfg.Delay):
		case <-ctx.Done():
			return "", OutcomeDegraded
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	resp, err := g.client.Complete(callCtx, llm.Request{
		Model:       g.cfg.Model,
		System:      g.cfg.System,
		Prompt:      text,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		g.logger.Warn("generation backend unavailable", "error", err)
		return "", OutcomeDegraded
	}

	reply := strings.TrimSpace(resp.Text)
	if reply == "" {
		g.logger.Warn("generation backend returned empty text", "stop_reason", resp.StopReason)
		return "", OutcomeDegraded
	}

	g.Remember(ctx, text, reply)
	return reply, OutcomeGenerated
}

// Remember caches a resolved reply for future identical input. Cache write
// failures are logged, not surfaced; the reply has already been decided.
func (g *ReplyGenerator) Remember(ctx context.Context, text, reply string) {
	if err := g.cache.Put(ctx, CacheKey(text), reply, g.cfg.CacheTTL); err != nil {
		g.logger.Warn("failed to cache reply", "error", err)
	}
}
