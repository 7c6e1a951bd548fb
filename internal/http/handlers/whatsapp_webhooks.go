package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/staywise/concierge/internal/conversation"
	observemetrics "github.com/staywise/concierge/internal/observability/metrics"
	"github.com/staywise/concierge/pkg/logging"
)

type conversationPublisher interface {
	EnqueueMessage(ctx context.Context, msg conversation.InboundMessage) error
}

// WhatsAppWebhookHandler handles the Meta Cloud API webhook: the GET
// verification handshake and inbound message deliveries.
type WhatsAppWebhookHandler struct {
	publisher   conversationPublisher
	verifyToken string
	logger      *logging.Logger
	metrics     *observemetrics.PipelineMetrics
}

type WhatsAppWebhookConfig struct {
	Publisher   conversationPublisher
	VerifyToken string
	Logger      *logging.Logger
	Metrics     *observemetrics.PipelineMetrics
}

func NewWhatsAppWebhookHandler(cfg WhatsAppWebhookConfig) *WhatsAppWebhookHandler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &WhatsAppWebhookHandler{
		publisher:   cfg.Publisher,
		verifyToken: cfg.VerifyToken,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
	}
}

// Verify answers Meta's subscription handshake: echo hub.challenge when the
// mode and verify token match, 403 otherwise.
func (h *WhatsAppWebhookHandler) Verify(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken && h.verifyToken != "" {
		h.logger.Info("webhook verified")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(challenge))
		return
	}
	w.WriteHeader(http.StatusForbidden)
}

// webhookEnvelope mirrors the slice of the Cloud API payload we consume.
type webhookEnvelope struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []struct {
					From string `json:"from"`
					Type string `json:"type"`
					Text struct {
						Body string `json:"body"`
					} `json:"text"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// Receive processes an inbound webhook delivery. The transport is always
// acknowledged with 200 once the body has been read: surfacing an internal
// failure here would only trigger a redelivery storm. Failures are logged.
func (h *WhatsAppWebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		h.metrics.ObserveWebhookLatency("message", time.Since(start).Seconds())
	}()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Warn("failed to read webhook body", "error", err)
		h.metrics.ObserveInbound("message", "bad_body")
		w.WriteHeader(http.StatusOK)
		return
	}

	var envelope webhookEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		h.logger.Warn("failed to decode webhook envelope", "error", err)
		h.metrics.ObserveInbound("message", "bad_payload")
		w.WriteHeader(http.StatusOK)
		return
	}

	msg, ok := extractMessage(envelope)
	if !ok {
		// Status updates and non-text messages are acked and ignored.
		h.metrics.ObserveInbound("message", "ignored")
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := h.publisher.EnqueueMessage(r.Context(), msg); err != nil {
		h.logger.Error("failed to enqueue inbound message", "error", err, "sender_id", msg.SenderID)
		h.metrics.ObserveInbound("message", "enqueue_failed")
		w.WriteHeader(http.StatusOK)
		return
	}

	h.metrics.ObserveInbound("message", "accepted")
	w.WriteHeader(http.StatusOK)
}

func extractMessage(envelope webhookEnvelope) (conversation.InboundMessage, bool) {
	if len(envelope.Entry) == 0 || len(envelope.Entry[0].Changes) == 0 {
		return conversation.InboundMessage{}, false
	}
	messages := envelope.Entry[0].Changes[0].Value.Messages
	if len(messages) == 0 {
		return conversation.InboundMessage{}, false
	}
	first := messages[0]
	if first.Type != "text" {
		return conversation.InboundMessage{}, false
	}
	from := strings.TrimSpace(first.From)
	text := strings.TrimSpace(first.Text.Body)
	if from == "" || text == "" {
		return conversation.InboundMessage{}, false
	}
	return conversation.InboundMessage{
		SenderID:   from,
		Text:       text,
		ReceivedAt: time.Now().UTC(),
	}, true
}
