package llm

import (
	"context"
	"log/slog"
)

// FallbackClient wraps a primary backend with a single fallback tier.
// If the primary fails, the request is retried once against the fallback.
type FallbackClient struct {
	primary       Client
	fallback      Client
	fallbackModel string
	logger        *slog.Logger
}

// NewFallbackClient creates a fallback-enabled client. If fallback is nil,
// only the primary provider is used. fallbackModel overrides the request
// model when the fallback tier is exercised, since model ids are not
// portable between providers.
func NewFallbackClient(primary, fallback Client, fallbackModel string, logger *slog.Logger) *FallbackClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackClient{
		primary:       primary,
		fallback:      fallback,
		fallbackModel: fallbackModel,
		logger:        logger,
	}
}

// Complete sends the request to the primary backend, then to the fallback
// on failure.
func (c *FallbackClient) Complete(ctx context.Context, req Request) (Response, error) {
	resp, err := c.primary.Complete(ctx, req)
	if err == nil {
		return resp, nil
	}

	c.logger.Warn("primary generation backend failed",
		"error", err.Error(),
		"fallback_available", c.fallback != nil,
	)

	if c.fallback == nil {
		return Response{}, err
	}

	fallbackReq := req
	if c.fallbackModel != "" {
		fallbackReq.Model = c.fallbackModel
	}
	fallbackResp, fallbackErr := c.fallback.Complete(ctx, fallbackReq)
	if fallbackErr != nil {
		c.logger.Error("fallback generation backend also failed",
			"primary_error", err.Error(),
			"fallback_error", fallbackErr.Error(),
		)
		return Response{}, fallbackErr
	}

	c.logger.Info("fallback generation backend succeeded after primary failure")
	return fallbackResp, nil
}
