package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	observemetrics "github.com/staywise/concierge/internal/observability/metrics"
	"github.com/staywise/concierge/pkg/logging"
)

const (
	defaultWorkerCount   = 2
	defaultWaitSeconds   = 2
	defaultBatchSize     = 5
	maxWaitSeconds       = 20
	maxReceiveBatchSize  = 10
	sendTimeoutSeconds   = 10
	deleteTimeoutSeconds = 5
)

// Worker consumes inbound-message jobs from the queue, resolves a reply
// through the orchestrator, and delivers it. A failed send is logged and
// never retried within the same delivery.
type Worker struct {
	orchestrator *Orchestrator
	queue        Queue
	messenger    Messenger
	metrics      *observemetrics.PipelineMetrics
	logger       *logging.Logger

	cfg workerConfig
	wg  sync.WaitGroup
}

type workerConfig struct {
	workers          int
	receiveWaitSecs  int
	receiveBatchSize int
	sendTimeout      time.Duration
}

// WorkerOption customizes worker behavior.
type WorkerOption func(*workerConfig)

// WithWorkerCount sets the number of concurrent consumer goroutines.
func WithWorkerCount(count int) WorkerOption {
	return func(cfg *workerConfig) {
		if count > 0 {
			cfg.workers = count
		}
	}
}

// WithReceiveWaitSeconds sets the queue long-poll wait duration.
func WithReceiveWaitSeconds(seconds int) WorkerOption {
	return func(cfg *workerConfig) {
		if seconds < 0 {
			return
		}
		if seconds > maxWaitSeconds {
			seconds = maxWaitSeconds
		}
		cfg.receiveWaitSecs = seconds
	}
}

// WithReceiveBatchSize sets how many messages to fetch per poll.
func WithReceiveBatchSize(size int) WorkerOption {
	return func(cfg *workerConfig) {
		if size <= 0 {
			return
		}
		if size > maxReceiveBatchSize {
			size = maxReceiveBatchSize
		}
		cfg.receiveBatchSize = size
	}
}

// WithSendTimeout bounds each outbound delivery call.
func WithSendTimeout(timeout time.Duration) WorkerOption {
	return func(cfg *workerConfig) {
		if timeout > 0 {
			cfg.sendTimeout = timeout
		}
	}
}

// NewWorker constructs a queue consumer around the orchestrator.
func NewWorker(orchestrator *Orchestrator, queue Queue, messenger Messenger, metrics *observemetrics.PipelineMetrics, logger *logging.Logger, opts ...WorkerOption) *Worker {
	if orchestrator == nil {
		panic("conversation: orchestrator cannot be nil")
	}
	if queue == nil {
		panic("conversation: queue cannot be nil")
	}
	if messenger == nil {
		panic("conversation: messenger cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}

	cfg := workerConfig{
		workers:          defaultWorkerCount,
		receiveWaitSecs:  defaultWaitSeconds,
		receiveBatchSize: defaultBatchSize,
		sendTimeout:      sendTimeoutSeconds * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Worker{
		orchestrator: orchestrator,
		queue:        queue,
		messenger:    messenger,
		metrics:      metrics,
		logger:       logger,
		cfg:          cfg,
	}
}

// Start launches worker goroutines until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	for i := 0; i < w.cfg.workers; i++ {
		w.wg.Add(1)
		go w.run(ctx, i+1)
	}
}

// Wait blocks until all worker goroutines exit.
func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) run(ctx context.Context, workerID int) {
	defer w.wg.Done()
	w.logger.Debug("conversation worker started", "worker_id", workerID)

	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("conversation worker stopping", "worker_id", workerID)
			return
		default:
		}

		messages, err := w.queue.Receive(ctx, w.cfg.receiveBatchSize, w.cfg.receiveWaitSecs)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			w.logger.Error("failed to receive conversation jobs", "error", err, "worker_id", workerID)
			time.Sleep(backoff)
			if backoff < 5*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		for _, msg := range messages {
			w.handleMessage(ctx, msg)
		}
	}
}

func (w *Worker) handleMessage(ctx context.Context, msg queueMessage) {
	var payload queuePayload
	if err := json.Unmarshal([]byte(msg.Body), &payload); err != nil {
		w.logger.Error("failed to decode conversation job", "error", err)
		w.deleteMessage(context.Background(), msg.ReceiptHandle)
		return
	}

	reply := w.orchestrator.Respond(ctx, payload.Message)

	sendCtx, cancel := context.WithTimeout(ctx, w.cfg.sendTimeout)
	if err := w.messenger.SendText(sendCtx, reply.To, reply.Text); err != nil {
		// Not retried: the transport has already been acked and a retry
		// here risks duplicate replies.
		w.logger.Error("failed to send reply",
			"error", err,
			"job_id", payload.ID,
			"sender_id", payload.Message.SenderID,
		)
		w.metrics.ObserveOutbound("error")
	} else {
		w.metrics.ObserveOutbound("sent")
	}
	cancel()

	w.deleteMessage(context.Background(), msg.ReceiptHandle)
}

func (w *Worker) deleteMessage(ctx context.Context, receiptHandle string) {
	if receiptHandle == "" {
		return
	}

	deleteCtx, cancel := context.WithTimeout(ctx, deleteTimeoutSeconds*time.Second)
	defer cancel()

	if err := w.queue.Delete(deleteCtx, receiptHandle); err != nil {
		w.logger.Error("failed to delete conversation job", "error", err)
	}
}
