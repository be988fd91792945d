// Package queue implements the fire-and-forget event-bus publisher. A
// successful Publish means the job was accepted into the buffer (dispatch
// acknowledged); delivery to the downstream pipeline happens asynchronously
// and is never awaited by request handlers.
package queue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/adpulse/marketing-api/internal/api/metrics"
	"github.com/adpulse/marketing-api/internal/core/ports"
)

const (
	defaultBuffer  = 256
	deliverTimeout = 30 * time.Second
)

// ErrBusFull is returned when the buffer cannot accept the job without
// blocking the request path.
var ErrBusFull = errors.New("event bus buffer full")

// Publisher buffers fetch jobs and forwards them to the event-bus endpoint
// from a background goroutine.
type Publisher struct {
	jobs     chan ports.FetchJob
	endpoint string
	http     *http.Client
	log      zerolog.Logger
}

// NewPublisher creates a Publisher with the given buffer size. If buffer
// <= 0, defaultBuffer is used.
func NewPublisher(endpoint string, buffer int, log zerolog.Logger) *Publisher {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Publisher{
		jobs:     make(chan ports.FetchJob, buffer),
		endpoint: endpoint,
		http:     &http.Client{Timeout: deliverTimeout},
		log:      log,
	}
}

// Publish enqueues the job without blocking. The request path gets its
// acknowledgement here; downstream processing is not awaited.
func (p *Publisher) Publish(_ context.Context, job ports.FetchJob) error {
	select {
	case p.jobs <- job:
		metrics.FetchQueueDepth.Set(float64(len(p.jobs)))
		metrics.FetchPublishedTotal.WithLabelValues(string(job.Network)).Inc()
		return nil
	default:
		return ErrBusFull
	}
}

// Start launches the forwarding goroutine. It stops when ctx is cancelled.
func (p *Publisher) Start(ctx context.Context) {
	go p.run(ctx)
}

func (p *Publisher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-p.jobs:
			metrics.FetchQueueDepth.Set(float64(len(p.jobs)))
			if err := p.deliver(ctx, job); err != nil {
				// No retry: the job is dropped and logged, matching the
				// bus's at-most-once dispatch contract.
				p.log.Error().Err(err).
					Str("account_id", job.AccountID).
					Str("network", string(job.Network)).
					Msg("fetch job delivery failed")
			}
		}
	}
}

func (p *Publisher) deliver(ctx context.Context, job ports.FetchJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("event bus request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("event bus responded %d", resp.StatusCode)
	}
	return nil
}
