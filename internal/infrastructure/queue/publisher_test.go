package queue

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/adpulse/marketing-api/internal/core/domain"
	"github.com/adpulse/marketing-api/internal/core/ports"
)

func TestPublish_AcknowledgesWithoutConsumer(t *testing.T) {
	// No Start: the forwarding goroutine is not running, yet Publish must
	// still succeed. Dispatch is acknowledged at enqueue time.
	p := NewPublisher("http://bus.invalid/jobs", 4, zerolog.Nop())

	err := p.Publish(context.Background(), ports.FetchJob{
		AccountID: "mgr-1",
		Network:   domain.NetworkFacebook,
		Requested: time.Now(),
	})
	if err != nil {
		t.Fatalf("Publish() = %v", err)
	}
}

func TestPublish_FullBufferRejects(t *testing.T) {
	p := NewPublisher("http://bus.invalid/jobs", 2, zerolog.Nop())

	for i := 0; i < 2; i++ {
		if err := p.Publish(context.Background(), ports.FetchJob{AccountID: "mgr-1"}); err != nil {
			t.Fatalf("Publish() filling buffer = %v", err)
		}
	}

	err := p.Publish(context.Background(), ports.FetchJob{AccountID: "mgr-1"})
	if !errors.Is(err, ErrBusFull) {
		t.Fatalf("Publish() on full buffer = %v, want ErrBusFull", err)
	}
}

func TestStart_ForwardsJobs(t *testing.T) {
	received := make(chan ports.FetchJob, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var job ports.FetchJob
		if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
			t.Errorf("decoding forwarded job: %v", err)
		}
		received <- job
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := NewPublisher(srv.URL, 4, zerolog.Nop())
	p.Start(ctx)

	want := ports.FetchJob{AccountID: "mgr-1", BusinessID: "biz-1", Network: domain.NetworkTikTok}
	if err := p.Publish(ctx, want); err != nil {
		t.Fatalf("Publish() = %v", err)
	}

	select {
	case got := <-received:
		if got.AccountID != want.AccountID || got.BusinessID != want.BusinessID || got.Network != want.Network {
			t.Fatalf("forwarded job = %+v, want %+v", got, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("job never delivered to the bus endpoint")
	}
}

func TestStart_DeliveryFailureIsSwallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := NewPublisher(srv.URL, 4, zerolog.Nop())
	p.Start(ctx)

	// A failed delivery is dropped, not retried; the publisher must keep
	// accepting jobs afterwards.
	if err := p.Publish(ctx, ports.FetchJob{AccountID: "mgr-1"}); err != nil {
		t.Fatalf("Publish() = %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if err := p.Publish(ctx, ports.FetchJob{AccountID: "mgr-1"}); err != nil {
		t.Fatalf("Publish() after failed delivery = %v", err)
	}
}
