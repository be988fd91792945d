package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/adpulse/marketing-api/internal/core/domain"
	"github.com/adpulse/marketing-api/internal/core/ports"
)

type stubAdClient struct {
	network domain.AdNetwork
	fail    bool
	calls   int
}

func (c *stubAdClient) Network() domain.AdNetwork { return c.network }

func (c *stubAdClient) ExchangeToken(_ context.Context, code string) (string, error) {
	c.calls++
	if c.fail {
		return "", &domain.AdNetworkError{Network: c.network, StatusCode: 400, Detail: "bad code"}
	}
	return "token-for-" + code, nil
}

func (c *stubAdClient) ListAdAccounts(_ context.Context, _ string) ([]ports.AdAccount, error) {
	c.calls++
	if c.fail {
		return nil, &domain.AdNetworkError{Network: c.network, StatusCode: 401, Detail: "expired token"}
	}
	return []ports.AdAccount{{ID: "act_1", Name: "Acme"}}, nil
}

func (c *stubAdClient) ListCampaigns(_ context.Context, _, _ string) ([]ports.Campaign, error) {
	c.calls++
	if c.fail {
		return nil, &domain.AdNetworkError{Network: c.network, StatusCode: 401, Detail: "expired token"}
	}
	return []ports.Campaign{{ID: "camp_1", Name: "Spring", Status: "ACTIVE"}}, nil
}

func (c *stubAdClient) ListPixels(_ context.Context, _, _ string) ([]ports.Pixel, error) {
	c.calls++
	if c.fail {
		return nil, &domain.AdNetworkError{Network: c.network, StatusCode: 401, Detail: "expired token"}
	}
	return []ports.Pixel{{ID: "px_1", Name: "Site"}}, nil
}

type stubPublisher struct {
	jobs []ports.FetchJob
	fail bool
}

func (p *stubPublisher) Publish(_ context.Context, job ports.FetchJob) error {
	if p.fail {
		return context.DeadlineExceeded
	}
	p.jobs = append(p.jobs, job)
	return nil
}

func TestAdNetworkService_Connect_StoresToken(t *testing.T) {
	m := managerAccount("m1", domain.SubStatusActive)
	repo := newStubAccountRepo(m)
	client := &stubAdClient{network: domain.NetworkFacebook}
	svc := NewAdNetworkService(repo, &stubPublisher{}, zerolog.Nop(), client)

	err := svc.Connect(context.Background(), managerEntitlement(m), ports.ConnectInput{
		Network: domain.NetworkFacebook,
		Code:    "authcode",
	})
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	if repo.accounts["m1"].FacebookToken != "token-for-authcode" {
		t.Fatalf("token not stored: %q", repo.accounts["m1"].FacebookToken)
	}
}

func TestAdNetworkService_List_NotConnected(t *testing.T) {
	m := managerAccount("m1", domain.SubStatusActive)
	repo := newStubAccountRepo(m)
	client := &stubAdClient{network: domain.NetworkFacebook}
	svc := NewAdNetworkService(repo, &stubPublisher{}, zerolog.Nop(), client)

	_, err := svc.ListAdAccounts(context.Background(), managerEntitlement(m), domain.NetworkFacebook)
	if code := statusCode(t, err); code != domain.CodeNetworkNotConnected {
		t.Fatalf("expected CodeNetworkNotConnected, got %d", code)
	}
	if client.calls != 0 {
		t.Fatalf("client must not be called without a token")
	}
}

// A rejected provider call clears the stored token, it does not merely
// report the failure.
func TestAdNetworkService_ProviderFailureClearsToken(t *testing.T) {
	m := managerAccount("m1", domain.SubStatusActive)
	m.FacebookToken = "stale"
	repo := newStubAccountRepo(m)
	client := &stubAdClient{network: domain.NetworkFacebook, fail: true}
	svc := NewAdNetworkService(repo, &stubPublisher{}, zerolog.Nop(), client)

	_, err := svc.ListAdAccounts(context.Background(), managerEntitlement(m), domain.NetworkFacebook)
	if code := statusCode(t, err); code != domain.CodeFacebookAPI {
		t.Fatalf("expected CodeFacebookAPI, got %d", code)
	}
	if repo.accounts["m1"].FacebookToken != "" {
		t.Fatalf("stale token was not cleared")
	}
}

func TestAdNetworkService_TikTokFailureCode(t *testing.T) {
	m := managerAccount("m1", domain.SubStatusActive)
	m.TikTokToken = "stale"
	repo := newStubAccountRepo(m)
	client := &stubAdClient{network: domain.NetworkTikTok, fail: true}
	svc := NewAdNetworkService(repo, &stubPublisher{}, zerolog.Nop(), client)

	_, err := svc.ListCampaigns(context.Background(), managerEntitlement(m), ports.ListInput{
		Network:     domain.NetworkTikTok,
		AdAccountID: "adv_1",
	})
	if code := statusCode(t, err); code != domain.CodeTikTokAPI {
		t.Fatalf("expected CodeTikTokAPI, got %d", code)
	}
	if repo.accounts["m1"].TikTokToken != "" {
		t.Fatalf("stale token was not cleared")
	}
}

func TestAdNetworkService_TriggerFetch_DispatchOnly(t *testing.T) {
	m := managerAccount("m1", domain.SubStatusActive)
	m.FacebookToken = "ok"
	repo := newStubAccountRepo(m)
	pub := &stubPublisher{}
	svc := NewAdNetworkService(repo, pub, zerolog.Nop(), &stubAdClient{network: domain.NetworkFacebook})

	err := svc.TriggerFetch(context.Background(), managerEntitlement(m), "biz_1", domain.NetworkFacebook)
	if err != nil {
		t.Fatalf("trigger failed: %v", err)
	}
	if len(pub.jobs) != 1 || pub.jobs[0].AccountID != "m1" || pub.jobs[0].BusinessID != "biz_1" {
		t.Fatalf("unexpected jobs: %+v", pub.jobs)
	}
}

func TestAdNetworkService_TriggerFetch_BusFailure(t *testing.T) {
	m := managerAccount("m1", domain.SubStatusActive)
	m.FacebookToken = "ok"
	repo := newStubAccountRepo(m)
	svc := NewAdNetworkService(repo, &stubPublisher{fail: true}, zerolog.Nop(), &stubAdClient{network: domain.NetworkFacebook})

	err := svc.TriggerFetch(context.Background(), managerEntitlement(m), "", domain.NetworkFacebook)
	if code := statusCode(t, err); code != domain.CodeEventBus {
		t.Fatalf("expected CodeEventBus, got %d", code)
	}
}
