// Package billing talks to the payment platform's subscription API. The
// platform returns the subscription itself as an opaque base64-encoded
// body; this package is the only place that knows how to open it.
package billing

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/adpulse/marketing-api/internal/core/domain"
)

const requestTimeout = 15 * time.Second

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// subscriptionEnvelope is the provider's outer response; Payload is the
// base64-encoded subscription body.
type subscriptionEnvelope struct {
	Payload string `json:"payload"`
}

// subscriptionBody is the decoded wire shape of one subscription.
type subscriptionBody struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	CurrentPeriodEnd int64  `json:"current_period_end"`
	TrialEnd         int64  `json:"trial_end"`
	Plan             struct {
		ID string `json:"id"`
	} `json:"plan"`
	Items []struct {
		PriceID string `json:"price_id"`
	} `json:"items"`
}

func (c *Client) GetSubscription(ctx context.Context, subscriptionID string) (*domain.Subscription, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v1/subscriptions/"+subscriptionID, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	return c.do(req)
}

func (c *Client) UpdatePlan(ctx context.Context, subscriptionID, priceID string) (*domain.Subscription, error) {
	body, err := json.Marshal(map[string]string{"price_id": priceID})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/subscriptions/"+subscriptionID, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*domain.Subscription, error) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment platform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("payment platform responded %d: %s", resp.StatusCode, detail)
	}

	var env subscriptionEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return decodePayload(env.Payload)
}

// decodePayload opens the provider-opaque body and extracts the fields the
// account mirror cares about.
func decodePayload(payload string) (*domain.Subscription, error) {
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode subscription payload: %w", err)
	}
	var body subscriptionBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("unmarshal subscription payload: %w", err)
	}

	sub := &domain.Subscription{
		ID:     body.ID,
		Status: body.Status,
		PlanID: body.Plan.ID,
	}
	if len(body.Items) > 0 {
		sub.PriceID = body.Items[0].PriceID
	}
	if body.CurrentPeriodEnd > 0 {
		sub.CurrentPeriodEnd = time.Unix(body.CurrentPeriodEnd, 0).UTC()
	}
	if body.TrialEnd > 0 {
		sub.TrialEnd = time.Unix(body.TrialEnd, 0).UTC()
	}
	return sub, nil
}
