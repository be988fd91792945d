// Package adnetwork implements the Facebook and TikTok marketing-API
// clients. Both return *domain.AdNetworkError on any non-OK provider
// response so callers can clear a rejected token.
package adnetwork

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/adpulse/marketing-api/internal/core/domain"
	"github.com/adpulse/marketing-api/internal/core/ports"
)

const requestTimeout = 20 * time.Second

// FacebookClient talks to the Facebook Graph API.
type FacebookClient struct {
	baseURL   string
	appID     string
	appSecret string
	http      *http.Client
}

func NewFacebookClient(baseURL, appID, appSecret string) *FacebookClient {
	return &FacebookClient{
		baseURL:   baseURL,
		appID:     appID,
		appSecret: appSecret,
		http:      &http.Client{Timeout: requestTimeout},
	}
}

func (c *FacebookClient) Network() domain.AdNetwork {
	return domain.NetworkFacebook
}

// ExchangeToken trades an OAuth code for a long-lived user access token.
func (c *FacebookClient) ExchangeToken(ctx context.Context, code string) (string, error) {
	q := url.Values{}
	q.Set("client_id", c.appID)
	q.Set("client_secret", c.appSecret)
	q.Set("code", code)

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.get(ctx, "/oauth/access_token?"+q.Encode(), &out); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

func (c *FacebookClient) ListAdAccounts(ctx context.Context, token string) ([]ports.AdAccount, error) {
	var out struct {
		Data []struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			Currency string `json:"currency"`
		} `json:"data"`
	}
	path := "/me/adaccounts?fields=id,name,currency&access_token=" + url.QueryEscape(token)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	accounts := make([]ports.AdAccount, 0, len(out.Data))
	for _, a := range out.Data {
		accounts = append(accounts, ports.AdAccount{ID: a.ID, Name: a.Name, Currency: a.Currency})
	}
	return accounts, nil
}

func (c *FacebookClient) ListCampaigns(ctx context.Context, token, adAccountID string) ([]ports.Campaign, error) {
	var out struct {
		Data []struct {
			ID        string `json:"id"`
			Name      string `json:"name"`
			Status    string `json:"status"`
			Objective string `json:"objective"`
		} `json:"data"`
	}
	path := "/" + url.PathEscape(adAccountID) + "/campaigns?fields=id,name,status,objective&access_token=" + url.QueryEscape(token)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	campaigns := make([]ports.Campaign, 0, len(out.Data))
	for _, cp := range out.Data {
		campaigns = append(campaigns, ports.Campaign{ID: cp.ID, Name: cp.Name, Status: cp.Status, Objective: cp.Objective})
	}
	return campaigns, nil
}

func (c *FacebookClient) ListPixels(ctx context.Context, token, adAccountID string) ([]ports.Pixel, error) {
	var out struct {
		Data []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"data"`
	}
	path := "/" + url.PathEscape(adAccountID) + "/adspixels?fields=id,name&access_token=" + url.QueryEscape(token)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	pixels := make([]ports.Pixel, 0, len(out.Data))
	for _, p := range out.Data {
		pixels = append(pixels, ports.Pixel{ID: p.ID, Name: p.Name})
	}
	return pixels, nil
}

func (c *FacebookClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("facebook request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &domain.AdNetworkError{
			Network:    domain.NetworkFacebook,
			StatusCode: resp.StatusCode,
			Detail:     string(detail),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode facebook response: %w", err)
	}
	return nil
}
