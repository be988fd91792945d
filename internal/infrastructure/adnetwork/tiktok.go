package adnetwork

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/adpulse/marketing-api/internal/core/domain"
	"github.com/adpulse/marketing-api/internal/core/ports"
)

// TikTokClient talks to the TikTok Business API. Unlike Facebook, TikTok
// wraps every response in a {code, message, data} envelope and signals
// failure with a non-zero code even on HTTP 200.
type TikTokClient struct {
	baseURL   string
	appID     string
	appSecret string
	http      *http.Client
}

func NewTikTokClient(baseURL, appID, appSecret string) *TikTokClient {
	return &TikTokClient{
		baseURL:   baseURL,
		appID:     appID,
		appSecret: appSecret,
		http:      &http.Client{Timeout: requestTimeout},
	}
}

func (c *TikTokClient) Network() domain.AdNetwork {
	return domain.NetworkTikTok
}

type tiktokEnvelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *TikTokClient) ExchangeToken(ctx context.Context, code string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"app_id":    c.appID,
		"secret":    c.appSecret,
		"auth_code": code,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.call(ctx, http.MethodPost, "/oauth2/access_token/", "", bytes.NewReader(payload), &out); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

func (c *TikTokClient) ListAdAccounts(ctx context.Context, token string) ([]ports.AdAccount, error) {
	var out struct {
		List []struct {
			AdvertiserID   string `json:"advertiser_id"`
			AdvertiserName string `json:"advertiser_name"`
			Currency       string `json:"currency"`
		} `json:"list"`
	}
	if err := c.call(ctx, http.MethodGet, "/advertiser/get/", token, nil, &out); err != nil {
		return nil, err
	}
	accounts := make([]ports.AdAccount, 0, len(out.List))
	for _, a := range out.List {
		accounts = append(accounts, ports.AdAccount{ID: a.AdvertiserID, Name: a.AdvertiserName, Currency: a.Currency})
	}
	return accounts, nil
}

func (c *TikTokClient) ListCampaigns(ctx context.Context, token, adAccountID string) ([]ports.Campaign, error) {
	var out struct {
		List []struct {
			CampaignID     string `json:"campaign_id"`
			CampaignName   string `json:"campaign_name"`
			OperationState string `json:"operation_status"`
			Objective      string `json:"objective_type"`
		} `json:"list"`
	}
	path := "/campaign/get/?advertiser_id=" + url.QueryEscape(adAccountID)
	if err := c.call(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	campaigns := make([]ports.Campaign, 0, len(out.List))
	for _, cp := range out.List {
		campaigns = append(campaigns, ports.Campaign{ID: cp.CampaignID, Name: cp.CampaignName, Status: cp.OperationState, Objective: cp.Objective})
	}
	return campaigns, nil
}

func (c *TikTokClient) ListPixels(ctx context.Context, token, adAccountID string) ([]ports.Pixel, error) {
	var out struct {
		Pixels []struct {
			PixelID   string `json:"pixel_id"`
			PixelName string `json:"pixel_name"`
		} `json:"pixels"`
	}
	path := "/pixel/list/?advertiser_id=" + url.QueryEscape(adAccountID)
	if err := c.call(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	pixels := make([]ports.Pixel, 0, len(out.Pixels))
	for _, p := range out.Pixels {
		pixels = append(pixels, ports.Pixel{ID: p.PixelID, Name: p.PixelName})
	}
	return pixels, nil
}

func (c *TikTokClient) call(ctx context.Context, method, path, token string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Access-Token", token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("tiktok request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &domain.AdNetworkError{
			Network:    domain.NetworkTikTok,
			StatusCode: resp.StatusCode,
			Detail:     string(detail),
		}
	}

	var env tiktokEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode tiktok response: %w", err)
	}
	if env.Code != 0 {
		return &domain.AdNetworkError{
			Network:    domain.NetworkTikTok,
			StatusCode: resp.StatusCode,
			Detail:     fmt.Sprintf("code %d: %s", env.Code, env.Message),
		}
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode tiktok data: %w", err)
		}
	}
	return nil
}
