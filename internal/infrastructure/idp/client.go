// Package idp is the managed identity provider's admin-API client. The
// core invokes account lifecycle operations here but never orchestrates
// the provider's internal flows.
package idp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
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

// Register creates a principal with a temporary password and returns the
// provider's subject id.
func (c *Client) Register(ctx context.Context, email, temporaryPassword string) (string, error) {
	var out struct {
		SubjectID string `json:"subject_id"`
	}
	err := c.post(ctx, "/admin/users", map[string]string{
		"email":              email,
		"temporary_password": temporaryPassword,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.SubjectID, nil
}

func (c *Client) AddToGroup(ctx context.Context, subjectID, group string) error {
	return c.post(ctx, "/admin/users/"+subjectID+"/groups", map[string]string{
		"group": group,
	}, nil)
}

func (c *Client) SetPassword(ctx context.Context, subjectID, password string) error {
	return c.post(ctx, "/admin/users/"+subjectID+"/password", map[string]string{
		"password": password,
	}, nil)
}

func (c *Client) StartPasswordReset(ctx context.Context, email string) error {
	return c.post(ctx, "/admin/password-resets", map[string]string{
		"email": email,
	}, nil)
}

func (c *Client) DeleteAccount(ctx context.Context, subjectID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/admin/users/"+subjectID, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, nil)
}

func (c *Client) post(ctx context.Context, path string, payload map[string]string, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("identity provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("identity provider responded %d: %s", resp.StatusCode, detail)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
