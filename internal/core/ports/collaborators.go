package ports

import (
	"context"
	"time"

	"github.com/adpulse/marketing-api/internal/core/domain"
)

// SubscriptionClient reads and updates subscriptions on the payment
// platform. Implementations decode the provider's opaque subscription body
// into the domain shape; callers never see the wire encoding.
type SubscriptionClient interface {
	GetSubscription(ctx context.Context, subscriptionID string) (*domain.Subscription, error)
	UpdatePlan(ctx context.Context, subscriptionID, priceID string) (*domain.Subscription, error)
}

// AdAccount is one advertising account visible to a connected token.
type AdAccount struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Currency string `json:"currency,omitempty"`
}

// Campaign is one ad campaign under an ad account.
type Campaign struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	Objective string `json:"objective,omitempty"`
}

// Pixel is one tracking pixel under an ad account.
type Pixel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AdNetworkClient talks to one third-party ad provider's REST API. Every
// method returns *domain.AdNetworkError on a non-OK provider response so
// the service layer can clear the stored token.
type AdNetworkClient interface {
	Network() domain.AdNetwork
	// ExchangeToken trades a short-lived authorization code for a
	// long-lived bearer token.
	ExchangeToken(ctx context.Context, code string) (string, error)
	ListAdAccounts(ctx context.Context, token string) ([]AdAccount, error)
	ListCampaigns(ctx context.Context, token, adAccountID string) ([]Campaign, error)
	ListPixels(ctx context.Context, token, adAccountID string) ([]Pixel, error)
}

// IdentityProvider is the managed identity service's admin API. The core
// invokes account lifecycle operations but does not orchestrate them.
type IdentityProvider interface {
	// Register creates a principal and returns its subject id.
	Register(ctx context.Context, email, temporaryPassword string) (string, error)
	AddToGroup(ctx context.Context, subjectID, group string) error
	SetPassword(ctx context.Context, subjectID, password string) error
	StartPasswordReset(ctx context.Context, email string) error
	DeleteAccount(ctx context.Context, subjectID string) error
}

// Mailer sends a templated transactional email. The call is awaited for the
// submission itself, not for delivery.
type Mailer interface {
	Send(ctx context.Context, template, to string, data map[string]string) error
}

// FetchJob asks the long-running ad-data pipeline to refresh one account's
// ad performance data.
type FetchJob struct {
	AccountID  string           `json:"account_id"`
	BusinessID string           `json:"business_id,omitempty"`
	Network    domain.AdNetwork `json:"network"`
	Requested  time.Time        `json:"requested"`
}

// Publisher dispatches jobs to the event bus. Publish returns once the
// dispatch is acknowledged; it never waits for downstream processing.
type Publisher interface {
	Publish(ctx context.Context, job FetchJob) error
}

// TwoFactorStore holds short-lived one-time verification codes.
type TwoFactorStore interface {
	Put(ctx context.Context, subjectID, code string, ttl time.Duration) error
	// Consume returns the stored code and removes it in one step, or
	// domain.ErrCodeNotFound when no code is pending.
	Consume(ctx context.Context, subjectID string) (string, error)
}
