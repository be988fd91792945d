package ports

import (
	"context"

	"github.com/adpulse/marketing-api/internal/core/domain"
)

// EntitlementService is the authorization gate. Every gated operation calls
// Resolve before doing anything else.
type EntitlementService interface {
	Resolve(ctx context.Context, caller domain.CallerIdentity) (*domain.Entitlement, error)
}

// TwoFactorSetupResult is returned when two-factor is (re)initialised. The
// recovery code is shown to the user exactly once; only its hash persists.
type TwoFactorSetupResult struct {
	Code         string
	RecoveryCode string
}

// AccountService covers self-service account operations.
type AccountService interface {
	Get(ctx context.Context, ent *domain.Entitlement) (*domain.Account, error)
	UpdateProfile(ctx context.Context, ent *domain.Entitlement, update ProfileUpdate) (*domain.Account, error)
	// Disconnect clears the stored ad-network token on the entitled account
	// and returns the updated record.
	Disconnect(ctx context.Context, ent *domain.Entitlement, network domain.AdNetwork) (*domain.Account, error)
	SetupTwoFactor(ctx context.Context, caller domain.CallerIdentity) (*TwoFactorSetupResult, error)
	VerifyTwoFactor(ctx context.Context, caller domain.CallerIdentity, code string) error
	RedeemPromo(ctx context.Context, ent *domain.Entitlement, code string) (*domain.PromoCode, error)
}

// BillingService reads and changes the subscription on the payment
// platform, keeping the account document's mirror in sync.
type BillingService interface {
	GetSubscription(ctx context.Context, caller domain.CallerIdentity) (*domain.Subscription, error)
	ChangePlan(ctx context.Context, caller domain.CallerIdentity, priceID string) (*domain.Subscription, error)
}

// ConnectInput carries an ad-network authorization code to exchange.
type ConnectInput struct {
	Network domain.AdNetwork
	Code    string
}

// ListInput names the network and, for campaign/pixel listings, the ad
// account to enumerate.
type ListInput struct {
	Network     domain.AdNetwork
	AdAccountID string
}

// AdNetworkService covers connected ad-provider operations. Any provider
// failure clears the stored token before the error is reported.
type AdNetworkService interface {
	Connect(ctx context.Context, ent *domain.Entitlement, input ConnectInput) error
	ListAdAccounts(ctx context.Context, ent *domain.Entitlement, network domain.AdNetwork) ([]AdAccount, error)
	ListCampaigns(ctx context.Context, ent *domain.Entitlement, input ListInput) ([]Campaign, error)
	ListPixels(ctx context.Context, ent *domain.Entitlement, input ListInput) ([]Pixel, error)
	// TriggerFetch dispatches a long-running data refresh; it succeeds once
	// the dispatch is acknowledged, not when processing completes.
	TriggerFetch(ctx context.Context, ent *domain.Entitlement, businessID string, network domain.AdNetwork) error
}

// InviteStaffInput carries a staff invitation.
type InviteStaffInput struct {
	Email     string
	FirstName string
	LastName  string
}

// StaffPage is one page of staff accounts with pagination metadata.
type StaffPage struct {
	Items     []domain.Account
	Total     int64
	PageCount int
}

// StaffService covers manager-only staff administration.
type StaffService interface {
	Invite(ctx context.Context, ent *domain.Entitlement, input InviteStaffInput) (*domain.Account, error)
	List(ctx context.Context, ent *domain.Entitlement, page, limit int) (*StaffPage, error)
	Remove(ctx context.Context, ent *domain.Entitlement, staffID string) error
}

// BusinessPage is one page of businesses with pagination metadata.
type BusinessPage struct {
	Items     []domain.Business
	Total     int64
	PageCount int
}

// CreateBusinessInput carries a new tracked business.
type CreateBusinessInput struct {
	Name string
}

// BusinessService covers tracked-business CRUD. Ownership is always the
// entitled (manager) account, so staff operate on their manager's records.
type BusinessService interface {
	Get(ctx context.Context, ent *domain.Entitlement, businessID string) (*domain.Business, error)
	Create(ctx context.Context, ent *domain.Entitlement, input CreateBusinessInput) (*domain.Business, error)
	Update(ctx context.Context, ent *domain.Entitlement, businessID string, update BusinessUpdate) (*domain.Business, error)
	List(ctx context.Context, ent *domain.Entitlement, page, limit int) (*BusinessPage, error)
}
