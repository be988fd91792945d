package domain

import "time"

const (
	RoleManager = "manager"
	RoleStaff   = "staff"
)

// Subscription statuses as reported by the payment platform.
const (
	SubStatusActive     = "active"
	SubStatusTrialing   = "trialing"
	SubStatusPastDue    = "past_due"
	SubStatusCanceled   = "canceled"
	SubStatusIncomplete = "incomplete"
	SubStatusUnpaid     = "unpaid"
)

// Account statuses. Accounts are never hard-deleted; removal is a status
// transition.
const (
	AccountStatusActive      = "active"
	AccountStatusDeactivated = "deactivated"
)

// AdNetwork identifies a connected third-party ad provider.
type AdNetwork string

const (
	NetworkFacebook AdNetwork = "facebook"
	NetworkTikTok   AdNetwork = "tiktok"
)

// Subscription is the billing state mirrored from the payment platform onto
// the account document. ID is the platform's subscription identifier; an
// empty ID means no subscription is on file.
type Subscription struct {
	ID               string    `json:"id,omitempty"`
	Status           string    `json:"status,omitempty"`
	PlanID           string    `json:"plan_id,omitempty"`
	PriceID          string    `json:"price_id,omitempty"`
	CurrentPeriodEnd time.Time `json:"current_period_end,omitempty"`
	TrialEnd         time.Time `json:"trial_end,omitempty"`
}

// Account is the persisted record for one authenticated principal. The ID is
// the identity provider's subject id. ManagerID is set only for staff
// accounts, whose entitlement is inherited from the referenced manager.
type Account struct {
	ID            string       `json:"id"`
	Email         string       `json:"email"`
	FirstName     string       `json:"first_name,omitempty"`
	LastName      string       `json:"last_name,omitempty"`
	Role          string       `json:"role"`
	Status        string       `json:"status"`
	ManagerID     string       `json:"manager_id,omitempty"`
	Subscription  Subscription `json:"subscription"`
	FacebookToken string       `json:"-"`
	TikTokToken   string       `json:"-"`
	RecoveryHash  string       `json:"-"`
	BusinessLimit int          `json:"business_limit,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// IsManager reports whether the account is a manager (entitlement-bearing)
// account.
func (a *Account) IsManager() bool {
	return a.Role == RoleManager
}

// AdToken returns the stored bearer token for the given network, or empty
// when the network has never been connected or was disconnected.
func (a *Account) AdToken(network AdNetwork) string {
	switch network {
	case NetworkFacebook:
		return a.FacebookToken
	case NetworkTikTok:
		return a.TikTokToken
	}
	return ""
}
