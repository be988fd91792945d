package domain

import (
	"errors"
	"time"
)

// Repository-level sentinel errors. They are translated to StatusErrors by
// the service layer, never surfaced to callers directly.
var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrAccountExists    = errors.New("account already exists")
	ErrBusinessNotFound = errors.New("business not found")
	ErrPromoNotFound    = errors.New("promo code not found")
	ErrPromoRedeemed    = errors.New("promo code already redeemed")
	ErrCodeNotFound     = errors.New("verification code not found")
)

// Business is a tracked client business owned by a manager account. Staff
// may operate on the businesses of the manager they work under.
type Business struct {
	ID                string    `json:"id"`
	AccountID         string    `json:"account_id"`
	Name              string    `json:"name"`
	FacebookAdAccount string    `json:"facebook_ad_account,omitempty"`
	TikTokAdAccount   string    `json:"tiktok_ad_account,omitempty"`
	FacebookPixel     string    `json:"facebook_pixel,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// PromoCode is a single-use promotional code. RedeemedBy being non-empty is
// the terminal state.
type PromoCode struct {
	Code       string    `json:"code"`
	PlanID     string    `json:"plan_id"`
	TrialDays  int       `json:"trial_days"`
	RedeemedBy string    `json:"redeemed_by,omitempty"`
	RedeemedAt time.Time `json:"redeemed_at,omitempty"`
}

// AdNetworkError is returned by ad-network clients on any non-OK provider
// response. The service layer reacts by clearing the stored token before
// reporting the failure.
type AdNetworkError struct {
	Network    AdNetwork
	StatusCode int
	Detail     string
}

func (e *AdNetworkError) Error() string {
	return string(e.Network) + " api: " + e.Detail
}
