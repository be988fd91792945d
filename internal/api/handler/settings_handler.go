package handler

import (
	"context"

	"github.com/labstack/echo/v4"
)

// PlanInfo is one purchasable plan surfaced in platform settings.
type PlanInfo struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	PriceID       string `json:"price_id"`
	BusinessLimit int    `json:"business_limit"`
	TrialDays     int    `json:"trial_days"`
}

// PlatformSettings is the static configuration the client needs before any
// authentication: the plan catalog and the ad-provider app ids.
type PlatformSettings struct {
	Plans         []PlanInfo `json:"plans"`
	FacebookAppID string     `json:"facebook_app_id"`
	TikTokAppID   string     `json:"tiktok_app_id"`
}

// SettingsHandler serves the unauthenticated platform-settings fetch.
type SettingsHandler struct {
	shell    *Shell
	settings PlatformSettings
}

func NewSettingsHandler(shell *Shell, settings PlatformSettings) *SettingsHandler {
	return &SettingsHandler{shell: shell, settings: settings}
}

// Get handles GET /settings. No identity, no entitlement.
func (h *SettingsHandler) Get(c echo.Context) error {
	return h.shell.Run(c, Op{Name: "settings.get"},
		func(ctx context.Context, inv Invocation) (*Result, error) {
			return &Result{Data: h.settings}, nil
		})
}
