package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/adpulse/marketing-api/internal/core/domain"
	"github.com/adpulse/marketing-api/internal/core/ports"
)

// AdNetworkHandler exposes the connected ad-provider operations.
type AdNetworkHandler struct {
	shell   *Shell
	service ports.AdNetworkService
}

func NewAdNetworkHandler(shell *Shell, service ports.AdNetworkService) *AdNetworkHandler {
	return &AdNetworkHandler{shell: shell, service: service}
}

type connectRequest struct {
	Network string `json:"network" validate:"required,oneof=facebook tiktok"`
	Code    string `json:"code" validate:"required"`
}

type listAdAccountsRequest struct {
	Network string `json:"network" validate:"required,oneof=facebook tiktok"`
}

type listRequest struct {
	Network     string `json:"network" validate:"required,oneof=facebook tiktok"`
	AdAccountID string `json:"ad_account_id" validate:"required"`
}

type triggerFetchRequest struct {
	Network    string `json:"network" validate:"required,oneof=facebook tiktok"`
	BusinessID string `json:"business_id,omitempty"`
}

// Connect handles POST /ops/adnetwork.connect — exchanges the provider's
// authorization code for a long-lived token and stores it.
func (h *AdNetworkHandler) Connect(c echo.Context) error {
	return h.shell.Run(c, Op{Name: "adnetwork.connect", Authenticated: true, Gated: true},
		func(ctx context.Context, inv Invocation) (*Result, error) {
			var req connectRequest
			if err := h.shell.Bind(c, &req); err != nil {
				return nil, err
			}
			if err := h.service.Connect(ctx, inv.Entitlement, ports.ConnectInput{
				Network: domain.AdNetwork(req.Network),
				Code:    req.Code,
			}); err != nil {
				return nil, err
			}
			return &Result{Message: "account connected"}, nil
		})
}

// ListAdAccounts handles POST /ops/adnetwork.listAdAccounts.
func (h *AdNetworkHandler) ListAdAccounts(c echo.Context) error {
	return h.shell.Run(c, Op{Name: "adnetwork.listAdAccounts", Authenticated: true, Gated: true},
		func(ctx context.Context, inv Invocation) (*Result, error) {
			var req listAdAccountsRequest
			if err := h.shell.Bind(c, &req); err != nil {
				return nil, err
			}
			accounts, err := h.service.ListAdAccounts(ctx, inv.Entitlement, domain.AdNetwork(req.Network))
			if err != nil {
				return nil, err
			}
			return &Result{Data: accounts}, nil
		})
}

// ListCampaigns handles POST /ops/adnetwork.listCampaigns.
func (h *AdNetworkHandler) ListCampaigns(c echo.Context) error {
	return h.shell.Run(c, Op{Name: "adnetwork.listCampaigns", Authenticated: true, Gated: true},
		func(ctx context.Context, inv Invocation) (*Result, error) {
			var req listRequest
			if err := h.shell.Bind(c, &req); err != nil {
				return nil, err
			}
			campaigns, err := h.service.ListCampaigns(ctx, inv.Entitlement, ports.ListInput{
				Network:     domain.AdNetwork(req.Network),
				AdAccountID: req.AdAccountID,
			})
			if err != nil {
				return nil, err
			}
			return &Result{Data: campaigns}, nil
		})
}

// ListPixels handles POST /ops/adnetwork.listPixels.
func (h *AdNetworkHandler) ListPixels(c echo.Context) error {
	return h.shell.Run(c, Op{Name: "adnetwork.listPixels", Authenticated: true, Gated: true},
		func(ctx context.Context, inv Invocation) (*Result, error) {
			var req listRequest
			if err := h.shell.Bind(c, &req); err != nil {
				return nil, err
			}
			pixels, err := h.service.ListPixels(ctx, inv.Entitlement, ports.ListInput{
				Network:     domain.AdNetwork(req.Network),
				AdAccountID: req.AdAccountID,
			})
			if err != nil {
				return nil, err
			}
			return &Result{Data: pixels}, nil
		})
}

// TriggerFetch handles POST /ops/adnetwork.triggerFetch. Success means the
// refresh job was dispatched, not that it completed.
func (h *AdNetworkHandler) TriggerFetch(c echo.Context) error {
	return h.shell.Run(c, Op{Name: "adnetwork.triggerFetch", Authenticated: true, Gated: true},
		func(ctx context.Context, inv Invocation) (*Result, error) {
			var req triggerFetchRequest
			if err := h.shell.Bind(c, &req); err != nil {
				return nil, err
			}
			if err := h.service.TriggerFetch(ctx, inv.Entitlement, req.BusinessID, domain.AdNetwork(req.Network)); err != nil {
				return nil, err
			}
			return &Result{Message: "data refresh started"}, nil
		})
}
