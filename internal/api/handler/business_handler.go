package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/adpulse/marketing-api/internal/core/ports"
)

// BusinessHandler exposes tracked-business operations.
type BusinessHandler struct {
	shell   *Shell
	service ports.BusinessService
}

func NewBusinessHandler(shell *Shell, service ports.BusinessService) *BusinessHandler {
	return &BusinessHandler{shell: shell, service: service}
}

type getBusinessRequest struct {
	BusinessID string `json:"business_id" validate:"required"`
}

type createBusinessRequest struct {
	Name string `json:"name" validate:"required"`
}

type updateBusinessRequest struct {
	BusinessID        string  `json:"business_id" validate:"required"`
	Name              *string `json:"name,omitempty"`
	FacebookAdAccount *string `json:"facebook_ad_account,omitempty"`
	TikTokAdAccount   *string `json:"tiktok_ad_account,omitempty"`
	FacebookPixel     *string `json:"facebook_pixel,omitempty"`
}

type listBusinessRequest struct {
	Page  int `json:"page,omitempty"`
	Limit int `json:"limit,omitempty"`
}

// Get handles POST /ops/business.get.
func (h *BusinessHandler) Get(c echo.Context) error {
	return h.shell.Run(c, Op{Name: "business.get", Authenticated: true, Gated: true},
		func(ctx context.Context, inv Invocation) (*Result, error) {
			var req getBusinessRequest
			if err := h.shell.Bind(c, &req); err != nil {
				return nil, err
			}
			business, err := h.service.Get(ctx, inv.Entitlement, req.BusinessID)
			if err != nil {
				return nil, err
			}
			return &Result{Data: business}, nil
		})
}

// Create handles POST /ops/business.create.
func (h *BusinessHandler) Create(c echo.Context) error {
	return h.shell.Run(c, Op{Name: "business.create", Authenticated: true, Gated: true},
		func(ctx context.Context, inv Invocation) (*Result, error) {
			var req createBusinessRequest
			if err := h.shell.Bind(c, &req); err != nil {
				return nil, err
			}
			business, err := h.service.Create(ctx, inv.Entitlement, ports.CreateBusinessInput{Name: req.Name})
			if err != nil {
				return nil, err
			}
			return &Result{Data: business, Message: "business created"}, nil
		})
}

// Update handles POST /ops/business.update.
func (h *BusinessHandler) Update(c echo.Context) error {
	return h.shell.Run(c, Op{Name: "business.update", Authenticated: true, Gated: true},
		func(ctx context.Context, inv Invocation) (*Result, error) {
			var req updateBusinessRequest
			if err := h.shell.Bind(c, &req); err != nil {
				return nil, err
			}
			business, err := h.service.Update(ctx, inv.Entitlement, req.BusinessID, ports.BusinessUpdate{
				Name:              req.Name,
				FacebookAdAccount: req.FacebookAdAccount,
				TikTokAdAccount:   req.TikTokAdAccount,
				FacebookPixel:     req.FacebookPixel,
			})
			if err != nil {
				return nil, err
			}
			return &Result{Data: business, Message: "business updated"}, nil
		})
}

// List handles POST /ops/business.list.
func (h *BusinessHandler) List(c echo.Context) error {
	return h.shell.Run(c, Op{Name: "business.list", Authenticated: true, Gated: true},
		func(ctx context.Context, inv Invocation) (*Result, error) {
			var req listBusinessRequest
			if err := h.shell.Bind(c, &req); err != nil {
				return nil, err
			}
			page, err := h.service.List(ctx, inv.Entitlement, req.Page, req.Limit)
			if err != nil {
				return nil, err
			}
			return &Result{Data: page.Items, PageCount: &page.PageCount}, nil
		})
}
