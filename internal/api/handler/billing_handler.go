package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/adpulse/marketing-api/internal/core/ports"
)

// BillingHandler exposes subscription read/change. Billing operations are
// authenticated but not gated — a canceled customer must still reach them.
type BillingHandler struct {
	shell   *Shell
	service ports.BillingService
}

func NewBillingHandler(shell *Shell, service ports.BillingService) *BillingHandler {
	return &BillingHandler{shell: shell, service: service}
}

type changePlanRequest struct {
	PriceID string `json:"price_id" validate:"required"`
}

// GetSubscription handles POST /ops/billing.getSubscription.
func (h *BillingHandler) GetSubscription(c echo.Context) error {
	return h.shell.Run(c, Op{Name: "billing.getSubscription", Authenticated: true},
		func(ctx context.Context, inv Invocation) (*Result, error) {
			sub, err := h.service.GetSubscription(ctx, inv.Caller)
			if err != nil {
				return nil, err
			}
			return &Result{Data: sub}, nil
		})
}

// ChangePlan handles POST /ops/billing.changePlan.
func (h *BillingHandler) ChangePlan(c echo.Context) error {
	return h.shell.Run(c, Op{Name: "billing.changePlan", Authenticated: true},
		func(ctx context.Context, inv Invocation) (*Result, error) {
			var req changePlanRequest
			if err := h.shell.Bind(c, &req); err != nil {
				return nil, err
			}
			sub, err := h.service.ChangePlan(ctx, inv.Caller, req.PriceID)
			if err != nil {
				return nil, err
			}
			return &Result{Data: sub, Message: "plan updated"}, nil
		})
}
