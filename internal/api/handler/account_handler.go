package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/adpulse/marketing-api/internal/core/domain"
	"github.com/adpulse/marketing-api/internal/core/ports"
)

// AccountHandler exposes self-service account operations.
type AccountHandler struct {
	shell   *Shell
	service ports.AccountService
}

func NewAccountHandler(shell *Shell, service ports.AccountService) *AccountHandler {
	return &AccountHandler{shell: shell, service: service}
}

type updateProfileRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
}

type disconnectRequest struct {
	Network string `json:"network" validate:"required,oneof=facebook tiktok"`
}

type verifyTwoFactorRequest struct {
	Code string `json:"code" validate:"required"`
}

type redeemPromoRequest struct {
	Code string `json:"code" validate:"required"`
}

// Get handles POST /ops/account.get.
func (h *AccountHandler) Get(c echo.Context) error {
	return h.shell.Run(c, Op{Name: "account.get", Authenticated: true, Gated: true},
		func(ctx context.Context, inv Invocation) (*Result, error) {
			account, err := h.service.Get(ctx, inv.Entitlement)
			if err != nil {
				return nil, err
			}
			return &Result{Data: account}, nil
		})
}

// UpdateProfile handles POST /ops/account.updateProfile.
func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	return h.shell.Run(c, Op{Name: "account.updateProfile", Authenticated: true, Gated: true},
		func(ctx context.Context, inv Invocation) (*Result, error) {
			var req updateProfileRequest
			if err := h.shell.Bind(c, &req); err != nil {
				return nil, err
			}
			account, err := h.service.UpdateProfile(ctx, inv.Entitlement, ports.ProfileUpdate{
				FirstName: req.FirstName,
				LastName:  req.LastName,
				Email:     req.Email,
			})
			if err != nil {
				return nil, err
			}
			return &Result{Data: account, Message: "profile updated"}, nil
		})
}

// Disconnect handles POST /ops/account.disconnect. It clears the stored
// ad-network token on the entitled account.
func (h *AccountHandler) Disconnect(c echo.Context) error {
	return h.shell.Run(c, Op{Name: "account.disconnect", Authenticated: true, Gated: true},
		func(ctx context.Context, inv Invocation) (*Result, error) {
			var req disconnectRequest
			if err := h.shell.Bind(c, &req); err != nil {
				return nil, err
			}
			account, err := h.service.Disconnect(ctx, inv.Entitlement, domain.AdNetwork(req.Network))
			if err != nil {
				return nil, err
			}
			return &Result{Data: account, Message: "account disconnected"}, nil
		})
}

// SetupTwoFactor handles POST /ops/account.setupTwoFactor. Not gated:
// two-factor setup must work regardless of subscription standing.
func (h *AccountHandler) SetupTwoFactor(c echo.Context) error {
	return h.shell.Run(c, Op{Name: "account.setupTwoFactor", Authenticated: true},
		func(ctx context.Context, inv Invocation) (*Result, error) {
			setup, err := h.service.SetupTwoFactor(ctx, inv.Caller)
			if err != nil {
				return nil, err
			}
			return &Result{
				Data: map[string]string{
					"code":          setup.Code,
					"recovery_code": setup.RecoveryCode,
				},
				Message: "store your recovery code somewhere safe",
			}, nil
		})
}

// VerifyTwoFactor handles POST /ops/account.verifyTwoFactor.
func (h *AccountHandler) VerifyTwoFactor(c echo.Context) error {
	return h.shell.Run(c, Op{Name: "account.verifyTwoFactor", Authenticated: true},
		func(ctx context.Context, inv Invocation) (*Result, error) {
			var req verifyTwoFactorRequest
			if err := h.shell.Bind(c, &req); err != nil {
				return nil, err
			}
			if err := h.service.VerifyTwoFactor(ctx, inv.Caller, req.Code); err != nil {
				return nil, err
			}
			return &Result{Message: "verification successful"}, nil
		})
}

// RedeemPromo handles POST /ops/account.redeemPromo.
func (h *AccountHandler) RedeemPromo(c echo.Context) error {
	return h.shell.Run(c, Op{Name: "account.redeemPromo", Authenticated: true, Gated: true},
		func(ctx context.Context, inv Invocation) (*Result, error) {
			var req redeemPromoRequest
			if err := h.shell.Bind(c, &req); err != nil {
				return nil, err
			}
			promo, err := h.service.RedeemPromo(ctx, inv.Entitlement, req.Code)
			if err != nil {
				return nil, err
			}
			return &Result{Data: promo, Message: "promotional code applied"}, nil
		})
}
