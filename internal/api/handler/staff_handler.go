package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/adpulse/marketing-api/internal/core/ports"
)

// StaffHandler exposes manager-only staff administration.
type StaffHandler struct {
	shell   *Shell
	service ports.StaffService
}

func NewStaffHandler(shell *Shell, service ports.StaffService) *StaffHandler {
	return &StaffHandler{shell: shell, service: service}
}

type inviteStaffRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type listStaffRequest struct {
	Page  int `json:"page,omitempty"`
	Limit int `json:"limit,omitempty"`
}

type removeStaffRequest struct {
	StaffID string `json:"staff_id" validate:"required"`
}

// Invite handles POST /ops/staff.invite.
func (h *StaffHandler) Invite(c echo.Context) error {
	return h.shell.Run(c, Op{Name: "staff.invite", Authenticated: true, Gated: true},
		func(ctx context.Context, inv Invocation) (*Result, error) {
			var req inviteStaffRequest
			if err := h.shell.Bind(c, &req); err != nil {
				return nil, err
			}
			staff, err := h.service.Invite(ctx, inv.Entitlement, ports.InviteStaffInput{
				Email:     req.Email,
				FirstName: req.FirstName,
				LastName:  req.LastName,
			})
			if err != nil {
				return nil, err
			}
			return &Result{Data: staff, Message: "invitation sent"}, nil
		})
}

// List handles POST /ops/staff.list.
func (h *StaffHandler) List(c echo.Context) error {
	return h.shell.Run(c, Op{Name: "staff.list", Authenticated: true, Gated: true},
		func(ctx context.Context, inv Invocation) (*Result, error) {
			var req listStaffRequest
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

// Remove handles POST /ops/staff.remove.
func (h *StaffHandler) Remove(c echo.Context) error {
	return h.shell.Run(c, Op{Name: "staff.remove", Authenticated: true, Gated: true},
		func(ctx context.Context, inv Invocation) (*Result, error) {
			var req removeStaffRequest
			if err := h.shell.Bind(c, &req); err != nil {
				return nil, err
			}
			if err := h.service.Remove(ctx, inv.Entitlement, req.StaffID); err != nil {
				return nil, err
			}
			return &Result{Message: "staff member removed"}, nil
		})
}
