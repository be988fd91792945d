package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/adpulse/marketing-api/internal/core/domain"
	"github.com/adpulse/marketing-api/internal/core/ports"
)

const (
	staffInviteTemplate = "staff_invite"
	defaultPageLimit    = 20
)

// StaffService implements manager-only staff administration: inviting a
// delegate provisions the principal at the identity provider, creates the
// staff account document, and emails the invitation.
type StaffService struct {
	accounts ports.AccountRepository
	idp      ports.IdentityProvider
	mailer   ports.Mailer
	log      zerolog.Logger
}

func NewStaffService(accounts ports.AccountRepository, idp ports.IdentityProvider, mailer ports.Mailer, log zerolog.Logger) *StaffService {
	return &StaffService{accounts: accounts, idp: idp, mailer: mailer, log: log}
}

func (s *StaffService) Invite(ctx context.Context, ent *domain.Entitlement, input ports.InviteStaffInput) (*domain.Account, error) {
	if ent.IsStaff() {
		return nil, domain.Status(domain.CodeNotAuthorized)
	}
	if input.Email == "" {
		return nil, domain.Status(domain.CodeMissingRequiredField)
	}

	tempPassword, err := randomDigits(12)
	if err != nil {
		return nil, fmt.Errorf("generate temporary password: %w", err)
	}

	subjectID, err := s.idp.Register(ctx, input.Email, tempPassword)
	if err != nil {
		return nil, domain.Status(domain.CodeIdentityProvider)
	}
	if err := s.idp.AddToGroup(ctx, subjectID, domain.GroupStaff); err != nil {
		return nil, domain.Status(domain.CodeIdentityProvider)
	}

	now := time.Now().UTC()
	staff := &domain.Account{
		ID:        subjectID,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Role:      domain.RoleStaff,
		Status:    domain.AccountStatusActive,
		ManagerID: ent.Account.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.accounts.Create(ctx, staff); err != nil {
		return nil, fmt.Errorf("create staff account: %w", err)
	}

	// The send is awaited for the submission only; delivery is the email
	// provider's problem.
	if err := s.mailer.Send(ctx, staffInviteTemplate, input.Email, map[string]string{
		"manager_name":  ent.Account.FirstName,
		"temp_password": tempPassword,
	}); err != nil {
		return nil, domain.Status(domain.CodeEmailDelivery)
	}

	return staff, nil
}

func (s *StaffService) List(ctx context.Context, ent *domain.Entitlement, page, limit int) (*ports.StaffPage, error) {
	if ent.IsStaff() {
		return nil, domain.Status(domain.CodeNotAuthorized)
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	items, total, err := s.accounts.ListStaff(ctx, ent.Account.ID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	return &ports.StaffPage{Items: items, Total: total, PageCount: pageCount(total, limit)}, nil
}

// Remove deactivates a staff account and deletes its identity-provider
// principal. The document is kept; removal is a status transition.
func (s *StaffService) Remove(ctx context.Context, ent *domain.Entitlement, staffID string) error {
	if ent.IsStaff() {
		return domain.Status(domain.CodeNotAuthorized)
	}
	if staffID == "" {
		return domain.Status(domain.CodeMissingRequiredField)
	}

	staff, err := s.accounts.FindByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return domain.Status(domain.CodeStaffNotFound)
		}
		return err
	}
	if staff.Role != domain.RoleStaff || staff.ManagerID != ent.Account.ID {
		return domain.Status(domain.CodeStaffNotFound)
	}

	if err := s.idp.DeleteAccount(ctx, staffID); err != nil {
		return domain.Status(domain.CodeIdentityProvider)
	}
	if err := s.accounts.SetStatus(ctx, staffID, domain.AccountStatusDeactivated); err != nil {
		return fmt.Errorf("deactivate staff: %w", err)
	}
	return nil
}

func pageCount(total int64, limit int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
