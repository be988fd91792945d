package service

import (
	"context"
	"errors"

	"github.com/adpulse/marketing-api/internal/core/domain"
	"github.com/adpulse/marketing-api/internal/core/ports"
)

// Subscription statuses that grant access. Manager self-service tolerates a
// trial; staff delegated access requires the manager's subscription to be
// fully active. The two sets must stay distinct.
var (
	managerAllowedStatuses = map[string]struct{}{
		domain.SubStatusActive:   {},
		domain.SubStatusTrialing: {},
	}
	staffAllowedStatuses = map[string]struct{}{
		domain.SubStatusActive: {},
	}
)

// EntitlementService resolves a caller identity to the account whose
// subscription gates access. It performs one or two point reads and never
// writes.
type EntitlementService struct {
	accounts ports.AccountRepository
}

func NewEntitlementService(accounts ports.AccountRepository) *EntitlementService {
	return &EntitlementService{accounts: accounts}
}

// Resolve looks up the caller's account and validates the relevant
// subscription. Managers validate their own record; staff validate the
// manager named by their manager_id claim.
func (s *EntitlementService) Resolve(ctx context.Context, caller domain.CallerIdentity) (*domain.Entitlement, error) {
	account, err := s.findAccount(ctx, caller.SubjectID)
	if err != nil {
		return nil, err
	}

	if caller.InGroup(domain.GroupManagers) {
		if err := checkSubscription(account, managerAllowedStatuses, domain.CodeSubscriptionNotActive); err != nil {
			return nil, err
		}
		return &domain.Entitlement{Account: account}, nil
	}

	managerID := caller.ManagerID()
	if managerID == "" {
		return nil, domain.Status(domain.CodeNoAccountFound)
	}
	manager, err := s.findAccount(ctx, managerID)
	if err != nil {
		return nil, err
	}
	if err := checkSubscription(manager, staffAllowedStatuses, domain.CodeStaffAccessDenied); err != nil {
		return nil, err
	}
	return &domain.Entitlement{Account: account, Manager: manager}, nil
}

func (s *EntitlementService) findAccount(ctx context.Context, id string) (*domain.Account, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.Status(domain.CodeNoAccountFound)
		}
		return nil, err
	}
	return account, nil
}

func checkSubscription(account *domain.Account, allowed map[string]struct{}, deniedCode int) error {
	if account.Subscription.ID == "" {
		return domain.Status(domain.CodeNoSubscriptionOnFile)
	}
	if _, ok := allowed[account.Subscription.Status]; !ok {
		return domain.Status(deniedCode)
	}
	return nil
}
