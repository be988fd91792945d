package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/adpulse/marketing-api/internal/core/domain"
	"github.com/adpulse/marketing-api/internal/core/ports"
)

// BillingService reads and changes subscriptions on the payment platform
// and keeps the account document's mirror in sync. It is deliberately not
// gated on subscription standing: a canceled customer must still be able to
// see and change their billing.
type BillingService struct {
	accounts      ports.AccountRepository
	subscriptions ports.SubscriptionClient
}

func NewBillingService(accounts ports.AccountRepository, subscriptions ports.SubscriptionClient) *BillingService {
	return &BillingService{accounts: accounts, subscriptions: subscriptions}
}

func (s *BillingService) GetSubscription(ctx context.Context, caller domain.CallerIdentity) (*domain.Subscription, error) {
	account, err := s.lookup(ctx, caller)
	if err != nil {
		return nil, err
	}
	sub, err := s.subscriptions.GetSubscription(ctx, account.Subscription.ID)
	if err != nil {
		return nil, domain.Status(domain.CodePaymentPlatform)
	}
	if err := s.accounts.UpdateSubscription(ctx, account.ID, *sub); err != nil {
		return nil, fmt.Errorf("sync subscription: %w", err)
	}
	return sub, nil
}

func (s *BillingService) ChangePlan(ctx context.Context, caller domain.CallerIdentity, priceID string) (*domain.Subscription, error) {
	if priceID == "" {
		return nil, domain.Status(domain.CodeMissingRequiredField)
	}
	account, err := s.lookup(ctx, caller)
	if err != nil {
		return nil, err
	}
	sub, err := s.subscriptions.UpdatePlan(ctx, account.Subscription.ID, priceID)
	if err != nil {
		return nil, domain.Status(domain.CodePaymentPlatform)
	}
	if err := s.accounts.UpdateSubscription(ctx, account.ID, *sub); err != nil {
		return nil, fmt.Errorf("sync subscription: %w", err)
	}
	return sub, nil
}

// lookup fetches the billed account: the caller for managers, the manager's
// record for staff. Billing always belongs to the manager.
func (s *BillingService) lookup(ctx context.Context, caller domain.CallerIdentity) (*domain.Account, error) {
	id := caller.SubjectID
	if !caller.InGroup(domain.GroupManagers) {
		if id = caller.ManagerID(); id == "" {
			return nil, domain.Status(domain.CodeNoAccountFound)
		}
	}
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.Status(domain.CodeNoAccountFound)
		}
		return nil, err
	}
	if account.Subscription.ID == "" {
		return nil, domain.Status(domain.CodeNoSubscriptionOnFile)
	}
	return account, nil
}
