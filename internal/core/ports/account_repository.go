package ports

import (
	"context"

	"github.com/adpulse/marketing-api/internal/core/domain"
)

// ProfileUpdate carries the account fields a caller may change. Nil fields
// are left untouched.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Email     *string
}

// AccountRepository persists account documents in the document store. All
// updates are single-document atomic; callers must not assume atomicity
// across accounts.
type AccountRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) error
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*domain.Account, error)
	SetAdToken(ctx context.Context, id string, network domain.AdNetwork, token string) error
	// ClearAdToken unsets the stored token for the network and returns the
	// updated account.
	ClearAdToken(ctx context.Context, id string, network domain.AdNetwork) (*domain.Account, error)
	UpdateSubscription(ctx context.Context, id string, sub domain.Subscription) error
	SetRecoveryHash(ctx context.Context, id string, hash string) error
	SetStatus(ctx context.Context, id string, status string) error
	// ListStaff returns the active staff accounts under a manager, newest
	// first, along with the total count for pagination.
	ListStaff(ctx context.Context, managerID string, page, limit int) ([]domain.Account, int64, error)
}
