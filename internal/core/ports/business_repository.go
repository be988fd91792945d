package ports

import (
	"context"

	"github.com/adpulse/marketing-api/internal/core/domain"
)

// BusinessUpdate carries the business fields a caller may change. Nil
// fields are left untouched.
type BusinessUpdate struct {
	Name              *string
	FacebookAdAccount *string
	TikTokAdAccount   *string
	FacebookPixel     *string
}

// BusinessRepository persists tracked business documents.
type BusinessRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Business, error)
	Create(ctx context.Context, business *domain.Business) (*domain.Business, error)
	Update(ctx context.Context, id string, update BusinessUpdate) (*domain.Business, error)
	// ListByAccount returns the businesses owned by a manager account,
	// newest first, with the total count for pagination.
	ListByAccount(ctx context.Context, accountID string, page, limit int) ([]domain.Business, int64, error)
	CountByAccount(ctx context.Context, accountID string) (int64, error)
}

// PromoRepository persists single-use promotional codes. Redeem must be a
// conditional atomic update: it fails with domain.ErrPromoRedeemed when the
// code was already claimed, regardless of concurrent callers.
type PromoRepository interface {
	FindByCode(ctx context.Context, code string) (*domain.PromoCode, error)
	Redeem(ctx context.Context, code, accountID string) (*domain.PromoCode, error)
}
