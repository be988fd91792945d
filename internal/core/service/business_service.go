package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adpulse/marketing-api/internal/core/domain"
	"github.com/adpulse/marketing-api/internal/core/ports"
)

// BusinessService implements tracked-business CRUD. Businesses belong to
// the entitled manager account, so staff see and edit the businesses of the
// manager they work under — and nothing else.
type BusinessService struct {
	businesses ports.BusinessRepository
}

func NewBusinessService(businesses ports.BusinessRepository) *BusinessService {
	return &BusinessService{businesses: businesses}
}

func (s *BusinessService) Get(ctx context.Context, ent *domain.Entitlement, businessID string) (*domain.Business, error) {
	if businessID == "" {
		return nil, domain.Status(domain.CodeMissingRequiredField)
	}
	return s.owned(ctx, ent, businessID)
}

func (s *BusinessService) Create(ctx context.Context, ent *domain.Entitlement, input ports.CreateBusinessInput) (*domain.Business, error) {
	if input.Name == "" {
		return nil, domain.Status(domain.CodeMissingRequiredField)
	}

	owner := ent.Entitled()
	if owner.BusinessLimit > 0 {
		count, err := s.businesses.CountByAccount(ctx, owner.ID)
		if err != nil {
			return nil, fmt.Errorf("count businesses: %w", err)
		}
		if count >= int64(owner.BusinessLimit) {
			return nil, domain.Status(domain.CodeBusinessLimitReached)
		}
	}

	now := time.Now().UTC()
	business, err := s.businesses.Create(ctx, &domain.Business{
		AccountID: owner.ID,
		Name:      input.Name,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("create business: %w", err)
	}
	return business, nil
}

func (s *BusinessService) Update(ctx context.Context, ent *domain.Entitlement, businessID string, update ports.BusinessUpdate) (*domain.Business, error) {
	if businessID == "" {
		return nil, domain.Status(domain.CodeMissingRequiredField)
	}
	if _, err := s.owned(ctx, ent, businessID); err != nil {
		return nil, err
	}
	business, err := s.businesses.Update(ctx, businessID, update)
	if err != nil {
		if errors.Is(err, domain.ErrBusinessNotFound) {
			return nil, domain.Status(domain.CodeBusinessNotFound)
		}
		return nil, err
	}
	return business, nil
}

func (s *BusinessService) List(ctx context.Context, ent *domain.Entitlement, page, limit int) (*ports.BusinessPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	items, total, err := s.businesses.ListByAccount(ctx, ent.Entitled().ID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	return &ports.BusinessPage{Items: items, Total: total, PageCount: pageCount(total, limit)}, nil
}

// owned fetches a business and verifies it belongs to the entitled account.
// A business owned by someone else is reported as not found to a manager so
// its existence is not confirmed; staff reaching outside their manager's
// records get the not-authorized code.
func (s *BusinessService) owned(ctx context.Context, ent *domain.Entitlement, businessID string) (*domain.Business, error) {
	business, err := s.businesses.FindByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, domain.ErrBusinessNotFound) {
			return nil, domain.Status(domain.CodeBusinessNotFound)
		}
		return nil, err
	}
	if business.AccountID != ent.Entitled().ID {
		if ent.IsStaff() {
			return nil, domain.Status(domain.CodeNotAuthorized)
		}
		return nil, domain.Status(domain.CodeBusinessNotFound)
	}
	return business, nil
}
