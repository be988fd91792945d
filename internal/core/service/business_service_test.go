package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/adpulse/marketing-api/internal/core/domain"
	"github.com/adpulse/marketing-api/internal/core/ports"
)

type stubBusinessRepo struct {
	businesses map[string]*domain.Business
	nextID     int
}

func newStubBusinessRepo(businesses ...*domain.Business) *stubBusinessRepo {
	r := &stubBusinessRepo{businesses: make(map[string]*domain.Business)}
	for _, b := range businesses {
		clone := *b
		r.businesses[b.ID] = &clone
	}
	return r
}

func (r *stubBusinessRepo) FindByID(_ context.Context, id string) (*domain.Business, error) {
	b, ok := r.businesses[id]
	if !ok {
		return nil, domain.ErrBusinessNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *stubBusinessRepo) Create(_ context.Context, business *domain.Business) (*domain.Business, error) {
	r.nextID++
	clone := *business
	clone.ID = fmt.Sprintf("biz_%d", r.nextID)
	r.businesses[clone.ID] = &clone
	copy := clone
	return &copy, nil
}

func (r *stubBusinessRepo) Update(_ context.Context, id string, update ports.BusinessUpdate) (*domain.Business, error) {
	b, ok := r.businesses[id]
	if !ok {
		return nil, domain.ErrBusinessNotFound
	}
	if update.Name != nil {
		b.Name = *update.Name
	}
	if update.FacebookAdAccount != nil {
		b.FacebookAdAccount = *update.FacebookAdAccount
	}
	if update.TikTokAdAccount != nil {
		b.TikTokAdAccount = *update.TikTokAdAccount
	}
	if update.FacebookPixel != nil {
		b.FacebookPixel = *update.FacebookPixel
	}
	clone := *b
	return &clone, nil
}

func (r *stubBusinessRepo) ListByAccount(_ context.Context, accountID string, _, _ int) ([]domain.Business, int64, error) {
	var items []domain.Business
	for _, b := range r.businesses {
		if b.AccountID == accountID {
			items = append(items, *b)
		}
	}
	return items, int64(len(items)), nil
}

func (r *stubBusinessRepo) CountByAccount(_ context.Context, accountID string) (int64, error) {
	var n int64
	for _, b := range r.businesses {
		if b.AccountID == accountID {
			n++
		}
	}
	return n, nil
}

func TestBusinessService_Get_NotFound(t *testing.T) {
	svc := NewBusinessService(newStubBusinessRepo())
	m := managerAccount("m1", domain.SubStatusActive)

	_, err := svc.Get(context.Background(), managerEntitlement(m), "missing")
	if code := statusCode(t, err); code != domain.CodeBusinessNotFound {
		t.Fatalf("expected CodeBusinessNotFound, got %d", code)
	}
}

func TestBusinessService_Get_ForeignBusinessHidden(t *testing.T) {
	svc := NewBusinessService(newStubBusinessRepo(
		&domain.Business{ID: "b1", AccountID: "someone-else", Name: "Theirs"},
	))
	m := managerAccount("m1", domain.SubStatusActive)

	_, err := svc.Get(context.Background(), managerEntitlement(m), "b1")
	if code := statusCode(t, err); code != domain.CodeBusinessNotFound {
		t.Fatalf("foreign business must look not-found, got %d", code)
	}
}

func TestBusinessService_Get_StaffCrossManagerDenied(t *testing.T) {
	svc := NewBusinessService(newStubBusinessRepo(
		&domain.Business{ID: "b1", AccountID: "m2", Name: "Other manager's"},
	))
	m := managerAccount("m1", domain.SubStatusActive)
	s := staffAccount("s1", "m1")
	ent := &domain.Entitlement{Account: s, Manager: m}

	_, err := svc.Get(context.Background(), ent, "b1")
	if code := statusCode(t, err); code != domain.CodeNotAuthorized {
		t.Fatalf("expected CodeNotAuthorized, got %d", code)
	}
}

func TestBusinessService_Create_RespectsLimit(t *testing.T) {
	repo := newStubBusinessRepo(
		&domain.Business{ID: "b1", AccountID: "m1", Name: "One"},
	)
	svc := NewBusinessService(repo)
	m := managerAccount("m1", domain.SubStatusActive)
	m.BusinessLimit = 1

	_, err := svc.Create(context.Background(), managerEntitlement(m), ports.CreateBusinessInput{Name: "Two"})
	if code := statusCode(t, err); code != domain.CodeBusinessLimitReached {
		t.Fatalf("expected CodeBusinessLimitReached, got %d", code)
	}
}

func TestBusinessService_CreateAndUpdate(t *testing.T) {
	repo := newStubBusinessRepo()
	svc := NewBusinessService(repo)
	m := managerAccount("m1", domain.SubStatusActive)
	ent := managerEntitlement(m)

	created, err := svc.Create(context.Background(), ent, ports.CreateBusinessInput{Name: "Acme"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.AccountID != "m1" {
		t.Fatalf("owner not set: %+v", created)
	}

	pixel := "px_9"
	updated, err := svc.Update(context.Background(), ent, created.ID, ports.BusinessUpdate{FacebookPixel: &pixel})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.FacebookPixel != "px_9" {
		t.Fatalf("pixel not updated: %+v", updated)
	}
}
