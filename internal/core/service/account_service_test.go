package service

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/adpulse/marketing-api/internal/core/domain"
	"github.com/adpulse/marketing-api/internal/core/ports"
)

type stubPromoRepo struct {
	promos map[string]*domain.PromoCode
}

func newStubPromoRepo(promos ...*domain.PromoCode) *stubPromoRepo {
	r := &stubPromoRepo{promos: make(map[string]*domain.PromoCode)}
	for _, p := range promos {
		clone := *p
		r.promos[p.Code] = &clone
	}
	return r
}

func (r *stubPromoRepo) FindByCode(_ context.Context, code string) (*domain.PromoCode, error) {
	p, ok := r.promos[code]
	if !ok {
		return nil, domain.ErrPromoNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubPromoRepo) Redeem(_ context.Context, code, accountID string) (*domain.PromoCode, error) {
	p, ok := r.promos[code]
	if !ok {
		return nil, domain.ErrPromoNotFound
	}
	if p.RedeemedBy != "" {
		return nil, domain.ErrPromoRedeemed
	}
	p.RedeemedBy = accountID
	p.RedeemedAt = time.Now().UTC()
	clone := *p
	return &clone, nil
}

type stubTwoFactorStore struct {
	codes map[string]string
}

func newStubTwoFactorStore() *stubTwoFactorStore {
	return &stubTwoFactorStore{codes: make(map[string]string)}
}

func (s *stubTwoFactorStore) Put(_ context.Context, subjectID, code string, _ time.Duration) error {
	s.codes[subjectID] = code
	return nil
}

func (s *stubTwoFactorStore) Consume(_ context.Context, subjectID string) (string, error) {
	code, ok := s.codes[subjectID]
	if !ok {
		return "", domain.ErrCodeNotFound
	}
	delete(s.codes, subjectID)
	return code, nil
}

func managerEntitlement(account *domain.Account) *domain.Entitlement {
	return &domain.Entitlement{Account: account}
}

func TestAccountService_Disconnect_ClearsToken(t *testing.T) {
	m := managerAccount("m1", domain.SubStatusActive)
	m.FacebookToken = "fb-token"
	repo := newStubAccountRepo(m)
	svc := NewAccountService(repo, newStubPromoRepo(), newStubTwoFactorStore())

	updated, err := svc.Disconnect(context.Background(), managerEntitlement(m), domain.NetworkFacebook)
	if err != nil {
		t.Fatalf("disconnect failed: %v", err)
	}
	if updated.FacebookToken != "" {
		t.Fatalf("token still set after disconnect")
	}
}

func TestAccountService_Disconnect_StaffClearsManagerToken(t *testing.T) {
	m := managerAccount("m1", domain.SubStatusActive)
	m.TikTokToken = "tt-token"
	s := staffAccount("s1", "m1")
	repo := newStubAccountRepo(m, s)
	svc := NewAccountService(repo, newStubPromoRepo(), newStubTwoFactorStore())

	ent := &domain.Entitlement{Account: s, Manager: m}
	updated, err := svc.Disconnect(context.Background(), ent, domain.NetworkTikTok)
	if err != nil {
		t.Fatalf("disconnect failed: %v", err)
	}
	if updated.ID != "m1" || updated.TikTokToken != "" {
		t.Fatalf("expected manager token cleared, got %+v", updated)
	}
}

func TestAccountService_UpdateProfile_RequiresAField(t *testing.T) {
	m := managerAccount("m1", domain.SubStatusActive)
	repo := newStubAccountRepo(m)
	svc := NewAccountService(repo, newStubPromoRepo(), newStubTwoFactorStore())

	_, err := svc.UpdateProfile(context.Background(), managerEntitlement(m), ports.ProfileUpdate{})
	if code := statusCode(t, err); code != domain.CodeMissingRequiredField {
		t.Fatalf("expected CodeMissingRequiredField, got %d", code)
	}
}

func TestAccountService_SetupAndVerifyTwoFactor(t *testing.T) {
	m := managerAccount("m1", domain.SubStatusActive)
	repo := newStubAccountRepo(m)
	store := newStubTwoFactorStore()
	svc := NewAccountService(repo, newStubPromoRepo(), store)
	caller := managerIdentity("m1")

	setup, err := svc.SetupTwoFactor(context.Background(), caller)
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if len(setup.Code) != 6 || len(setup.RecoveryCode) != 10 {
		t.Fatalf("unexpected code lengths: %q %q", setup.Code, setup.RecoveryCode)
	}

	stored := repo.accounts["m1"].RecoveryHash
	if stored == "" || stored == setup.RecoveryCode {
		t.Fatalf("recovery code must be stored hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(setup.RecoveryCode)); err != nil {
		t.Fatalf("stored hash does not match recovery code: %v", err)
	}

	if err := svc.VerifyTwoFactor(context.Background(), caller, setup.Code); err != nil {
		t.Fatalf("verification with pending code failed: %v", err)
	}
	// The code is consumed; the recovery code still works.
	if err := svc.VerifyTwoFactor(context.Background(), caller, setup.RecoveryCode); err != nil {
		t.Fatalf("verification with recovery code failed: %v", err)
	}
}

func TestAccountService_VerifyTwoFactor_WrongPendingCode(t *testing.T) {
	m := managerAccount("m1", domain.SubStatusActive)
	repo := newStubAccountRepo(m)
	store := newStubTwoFactorStore()
	svc := NewAccountService(repo, newStubPromoRepo(), store)
	caller := managerIdentity("m1")

	_ = store.Put(context.Background(), "m1", "123456", time.Minute)

	err := svc.VerifyTwoFactor(context.Background(), caller, "654321")
	if code := statusCode(t, err); code != domain.CodeTwoFactorFailed {
		t.Fatalf("expected CodeTwoFactorFailed, got %d", code)
	}
}

func TestAccountService_VerifyTwoFactor_NoCodeAnywhere(t *testing.T) {
	m := managerAccount("m1", domain.SubStatusActive)
	repo := newStubAccountRepo(m)
	svc := NewAccountService(repo, newStubPromoRepo(), newStubTwoFactorStore())

	err := svc.VerifyTwoFactor(context.Background(), managerIdentity("m1"), "000000")
	if code := statusCode(t, err); code != domain.CodeTwoFactorInvalid {
		t.Fatalf("expected CodeTwoFactorInvalid, got %d", code)
	}
}

func TestAccountService_RedeemPromo(t *testing.T) {
	m := managerAccount("m1", domain.SubStatusActive)
	repo := newStubAccountRepo(m)
	promos := newStubPromoRepo(&domain.PromoCode{Code: "LAUNCH50", PlanID: "growth", TrialDays: 30})
	svc := NewAccountService(repo, promos, newStubTwoFactorStore())
	ent := managerEntitlement(m)

	promo, err := svc.RedeemPromo(context.Background(), ent, "LAUNCH50")
	if err != nil {
		t.Fatalf("redeem failed: %v", err)
	}
	if promo.RedeemedBy != "m1" {
		t.Fatalf("promo not marked redeemed: %+v", promo)
	}

	_, err = svc.RedeemPromo(context.Background(), ent, "LAUNCH50")
	if code := statusCode(t, err); code != domain.CodePromoRedeemed {
		t.Fatalf("expected CodePromoRedeemed, got %d", code)
	}

	_, err = svc.RedeemPromo(context.Background(), ent, "NOPE")
	if code := statusCode(t, err); code != domain.CodePromoNotFound {
		t.Fatalf("expected CodePromoNotFound, got %d", code)
	}
}
