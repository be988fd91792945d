package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/adpulse/marketing-api/internal/core/domain"
	"github.com/adpulse/marketing-api/internal/core/ports"
)

const twoFactorTTL = 10 * time.Minute

// AccountService implements self-service account operations.
type AccountService struct {
	accounts  ports.AccountRepository
	promos    ports.PromoRepository
	twoFactor ports.TwoFactorStore
}

func NewAccountService(accounts ports.AccountRepository, promos ports.PromoRepository, twoFactor ports.TwoFactorStore) *AccountService {
	return &AccountService{accounts: accounts, promos: promos, twoFactor: twoFactor}
}

func (s *AccountService) Get(_ context.Context, ent *domain.Entitlement) (*domain.Account, error) {
	return ent.Account, nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, ent *domain.Entitlement, update ports.ProfileUpdate) (*domain.Account, error) {
	if update.FirstName == nil && update.LastName == nil && update.Email == nil {
		return nil, domain.Status(domain.CodeMissingRequiredField)
	}
	account, err := s.accounts.UpdateProfile(ctx, ent.Account.ID, update)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.Status(domain.CodeNoAccountFound)
		}
		return nil, err
	}
	return account, nil
}

// Disconnect clears the stored token for the network on the entitled
// account. Staff disconnect their manager's connection, since the token
// lives on the manager record.
func (s *AccountService) Disconnect(ctx context.Context, ent *domain.Entitlement, network domain.AdNetwork) (*domain.Account, error) {
	account, err := s.accounts.ClearAdToken(ctx, ent.Entitled().ID, network)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.Status(domain.CodeNoAccountFound)
		}
		return nil, err
	}
	return account, nil
}

// SetupTwoFactor issues a fresh one-time code plus a recovery code. The
// recovery code is returned exactly once; only its bcrypt hash is stored.
func (s *AccountService) SetupTwoFactor(ctx context.Context, caller domain.CallerIdentity) (*ports.TwoFactorSetupResult, error) {
	code, err := randomDigits(6)
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}
	recovery, err := randomDigits(10)
	if err != nil {
		return nil, fmt.Errorf("generate recovery code: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(recovery), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash recovery code: %w", err)
	}
	if err := s.accounts.SetRecoveryHash(ctx, caller.SubjectID, string(hash)); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.Status(domain.CodeNoAccountFound)
		}
		return nil, err
	}
	if err := s.twoFactor.Put(ctx, caller.SubjectID, code, twoFactorTTL); err != nil {
		return nil, fmt.Errorf("store code: %w", err)
	}

	return &ports.TwoFactorSetupResult{Code: code, RecoveryCode: recovery}, nil
}

// VerifyTwoFactor accepts either the pending one-time code or the stored
// recovery code. Mismatch reasons are user-visible by design.
func (s *AccountService) VerifyTwoFactor(ctx context.Context, caller domain.CallerIdentity, code string) error {
	if code == "" {
		return domain.Status(domain.CodeMissingRequiredField)
	}

	pending, err := s.twoFactor.Consume(ctx, caller.SubjectID)
	switch {
	case err == nil:
		if pending == code {
			return nil
		}
		return domain.StatusWithReason(domain.CodeTwoFactorFailed, "The code does not match the one we sent you.")
	case errors.Is(err, domain.ErrCodeNotFound):
		// No pending code; fall through to the recovery code.
	default:
		return fmt.Errorf("consume code: %w", err)
	}

	account, err := s.accounts.FindByID(ctx, caller.SubjectID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return domain.Status(domain.CodeNoAccountFound)
		}
		return err
	}
	if account.RecoveryHash == "" {
		return domain.Status(domain.CodeTwoFactorInvalid)
	}
	if bcrypt.CompareHashAndPassword([]byte(account.RecoveryHash), []byte(code)) != nil {
		return domain.Status(domain.CodeTwoFactorInvalid)
	}
	return nil
}

// RedeemPromo claims a single-use promotional code for the entitled
// account. The redeem itself is a conditional atomic update in the store,
// so concurrent claims cannot both succeed.
func (s *AccountService) RedeemPromo(ctx context.Context, ent *domain.Entitlement, code string) (*domain.PromoCode, error) {
	if code == "" {
		return nil, domain.Status(domain.CodeMissingRequiredField)
	}
	promo, err := s.promos.Redeem(ctx, code, ent.Entitled().ID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPromoNotFound):
			return nil, domain.Status(domain.CodePromoNotFound)
		case errors.Is(err, domain.ErrPromoRedeemed):
			return nil, domain.Status(domain.CodePromoRedeemed)
		}
		return nil, err
	}
	return promo, nil
}

// randomDigits returns n cryptographically random decimal digits.
func randomDigits(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	digits := make([]byte, n)
	for i, b := range buf {
		digits[i] = '0' + b%10
	}
	return string(digits), nil
}
