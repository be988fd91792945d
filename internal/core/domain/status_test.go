package domain

import (
	"errors"
	"testing"
)

// Every code constant declared in status.go. Kept in sync by hand; the
// registry test below fails when a new constant is missing here or in the
// registry.
var allCodes = []int{
	CodeInternal,
	CodeNoAccountFound,
	CodeNoSubscriptionOnFile,
	CodeSubscriptionNotActive,
	CodeStaffAccessDenied,
	CodeNotAuthorized,
	CodeMissingRequiredField,
	CodeBusinessNotFound,
	CodeAccountNotFound,
	CodePromoNotFound,
	CodePromoRedeemed,
	CodeTwoFactorInvalid,
	CodeStaffNotFound,
	CodeNetworkNotConnected,
	CodeBusinessLimitReached,
	CodePaymentPlatform,
	CodeFacebookAPI,
	CodeTikTokAPI,
	CodeEmailDelivery,
	CodeIdentityProvider,
	CodeEventBus,
	CodeTwoFactorFailed,
}

func TestRegistry_Total(t *testing.T) {
	for _, code := range allCodes {
		msg, ok := MessageFor(code)
		if !ok {
			t.Errorf("code %d has no registry entry", code)
		}
		if msg == "" {
			t.Errorf("code %d has an empty message", code)
		}
	}
	if len(RegisteredCodes()) != len(allCodes) {
		t.Fatalf("registry has %d entries, constants declare %d", len(RegisteredCodes()), len(allCodes))
	}
}

func TestRegistry_UniqueCodes(t *testing.T) {
	seen := make(map[int]bool)
	for _, code := range allCodes {
		if seen[code] {
			t.Errorf("code %d declared twice", code)
		}
		seen[code] = true
	}
}

func TestRegistry_CodesWithinObservedRange(t *testing.T) {
	for _, code := range RegisteredCodes() {
		if code < 0 || code > 195 {
			t.Errorf("code %d outside the stable range", code)
		}
	}
}

func TestStatusError_RoundTrip(t *testing.T) {
	err := Status(CodePromoNotFound)

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %T", err)
	}
	if se.Code != CodePromoNotFound {
		t.Fatalf("code changed in flight: %d", se.Code)
	}
	want, _ := MessageFor(CodePromoNotFound)
	if se.Message() != want {
		t.Fatalf("message %q does not match registry text %q", se.Message(), want)
	}
}

func TestStatusError_ReasonPassThrough(t *testing.T) {
	err := StatusWithReason(CodeTwoFactorFailed, "the code does not match")
	if err.Message() != "the code does not match" {
		t.Fatalf("expected reason pass-through, got %q", err.Message())
	}
	if err.Code != CodeTwoFactorFailed {
		t.Fatalf("unexpected code %d", err.Code)
	}
}

func TestStatusError_UnknownCodeFallsBack(t *testing.T) {
	err := &StatusError{Code: 999}
	want, _ := MessageFor(CodeInternal)
	if err.Message() != want {
		t.Fatalf("expected internal fallback message, got %q", err.Message())
	}
}
