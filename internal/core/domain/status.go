package domain

import "fmt"

// Status codes are the stable, user-visible identifiers for every failure
// the API can report. Codes are never renumbered; new failures get new
// codes. Message text is looked up from the registry at raise time, never
// invented at a call site.
const (
	CodeInternal = 0

	// Authorization / entitlement.
	CodeNoAccountFound        = 100
	CodeNoSubscriptionOnFile  = 101
	CodeSubscriptionNotActive = 102
	CodeStaffAccessDenied     = 103
	CodeNotAuthorized         = 104

	// Input validation / referenced records.
	CodeMissingRequiredField = 120
	CodeBusinessNotFound     = 121
	CodeAccountNotFound      = 122
	CodePromoNotFound        = 123
	CodePromoRedeemed        = 124
	CodeTwoFactorInvalid     = 125
	CodeStaffNotFound        = 126
	CodeNetworkNotConnected  = 127
	CodeBusinessLimitReached = 128

	// Collaborators.
	CodePaymentPlatform  = 150
	CodeFacebookAPI      = 151
	CodeTikTokAPI        = 152
	CodeEmailDelivery    = 153
	CodeIdentityProvider = 154
	CodeEventBus         = 155

	// Pass-through failures where the downstream reason is user-visible.
	CodeTwoFactorFailed = 190
)

// statusMessages is the canonical code registry. Every code raised anywhere
// in the handler set must have an entry here; the registry's totality is
// enforced by test.
var statusMessages = map[int]string{
	CodeInternal: "Something went wrong. Please try again.",

	CodeNoAccountFound:        "No account was found for this user.",
	CodeNoSubscriptionOnFile:  "No subscription is on file for this account.",
	CodeSubscriptionNotActive: "Your subscription is not active.",
	CodeStaffAccessDenied:     "Your manager's subscription does not permit staff access.",
	CodeNotAuthorized:         "You are not authorized to perform this action.",

	CodeMissingRequiredField: "A required field is missing or invalid.",
	CodeBusinessNotFound:     "The requested business was not found.",
	CodeAccountNotFound:      "The referenced account was not found.",
	CodePromoNotFound:        "This promotional code does not exist.",
	CodePromoRedeemed:        "This promotional code has already been redeemed.",
	CodeTwoFactorInvalid:     "The verification code is invalid or has expired.",
	CodeStaffNotFound:        "The staff member was not found.",
	CodeNetworkNotConnected:  "This ad account is not connected.",
	CodeBusinessLimitReached: "Your plan's business limit has been reached.",

	CodePaymentPlatform:  "The payment provider could not process the request.",
	CodeFacebookAPI:      "Facebook rejected the request. Please reconnect your account.",
	CodeTikTokAPI:        "TikTok rejected the request. Please reconnect your account.",
	CodeEmailDelivery:    "The email could not be sent.",
	CodeIdentityProvider: "The account service could not process the request.",
	CodeEventBus:         "The request could not be queued. Please try again.",

	CodeTwoFactorFailed: "Two-factor verification failed.",
}

// StatusError is a failure identified by a registry code. Reason, when set,
// replaces the canonical message for codes whose downstream detail is
// deliberately user-visible (two-factor verification).
type StatusError struct {
	Code   int
	Reason string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Message())
}

// Message returns the user-visible text for the error: the pass-through
// reason when present, otherwise the registry's canonical message. Unknown
// codes fall back to the internal message so a programming error never
// leaks a blank message.
func (e *StatusError) Message() string {
	if e.Reason != "" {
		return e.Reason
	}
	if msg, ok := statusMessages[e.Code]; ok {
		return msg
	}
	return statusMessages[CodeInternal]
}

// Status raises a failure carrying the given registry code.
func Status(code int) *StatusError {
	return &StatusError{Code: code}
}

// StatusWithReason raises a failure whose user-visible message is the given
// downstream reason rather than the registry text.
func StatusWithReason(code int, reason string) *StatusError {
	return &StatusError{Code: code, Reason: reason}
}

// RegisteredCodes returns every code in the registry. Used by tests to
// verify totality and uniqueness of the catalog.
func RegisteredCodes() []int {
	codes := make([]int, 0, len(statusMessages))
	for c := range statusMessages {
		codes = append(codes, c)
	}
	return codes
}

// MessageFor returns the canonical registry text for a code and whether the
// code is registered.
func MessageFor(code int) (string, bool) {
	msg, ok := statusMessages[code]
	return msg, ok
}
