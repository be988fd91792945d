// Package response defines the uniform envelope every operation answers
// with, and the classification of errors into it.
package response

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/adpulse/marketing-api/internal/core/domain"
)

// ErrorBody is the failure half of the envelope: a registry code and its
// canonical message. Nothing else about a failure is user-visible.
type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Envelope is the uniform response shape for every operation. Exactly one
// of the success fields (Data, Message, PageCount) or Error is populated.
type Envelope struct {
	Data      any        `json:"data,omitempty"`
	Message   string     `json:"message,omitempty"`
	PageCount *int       `json:"page_count,omitempty"`
	Error     *ErrorBody `json:"error,omitempty"`
}

// Success wraps a handler result. Message is optional.
func Success(data any, message string) Envelope {
	return Envelope{Data: data, Message: message}
}

// SuccessPaged wraps a paginated handler result with its page count.
func SuccessPaged(data any, message string, pageCount int) Envelope {
	return Envelope{Data: data, Message: message, PageCount: &pageCount}
}

// Failure classifies an error into the envelope's failure branch. A
// StatusError contributes its code and message verbatim; anything else maps
// to the internal fallback code. The raw error is recorded to the log sink,
// keyed by the operation, before the envelope is returned; that side
// channel must never take down the response path, hence the recover.
func Failure(err error, log zerolog.Logger, operation string) Envelope {
	logRawError(err, log, operation)

	var se *domain.StatusError
	if errors.As(err, &se) {
		return Envelope{Error: &ErrorBody{Code: se.Code, Message: se.Message()}}
	}

	msg, _ := domain.MessageFor(domain.CodeInternal)
	return Envelope{Error: &ErrorBody{Code: domain.CodeInternal, Message: msg}}
}

func logRawError(err error, log zerolog.Logger, operation string) {
	defer func() {
		_ = recover()
	}()
	log.Error().Err(err).Str("operation", operation).Msg("operation failed")
}
