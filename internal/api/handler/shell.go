package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/adpulse/marketing-api/internal/api/metrics"
	"github.com/adpulse/marketing-api/internal/api/middleware"
	"github.com/adpulse/marketing-api/internal/api/response"
	"github.com/adpulse/marketing-api/internal/core/domain"
	"github.com/adpulse/marketing-api/internal/core/ports"
)

// Op describes one operation's dispatch requirements. Unauthenticated
// operations skip identity extraction; ungated ones skip entitlement
// resolution (they may still use the caller identity directly).
type Op struct {
	Name          string
	Authenticated bool
	Gated         bool
}

// Invocation is what the shell hands to an operation function: the caller's
// identity and, for gated operations, the resolved entitlement.
type Invocation struct {
	Caller      domain.CallerIdentity
	Entitlement *domain.Entitlement
}

// Result is an operation's success outcome before enveloping.
type Result struct {
	Data      any
	Message   string
	PageCount *int
}

// Shell is the uniform dispatch wrapper around every operation. It emits
// the trace event, extracts identity, resolves entitlement, invokes the
// operation, and always answers HTTP 200 with an envelope — no error,
// including a panic, escapes it.
type Shell struct {
	entitlements ports.EntitlementService
	log          zerolog.Logger
}

func NewShell(entitlements ports.EntitlementService, log zerolog.Logger) *Shell {
	return &Shell{entitlements: entitlements, log: log}
}

// Run dispatches one operation. The envelope's error.code is the only
// failure signal; the HTTP status is always 200.
func (s *Shell) Run(c echo.Context, op Op, fn func(ctx context.Context, inv Invocation) (*Result, error)) error {
	start := time.Now()
	s.log.Info().
		Str("operation", op.Name).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("operation invoked")

	env := s.invoke(c, op, fn)

	outcome := "success"
	if env.Error != nil {
		outcome = "failure"
		metrics.OperationFailuresTotal.WithLabelValues(fmt.Sprintf("%d", env.Error.Code)).Inc()
	}
	metrics.OperationsTotal.WithLabelValues(op.Name, outcome).Inc()
	metrics.OperationDuration.WithLabelValues(op.Name).Observe(time.Since(start).Seconds())

	return c.JSON(http.StatusOK, env)
}

func (s *Shell) invoke(c echo.Context, op Op, fn func(ctx context.Context, inv Invocation) (*Result, error)) (env response.Envelope) {
	defer func() {
		if r := recover(); r != nil {
			env = response.Failure(fmt.Errorf("panic in %s: %v", op.Name, r), s.log, op.Name)
		}
	}()

	ctx := c.Request().Context()
	var inv Invocation

	if op.Authenticated {
		caller, ok := middleware.CallerFrom(c)
		if !ok {
			// Route mounted without the auth middleware: a wiring bug, not
			// a caller mistake.
			return response.Failure(fmt.Errorf("%s: no identity on authenticated operation", op.Name), s.log, op.Name)
		}
		inv.Caller = caller

		if op.Gated {
			ent, err := s.entitlements.Resolve(ctx, caller)
			if err != nil {
				return response.Failure(err, s.log, op.Name)
			}
			inv.Entitlement = ent
		}
	}

	res, err := fn(ctx, inv)
	if err != nil {
		return response.Failure(err, s.log, op.Name)
	}
	if res == nil {
		res = &Result{}
	}
	if res.PageCount != nil {
		return response.SuccessPaged(res.Data, res.Message, *res.PageCount)
	}
	return response.Success(res.Data, res.Message)
}

// Bind decodes and validates the request payload. Any bind or validation
// failure is reported with the missing-required-field code; the raw detail
// stays in the log.
func (s *Shell) Bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		s.log.Debug().Err(err).Msg("payload bind failed")
		return domain.Status(domain.CodeMissingRequiredField)
	}
	if err := c.Validate(req); err != nil {
		s.log.Debug().Err(err).Msg("payload validation failed")
		return domain.Status(domain.CodeMissingRequiredField)
	}
	return nil
}
