package response

import (
	"errors"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/adpulse/marketing-api/internal/core/domain"
)

func TestFailure_StatusErrorVerbatim(t *testing.T) {
	env := Failure(domain.Status(domain.CodeBusinessNotFound), zerolog.Nop(), "business.get")

	if env.Error == nil {
		t.Fatalf("failure branch not populated")
	}
	if env.Data != nil || env.Message != "" || env.PageCount != nil {
		t.Fatalf("success fields populated on a failure envelope: %+v", env)
	}
	if env.Error.Code != domain.CodeBusinessNotFound {
		t.Fatalf("unexpected code %d", env.Error.Code)
	}
	want, _ := domain.MessageFor(domain.CodeBusinessNotFound)
	if env.Error.Message != want {
		t.Fatalf("message %q does not match registry text %q", env.Error.Message, want)
	}
}

func TestFailure_WrappedStatusError(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), domain.Status(domain.CodePromoRedeemed))
	env := Failure(wrapped, zerolog.Nop(), "account.redeemPromo")

	if env.Error.Code != domain.CodePromoRedeemed {
		t.Fatalf("wrapped StatusError not classified, got code %d", env.Error.Code)
	}
}

func TestFailure_UnclassifiedFallsBack(t *testing.T) {
	env := Failure(errors.New("nil pointer somewhere"), zerolog.Nop(), "account.get")

	if env.Error.Code != domain.CodeInternal {
		t.Fatalf("expected internal fallback code, got %d", env.Error.Code)
	}
	want, _ := domain.MessageFor(domain.CodeInternal)
	if env.Error.Message != want {
		t.Fatalf("raw error detail leaked: %q", env.Error.Message)
	}
}

func TestSuccess_Idempotent(t *testing.T) {
	a := Success(map[string]string{"k": "v"}, "done")
	b := Success(map[string]string{"k": "v"}, "done")
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("identical inputs produced different envelopes: %+v vs %+v", a, b)
	}

	p1 := SuccessPaged([]int{1, 2}, "", 3)
	p2 := SuccessPaged([]int{1, 2}, "", 3)
	if !reflect.DeepEqual(p1.Data, p2.Data) || *p1.PageCount != *p2.PageCount {
		t.Fatalf("paged envelopes differ: %+v vs %+v", p1, p2)
	}
}

func TestSuccess_SingleBranch(t *testing.T) {
	env := Success("payload", "ok")
	if env.Error != nil {
		t.Fatalf("error branch populated on success")
	}
}
