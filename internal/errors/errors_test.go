package errors

import (
	"fmt"
	"testing"

	"chatbi/domain/core"
)

func TestFromDomain(t *testing.T) {
	cases := []struct {
		err  error
		code string
	}{
		{core.NewColumnNotFoundError("sales"), CodeColumnNotFound},
		{core.NewInsufficientDataError(2, 1), CodeInsufficientData},
		{fmt.Errorf("%w: no rows", core.ErrEmptyInput), CodeEmptyInput},
		{core.NewInvalidThresholdError(-1), CodeInvalidThreshold},
		{core.NewNonNumericError("sales", 3), CodeNonNumericColumn},
		{fmt.Errorf("%w: data source x", core.ErrPoolUnavailable), CodePoolUnavailable},
		{fmt.Errorf("%w: not a SELECT", core.ErrQueryRejected), CodeQueryRejected},
		{core.NewNotFoundError("data source", "01890000"), CodeNotFound},
		{fmt.Errorf("disk on fire"), CodeInternalError},
	}
	for _, tc := range cases {
		if got := FromDomain(tc.err).Code; got != tc.code {
			t.Errorf("FromDomain(%v).Code = %s, want %s", tc.err, got, tc.code)
		}
	}
}

func TestFromDomain_PassesAppErrorsThrough(t *testing.T) {
	orig := InvalidInput("predict_steps must be non-negative")
	if got := FromDomain(orig); got != orig {
		t.Errorf("expected the original AppError back, got %+v", got)
	}
	if FromDomain(nil) != nil {
		t.Error("expected nil for nil error")
	}
}

func TestWrapKeepsCode(t *testing.T) {
	inner := New(CodeDatabaseError, "insert failed")
	wrapped := Wrap(inner, "saving data source")
	if GetCode(wrapped) != CodeDatabaseError {
		t.Errorf("wrapped code = %s, want %s", GetCode(wrapped), CodeDatabaseError)
	}
	if !IsAppError(wrapped) {
		t.Error("wrapped error should remain an AppError")
	}
}
