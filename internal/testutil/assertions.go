package testutil

import (
	"errors"
	"testing"

	apperrors "finance4all/internal/errors"

	"github.com/shopspring/decimal"
)

// AssertAppError checks that err is an *AppError with the expected error code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertFieldError checks that err is a validation error naming field.
func AssertFieldError(t *testing.T, err error, field string) {
	t.Helper()

	AssertAppError(t, err, "BAD_USER_INPUT")

	var appErr *apperrors.AppError
	errors.As(err, &appErr)
	for _, f := range appErr.Fields {
		if f.Field == field {
			return
		}
	}
	t.Errorf("expected a field error for %q, got %+v", field, appErr.Fields)
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertDecimal fails the test unless got equals want numerically.
func AssertDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()

	w, err := decimal.NewFromString(want)
	if err != nil {
		t.Fatalf("invalid decimal %q: %v", want, err)
	}
	if !got.Equal(w) {
		t.Errorf("%s = %s, want %s", name, got.String(), want)
	}
}
