package testutil

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "spendbook/internal/errors"
)

// AssertAppError fails unless err carries the given AppError code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	var appErr *apperrors.AppError
	switch {
	case err == nil:
		t.Fatalf("expected %s, got nil", expectedCode)
	case !errors.As(err, &appErr):
		t.Fatalf("expected %s, got %T: %v", expectedCode, err, err)
	case appErr.Code != expectedCode:
		t.Errorf("expected %s, got %s (%s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertAmount fails the test when got and want (a decimal literal) differ numerically.
func AssertAmount(t *testing.T, label string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(Amount(t, want)) {
		t.Errorf("%s: expected %s, got %s", label, want, got)
	}
}

// AssertRowCount fails unless the table behind model holds want rows.
func AssertRowCount(t *testing.T, db *gorm.DB, model interface{}, want int64) {
	t.Helper()
	var got int64
	if err := db.Model(model).Count(&got).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	if got != want {
		t.Errorf("expected %d rows, got %d", want, got)
	}
}
