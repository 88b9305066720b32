package testutil

import (
	"testing"

	apperrors "navtracker/internal/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertAppError checks that err is an *AppError with the expected error code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	require.Error(t, err, "expected AppError with code %q", expectedCode)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, expectedCode, appErr.Code, "message: %s", appErr.Message)
}

// AssertNoError stops the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	require.NoError(t, err)
}

// AssertDecimal checks that got equals the decimal literal want.
func AssertDecimal(t *testing.T, got decimal.Decimal, want string) {
	t.Helper()

	assert.True(t, got.Equal(Dec(want)), "expected %s, got %s", want, got.String())
}
