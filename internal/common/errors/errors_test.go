package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_IsMatchesByCode(t *testing.T) {
	err := NewInsufficientPointsError(50, 10)

	assert.True(t, stderrors.Is(err, ErrInsufficientPoints))
	assert.False(t, stderrors.Is(err, ErrUnknownReward))

	wrapped := fmt.Errorf("claim: %w", err)
	assert.True(t, stderrors.Is(wrapped, ErrInsufficientPoints))
	assert.Equal(t, ErrCodeInsufficientPoints, CodeOf(wrapped))
}

func TestNewStorageError_KeepsCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := NewStorageError("credit", cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, err.IsInternal())
	assert.Equal(t, "credit", err.Details["operation"])
	assert.Contains(t, err.Error(), "connection refused")
}

func TestClassification(t *testing.T) {
	assert.True(t, NewInvalidAmountError(0).IsValidation())
	assert.True(t, NewInvalidTimeRangeError("1y").IsValidation())
	assert.True(t, NewUnknownRewardError(3).IsNotFound())
	assert.True(t, NewForbiddenError("admin only").IsUnauthorized())
	assert.True(t, NewAnalyticsTimeoutError("download_stats", nil).IsInternal())
}

func TestAsAppError(t *testing.T) {
	_, ok := AsAppError(stderrors.New("plain"))
	assert.False(t, ok)

	_, ok = AsAppError(nil)
	assert.False(t, ok)

	appErr, ok := AsAppError(fmt.Errorf("x: %w", NewUnknownRewardError(7)))
	assert.True(t, ok)
	assert.Equal(t, ErrCodeUnknownReward, appErr.Code)
}
