package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// ErrorCode is a stable machine-readable error identifier.
type ErrorCode string

const (
	// Generic
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation      ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden       ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest      ErrorCode = "BAD_REQUEST"
	ErrCodeRateLimit       ErrorCode = "RATE_LIMIT_EXCEEDED"
	ErrCodeUserNotFound    ErrorCode = "USER_NOT_FOUND"
	ErrCodeUnsupportedLink ErrorCode = "UNSUPPORTED_LINK"

	// Ledger and rewards
	ErrCodeInvalidAmount      ErrorCode = "INVALID_AMOUNT"
	ErrCodeInsufficientPoints ErrorCode = "INSUFFICIENT_POINTS"
	ErrCodeUnknownReward      ErrorCode = "UNKNOWN_REWARD"

	// Analytics
	ErrCodeInvalidTimeRange ErrorCode = "INVALID_TIME_RANGE"
	ErrCodeAnalyticsTimeout ErrorCode = "ANALYTICS_TIMEOUT"

	// Infrastructure
	ErrCodeStorageUnavailable ErrorCode = "STORAGE_UNAVAILABLE"
	ErrCodeCacheError         ErrorCode = "CACHE_ERROR"
	ErrCodeTelegramAPI        ErrorCode = "TELEGRAM_API_ERROR"
)

// AppError is a typed application error.
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Context   map[string]string      `json:"context,omitempty"`
	Stack     []string               `json:"-"`
	Timestamp time.Time              `json:"timestamp"`
	RequestID string                 `json:"request_id,omitempty"`
	UserID    int64                  `json:"user_id,omitempty"`
	Cause     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches by code so that errors.Is(err, ErrInsufficientPoints) works for
// any AppError carrying the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func (e *AppError) IsNotFound() bool {
	return e.Code == ErrCodeNotFound || e.Code == ErrCodeUserNotFound || e.Code == ErrCodeUnknownReward
}

func (e *AppError) IsValidation() bool {
	switch e.Code {
	case ErrCodeValidation, ErrCodeBadRequest, ErrCodeInvalidAmount, ErrCodeInvalidTimeRange, ErrCodeUnsupportedLink:
		return true
	}
	return false
}

func (e *AppError) IsUnauthorized() bool {
	return e.Code == ErrCodeUnauthorized || e.Code == ErrCodeForbidden
}

func (e *AppError) IsInternal() bool {
	switch e.Code {
	case ErrCodeInternal, ErrCodeStorageUnavailable, ErrCodeCacheError, ErrCodeTelegramAPI, ErrCodeAnalyticsTimeout:
		return true
	}
	return false
}

func (e *AppError) WithContext(key, value string) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func (e *AppError) WithRequestID(requestID string) *AppError {
	e.RequestID = requestID
	return e
}

func (e *AppError) WithUserID(userID int64) *AppError {
	e.UserID = userID
	return e
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
		Stack:     getStackTrace(),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

func getStackTrace() []string {
	var stack []string
	for i := 2; ; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}
		if strings.Contains(fn.Name(), "internal/common/errors") {
			continue
		}
		stack = append(stack, fmt.Sprintf("%s:%d %s", file, line, fn.Name()))
		if len(stack) >= 10 {
			break
		}
	}
	return stack
}

// Sentinels for errors.Is checks. Never mutate them; use the constructors below.
var (
	ErrInvalidAmount      = &AppError{Code: ErrCodeInvalidAmount, Message: "amount must be positive"}
	ErrInsufficientPoints = &AppError{Code: ErrCodeInsufficientPoints, Message: "insufficient points"}
	ErrUnknownReward      = &AppError{Code: ErrCodeUnknownReward, Message: "unknown reward"}
	ErrInvalidTimeRange   = &AppError{Code: ErrCodeInvalidTimeRange, Message: "invalid time range"}
	ErrStorageUnavailable = &AppError{Code: ErrCodeStorageUnavailable, Message: "storage unavailable"}
	ErrAnalyticsTimeout   = &AppError{Code: ErrCodeAnalyticsTimeout, Message: "analytics query timed out"}
)

func NewValidationError(field, reason string) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf("Validation failed for field '%s': %s", field, reason)).
		WithDetail("field", field).
		WithDetail("reason", reason)
}

func NewNotFoundError(resource, id interface{}) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource)).
		WithDetail("resource", resource).
		WithDetail("id", id)
}

func NewUnauthorizedError(reason string) *AppError {
	return New(ErrCodeUnauthorized, fmt.Sprintf("Unauthorized: %s", reason)).
		WithDetail("reason", reason)
}

func NewForbiddenError(reason string) *AppError {
	return New(ErrCodeForbidden, fmt.Sprintf("Forbidden: %s", reason)).
		WithDetail("reason", reason)
}

func NewInvalidAmountError(amount int64) *AppError {
	return New(ErrCodeInvalidAmount, fmt.Sprintf("Amount must be positive, got %d", amount)).
		WithDetail("amount", amount)
}

func NewInsufficientPointsError(required, balance int64) *AppError {
	return New(ErrCodeInsufficientPoints, fmt.Sprintf("Not enough points: need %d, have %d", required, balance)).
		WithDetail("required", required).
		WithDetail("balance", balance)
}

func NewUnknownRewardError(rewardID int64) *AppError {
	return New(ErrCodeUnknownReward, fmt.Sprintf("Reward %d is not available", rewardID)).
		WithDetail("reward_id", rewardID)
}

func NewInvalidTimeRangeError(window string) *AppError {
	return New(ErrCodeInvalidTimeRange, fmt.Sprintf("Invalid time range: %q (use 24h, 7d or 30d)", window)).
		WithDetail("time_range", window)
}

func NewUnsupportedLinkError(link string) *AppError {
	return New(ErrCodeUnsupportedLink, "Link is not from a supported platform").
		WithDetail("url", link)
}

func NewStorageError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeStorageUnavailable, fmt.Sprintf("Storage operation failed: %s", operation)).
		WithDetail("operation", operation)
}

func NewAnalyticsTimeoutError(query string, err error) *AppError {
	return Wrap(err, ErrCodeAnalyticsTimeout, fmt.Sprintf("Analytics query timed out: %s", query)).
		WithDetail("query", query)
}

func NewCacheError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeCacheError, fmt.Sprintf("Cache operation failed: %s", operation)).
		WithDetail("operation", operation)
}

func NewTelegramAPIError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeTelegramAPI, fmt.Sprintf("Telegram API operation failed: %s", operation)).
		WithDetail("operation", operation)
}

func NewRateLimitError(retryAfter time.Duration) *AppError {
	return New(ErrCodeRateLimit, "Rate limit exceeded").
		WithDetail("retry_after", retryAfter.String())
}

func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError unwraps err to the first AppError in its chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if err != nil && stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the code of the first AppError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ""
}
