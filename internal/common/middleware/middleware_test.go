package middleware

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	initdata "github.com/telegram-mini-apps/init-data-golang"

	"videobot-backend/internal/common/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err    *errors.AppError
		status int
	}{
		{errors.NewInvalidAmountError(0), http.StatusBadRequest},
		{errors.NewInvalidTimeRangeError("1y"), http.StatusBadRequest},
		{errors.NewUnknownRewardError(9), http.StatusNotFound},
		{errors.NewInsufficientPointsError(50, 10), http.StatusConflict},
		{errors.NewAnalyticsTimeoutError("download_stats", nil), http.StatusGatewayTimeout},
		{errors.NewStorageError("credit", stderrors.New("down")), http.StatusServiceUnavailable},
		{errors.NewForbiddenError("admin"), http.StatusForbidden},
		{errors.New(errors.ErrCodeInternal, "boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Code), func(t *testing.T) {
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestHandleErrorWrapper(t *testing.T) {
	wrap := HandleErrorWrapper()
	r := gin.New()
	r.Use(RequestID())
	r.GET("/app", wrap(func(c *gin.Context) {
		_ = c.Error(errors.NewUnknownRewardError(42))
	}))
	r.GET("/plain", wrap(func(c *gin.Context) {
		_ = c.Error(stderrors.New("unexpected"))
	}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
		RequestID string `json:"request_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "UNKNOWN_REWARD", body.Error.Code)
	assert.NotEmpty(t, body.RequestID)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/plain", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	withUser := func(id int64) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set("user", initdata.User{ID: id})
			c.Set("user_id", id)
			c.Next()
		}
	}
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }

	r := gin.New()
	r.GET("/admin", withUser(1), RequireAdmin([]int64{1, 2}), ok)
	r.GET("/user", withUser(3), RequireAdmin([]int64{1, 2}), ok)
	r.GET("/anon", RequireAdmin([]int64{1}), ok)

	for path, status := range map[string]int{
		"/admin": http.StatusNoContent,
		"/user":  http.StatusForbidden,
		"/anon":  http.StatusUnauthorized,
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, status, w.Code, path)
	}
}

func TestWebhookSecret(t *testing.T) {
	r := gin.New()
	r.POST("/hook", WebhookSecret("s3cret"), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/hook", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/hook", nil)
	req.Header.Set(webhookSecretHeader, "s3cret")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebhookSecret_EmptySecretRejectsAll(t *testing.T) {
	r := gin.New()
	r.POST("/hook", WebhookSecret(""), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/hook", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/hook", nil)
	req.Header.Set(webhookSecretHeader, "")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/hook", nil)
	req.Header.Set(webhookSecretHeader, "anything")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestTelegramInitDataMiddleware_RejectsMissingAndForged(t *testing.T) {
	r := gin.New()
	r.GET("/me", TelegramInitDataMiddleware("123:token", 0), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(initDataHeader, "user=%7B%22id%22%3A1%7D&auth_date=1700000000&hash=deadbeef")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
