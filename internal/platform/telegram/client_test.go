package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler func(method string, body map[string]interface{}) (int, string)) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		method := r.URL.Path[len("/botTOKEN/"):]
		status, resp := handler(method, body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(resp))
	}))
	t.Cleanup(srv.Close)
	return NewClient("TOKEN", srv.URL)
}

func TestSendMessage(t *testing.T) {
	var gotMethod string
	var gotBody map[string]interface{}
	c := newTestServer(t, func(method string, body map[string]interface{}) (int, string) {
		gotMethod, gotBody = method, body
		return 200, `{"ok":true,"result":{"message_id":7,"chat":{"id":42,"type":"private"},"text":"hi"}}`
	})

	markup := &InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{{{Text: "Buy", CallbackData: "buy:50"}}}}
	msg, err := c.SendMessage(context.Background(), 42, "hi", markup)
	require.NoError(t, err)

	assert.Equal(t, "sendMessage", gotMethod)
	assert.Equal(t, float64(42), gotBody["chat_id"])
	assert.Equal(t, ParseModeHTML, gotBody["parse_mode"])
	assert.NotNil(t, gotBody["reply_markup"])
	assert.Equal(t, int64(7), msg.MessageID)
}

func TestSetWebhook_SendsSecretAndAllowedUpdates(t *testing.T) {
	var gotBody map[string]interface{}
	c := newTestServer(t, func(method string, body map[string]interface{}) (int, string) {
		gotBody = body
		return 200, `{"ok":true,"result":true}`
	})

	require.NoError(t, c.SetWebhook(context.Background(), "https://bot.example.com/webhook", "s3cret"))
	assert.Equal(t, "s3cret", gotBody["secret_token"])
	assert.Equal(t, []interface{}{"message", "callback_query"}, gotBody["allowed_updates"])
}

func TestCall_RateLimited(t *testing.T) {
	c := newTestServer(t, func(string, map[string]interface{}) (int, string) {
		return 429, `{"ok":false,"error_code":429,"description":"Too Many Requests: retry after 3","parameters":{"retry_after":3}}`
	})

	err := c.AnswerCallbackQuery(context.Background(), "cb1", "ok", false)
	var rps *RPSError
	require.True(t, errors.As(err, &rps))
	assert.Equal(t, 3*time.Second, rps.RetryAfter)
}

func TestCall_APIError(t *testing.T) {
	c := newTestServer(t, func(string, map[string]interface{}) (int, string) {
		return 400, `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`
	})

	_, err := c.SendMessage(context.Background(), 1, "x", nil)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 400, apiErr.Code)
	assert.Equal(t, "sendMessage", apiErr.Method)
}

func TestRegisterWebhook_ReadsBackInfo(t *testing.T) {
	var calls []string
	c := newTestServer(t, func(method string, _ map[string]interface{}) (int, string) {
		calls = append(calls, method)
		if method == "getWebhookInfo" {
			return 200, `{"ok":true,"result":{"url":"https://bot.example.com/webhook","pending_update_count":4,"last_error_message":"Connection refused"}}`
		}
		return 200, `{"ok":true,"result":true}`
	})

	info, err := c.RegisterWebhook(context.Background(), "https://bot.example.com/webhook", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, []string{"setWebhook", "getWebhookInfo"}, calls)
	assert.Equal(t, 4, info.PendingUpdateCount)
	assert.Equal(t, "Connection refused", info.LastErrorMessage)
}

func TestRegisterWebhook_URLMismatch(t *testing.T) {
	c := newTestServer(t, func(method string, _ map[string]interface{}) (int, string) {
		if method == "getWebhookInfo" {
			return 200, `{"ok":true,"result":{"url":"https://old.example.com/webhook"}}`
		}
		return 200, `{"ok":true,"result":true}`
	})

	info, err := c.RegisterWebhook(context.Background(), "https://bot.example.com/webhook", "s3cret")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "old.example.com")
	assert.Equal(t, "https://old.example.com/webhook", info.URL)
}

func TestGetWebhookInfo(t *testing.T) {
	c := newTestServer(t, func(string, map[string]interface{}) (int, string) {
		return 200, `{"ok":true,"result":{"url":"https://bot.example.com/webhook","pending_update_count":2}}`
	})

	info, err := c.GetWebhookInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, info.PendingUpdateCount)
}
