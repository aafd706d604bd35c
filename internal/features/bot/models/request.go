package models

import (
	"strings"

	"videobot-backend/internal/platform/telegram"
)

type Kind string

const (
	KindCommand  Kind = "command"
	KindText     Kind = "text"
	KindCallback Kind = "callback"
)

// Request is a Telegram update reduced to what the dispatcher needs.
type Request struct {
	UserID       int64
	ChatID       int64
	Username     string
	FirstName    string
	LastName     string
	LanguageCode string

	Kind    Kind
	Command string
	Args    []string
	Text    string

	CallbackID   string
	CallbackData string
}

// Reply is what the bot answers with. Toast is shown as the callback
// answer; Text, when set, is sent to the chat.
type Reply struct {
	Text     string
	Keyboard *telegram.InlineKeyboardMarkup
	Toast    string
	Alert    bool
}

// Normalize converts an update into a Request. ok is false for updates
// the bot ignores (edited messages, channel posts, messages from bots).
func Normalize(u telegram.Update) (*Request, bool) {
	switch {
	case u.CallbackQuery != nil:
		cq := u.CallbackQuery
		if cq.From.IsBot {
			return nil, false
		}
		req := requestFrom(cq.From)
		req.Kind = KindCallback
		req.ChatID = cq.From.ID
		if cq.Message != nil {
			req.ChatID = cq.Message.Chat.ID
		}
		req.CallbackID = cq.ID
		req.CallbackData = cq.Data
		return req, true

	case u.Message != nil && u.Message.From != nil:
		msg := u.Message
		if msg.From.IsBot {
			return nil, false
		}
		text := strings.TrimSpace(msg.Text)
		if text == "" {
			return nil, false
		}
		req := requestFrom(*msg.From)
		req.ChatID = msg.Chat.ID
		req.Text = text
		if strings.HasPrefix(text, "/") {
			fields := strings.Fields(text)
			req.Kind = KindCommand
			req.Command = commandName(fields[0])
			req.Args = fields[1:]
		} else {
			req.Kind = KindText
		}
		return req, true
	}
	return nil, false
}

func requestFrom(u telegram.User) *Request {
	return &Request{
		UserID:       u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		LanguageCode: u.LanguageCode,
	}
}

// commandName strips the slash and a trailing @botname.
func commandName(token string) string {
	name := strings.TrimPrefix(token, "/")
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	return strings.ToLower(name)
}

// SplitCallback splits "action:value" callback data.
func SplitCallback(data string) (action, value string) {
	action, value, _ = strings.Cut(data, ":")
	return action, value
}
