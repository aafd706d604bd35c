package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	apperrors "videobot-backend/internal/common/errors"
	"videobot-backend/internal/common/logger"
	"videobot-backend/internal/common/validation"
	"videobot-backend/internal/features/bot/models"
	syslogmodels "videobot-backend/internal/features/syslog/models"
	usermodels "videobot-backend/internal/features/user/models"
)

type Options struct {
	PointsPerDownload  int64
	MaxFileSizeMB      int
	RateLimitPerMinute int
}

// Dispatcher turns normalized bot requests into replies. It never returns
// an error: every failure is rendered as a message in the user's language.
type Dispatcher struct {
	users     UserService
	points    PointsService
	rewards   RewardsService
	downloads DownloadService
	analytics AnalyticsService
	events    EventRecorder
	limiter   *RateLimiter
	policy    *bluemonday.Policy
	opts      Options
}

func NewDispatcher(
	users UserService,
	points PointsService,
	rewards RewardsService,
	downloads DownloadService,
	analytics AnalyticsService,
	events EventRecorder,
	opts Options,
) *Dispatcher {
	if opts.MaxFileSizeMB <= 0 {
		opts.MaxFileSizeMB = 50
	}
	return &Dispatcher{
		users:     users,
		points:    points,
		rewards:   rewards,
		downloads: downloads,
		analytics: analytics,
		events:    events,
		limiter:   NewRateLimiter(opts.RateLimitPerMinute),
		policy:    bluemonday.StrictPolicy(),
		opts:      opts,
	}
}

// Limiter exposes the per-user limiter so the maintenance worker can sweep it.
func (d *Dispatcher) Limiter() *RateLimiter {
	return d.limiter
}

type session struct {
	req      *models.Request
	lang     string
	isAdmin  bool
	settings *usermodels.UserSettings
}

func (s *session) text(key string, args ...interface{}) string {
	return models.Text(s.lang, key, args...)
}

func (d *Dispatcher) Dispatch(ctx context.Context, req *models.Request) *models.Reply {
	if !d.limiter.Allow(req.UserID) {
		logger.Warn().Int64("user_id", req.UserID).Msg("Bot update rate limited")
		s := &session{req: req, lang: guessLanguage(req.LanguageCode)}
		return d.notice(s, s.text(models.MsgRateLimited))
	}

	if _, err := d.users.GetOrCreate(ctx, req.UserID, req.Username, req.FirstName, req.LastName, req.LanguageCode); err != nil {
		return d.fail(ctx, &session{req: req, lang: guessLanguage(req.LanguageCode)}, err)
	}
	settings, err := d.users.GetSettings(ctx, req.UserID)
	if err != nil {
		return d.fail(ctx, &session{req: req, lang: guessLanguage(req.LanguageCode)}, err)
	}

	s := &session{
		req:      req,
		lang:     settings.Language,
		isAdmin:  d.users.IsAdmin(req.UserID),
		settings: settings,
	}

	var reply *models.Reply
	switch req.Kind {
	case models.KindCommand:
		reply, err = d.command(ctx, s)
	case models.KindCallback:
		reply, err = d.callback(ctx, s)
	default:
		reply, err = d.message(ctx, s)
	}
	if err != nil {
		return d.fail(ctx, s, err)
	}
	return reply
}

// notice shows text as a chat message, or as an alert for button presses.
func (d *Dispatcher) notice(s *session, text string) *models.Reply {
	if s.req.Kind == models.KindCallback {
		return &models.Reply{Toast: text, Alert: true}
	}
	return &models.Reply{Text: text}
}

// fail renders err with a reason the user can act on. Unexpected errors
// are logged and written to the system log.
func (d *Dispatcher) fail(ctx context.Context, s *session, err error) *models.Reply {
	appErr, ok := apperrors.AsAppError(err)
	if ok {
		switch appErr.Code {
		case apperrors.ErrCodeUnsupportedLink:
			return d.notice(s, s.text(models.MsgUnsupportedLink))
		case apperrors.ErrCodeUnknownReward:
			return d.notice(s, s.text(models.MsgUnknownReward))
		case apperrors.ErrCodeInvalidTimeRange:
			return d.notice(s, s.text(models.MsgInvalidRange, appErr.Details["time_range"]))
		case apperrors.ErrCodeForbidden:
			return d.notice(s, s.text(models.MsgAdminOnly))
		case apperrors.ErrCodeValidation, apperrors.ErrCodeInvalidAmount:
			return d.notice(s, s.text(models.MsgInvalidSetting, d.clean(appErr.Message)))
		case apperrors.ErrCodeAnalyticsTimeout:
			d.logFailure(ctx, s, err)
			return d.notice(s, s.text(models.MsgTimeout))
		case apperrors.ErrCodeStorageUnavailable, apperrors.ErrCodeCacheError:
			d.logFailure(ctx, s, err)
			return d.notice(s, s.text(models.MsgServiceDown))
		}
	}
	d.logFailure(ctx, s, err)
	return d.notice(s, s.text(models.MsgGenericError))
}

func (d *Dispatcher) logFailure(ctx context.Context, s *session, err error) {
	what := s.req.Command
	if s.req.Kind == models.KindCallback {
		what = s.req.CallbackData
	} else if s.req.Kind == models.KindText {
		what = "link"
	}

	logger.Error().
		Err(err).
		Int64("user_id", s.req.UserID).
		Str("kind", string(s.req.Kind)).
		Str("action", what).
		Msg("Bot request failed")

	if d.events != nil {
		d.events.RecordUser(ctx, syslogmodels.EventError, s.req.UserID, fmt.Sprintf("bot %s %s: %v", s.req.Kind, what, err))
	}
}

// clean makes user-controlled text safe to embed in an HTML message.
func (d *Dispatcher) clean(text string) string {
	return d.policy.Sanitize(text)
}

func (d *Dispatcher) displayName(req *models.Request) string {
	name := strings.TrimSpace(req.FirstName + " " + req.LastName)
	if name == "" {
		name = req.Username
	}
	return d.clean(name)
}

func guessLanguage(code string) string {
	if strings.HasPrefix(strings.ToLower(code), validation.LanguageEnglish) {
		return validation.LanguageEnglish
	}
	return validation.LanguageArabic
}
