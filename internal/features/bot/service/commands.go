package service

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	apperrors "videobot-backend/internal/common/errors"
	"videobot-backend/internal/common/logger"
	"videobot-backend/internal/common/validation"
	analyticsmodels "videobot-backend/internal/features/analytics/models"
	"videobot-backend/internal/features/bot/models"
	downloadmodels "videobot-backend/internal/features/downloads/models"
	downloadservice "videobot-backend/internal/features/downloads/service"
	pointsmodels "videobot-backend/internal/features/points/models"
	rewardmodels "videobot-backend/internal/features/rewards/models"
	syslogmodels "videobot-backend/internal/features/syslog/models"
	usermodels "videobot-backend/internal/features/user/models"
)

const (
	historyLimit      = 10
	historyURLRunes   = 30
	extraStorageMB    = 100
	dateLayout        = "2006-01-02"
	dateTimeLayout    = "2006-01-02 15:04 UTC"
	historyDateLayout = "02/01/2006 15:04"
	errorTimeLayout   = "02/01 15:04"
	recentErrorsShown = 3
)

func (d *Dispatcher) command(ctx context.Context, s *session) (*models.Reply, error) {
	switch s.req.Command {
	case "start":
		return &models.Reply{Text: s.text(models.MsgWelcome, d.displayName(s.req), d.opts.PointsPerDownload)}, nil
	case "help":
		return &models.Reply{Text: s.text(models.MsgHelp)}, nil
	case "points":
		return d.balance(ctx, s)
	case "daily":
		return d.dailyBonus(ctx, s)
	case "rewards":
		return d.catalog(ctx, s)
	case "myrewards":
		return d.activeRewards(ctx, s)
	case "history":
		return d.history(ctx, s)
	case "settings":
		return d.settingsView(s, ""), nil
	case "quality":
		if len(s.req.Args) != 1 {
			return &models.Reply{Text: s.text(models.MsgQualityUsage)}, nil
		}
		return d.setQuality(ctx, s, s.req.Args[0])
	case "maxsize":
		return d.setMaxSize(ctx, s)
	case "language":
		if len(s.req.Args) != 1 {
			return &models.Reply{Text: s.text(models.MsgLanguageUsage)}, nil
		}
		return d.setLanguage(ctx, s, s.req.Args[0])
	case "notifications":
		if len(s.req.Args) != 1 {
			return &models.Reply{Text: s.text(models.MsgNotifyUsage)}, nil
		}
		return d.setNotifications(ctx, s, s.req.Args[0])
	case "stats":
		return d.stats(ctx, s)
	}
	return &models.Reply{Text: s.text(models.MsgUnknownCommand)}, nil
}

func (d *Dispatcher) balance(ctx context.Context, s *session) (*models.Reply, error) {
	p, err := d.points.GetBalance(ctx, s.req.UserID)
	if err != nil {
		return nil, err
	}
	return &models.Reply{Text: s.text(models.MsgBalance, p.Points, p.StreakDays)}, nil
}

func (d *Dispatcher) dailyBonus(ctx context.Context, s *session) (*models.Reply, error) {
	res, err := d.points.DailyBonus(ctx, s.req.UserID)
	if err != nil {
		return nil, err
	}
	if res.Status == pointsmodels.BonusStatusAlreadyClaimed {
		return &models.Reply{Text: s.text(models.MsgDailyAlready, res.NextBonus.Format(dateLayout))}, nil
	}

	d.record(ctx, syslogmodels.EventDailyBonus, s.req.UserID,
		"daily bonus +"+strconv.FormatInt(res.PointsAwarded, 10)+", streak "+strconv.Itoa(res.Streak))
	return &models.Reply{Text: s.text(models.MsgDailyBonus, res.PointsAwarded, res.Streak, res.Balance)}, nil
}

func (d *Dispatcher) catalog(ctx context.Context, s *session) (*models.Reply, error) {
	p, err := d.points.GetBalance(ctx, s.req.UserID)
	if err != nil {
		return nil, err
	}

	catalog := d.rewards.Catalog()
	var b strings.Builder
	b.WriteString(s.text(models.MsgRewardsHeader, p.Points))
	for _, r := range catalog {
		b.WriteString(s.text(models.MsgRewardLine, r.Cost(), r.Name, r.DurationDays))
	}
	return &models.Reply{Text: b.String(), Keyboard: rewardsKeyboard(s, catalog)}, nil
}

func (d *Dispatcher) activeRewards(ctx context.Context, s *session) (*models.Reply, error) {
	active, err := d.rewards.ListActive(ctx, s.req.UserID)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return &models.Reply{Text: s.text(models.MsgNoActive)}, nil
	}

	var b strings.Builder
	b.WriteString(s.text(models.MsgActiveHeader))
	for _, r := range active {
		b.WriteString(s.text(models.MsgActiveLine, r.Name, r.ExpiresAt.UTC().Format(dateTimeLayout)))
	}
	return &models.Reply{Text: b.String()}, nil
}

func (d *Dispatcher) history(ctx context.Context, s *session) (*models.Reply, error) {
	downloads, err := d.downloads.History(ctx, s.req.UserID, historyLimit)
	if err != nil {
		return nil, err
	}
	if len(downloads) == 0 {
		return &models.Reply{Text: s.text(models.MsgHistoryEmpty)}, nil
	}

	var b strings.Builder
	b.WriteString(s.text(models.MsgHistoryHeader, len(downloads)))
	for i, dl := range downloads {
		b.WriteString(s.text(models.MsgHistoryLine,
			i+1,
			statusIcon(dl.Status),
			d.clean(dl.Platform),
			dl.CreatedAt.UTC().Format(historyDateLayout),
			analyticsmodels.FormatBytes(float64(dl.SizeBytes)),
			d.clean(shorten(dl.URL, historyURLRunes)),
		))
	}
	return &models.Reply{Text: b.String()}, nil
}

func statusIcon(status downloadmodels.Status) string {
	switch status {
	case downloadmodels.StatusCompleted:
		return "✅"
	case downloadmodels.StatusPending:
		return "⏳"
	}
	return "❌"
}

func shorten(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

func (d *Dispatcher) settingsView(s *session, toast string) *models.Reply {
	st := s.settings
	notify := s.text(models.MsgOff)
	if st.NotificationsEnabled {
		notify = s.text(models.MsgOn)
	}
	return &models.Reply{
		Text:     s.text(models.MsgSettings, st.DefaultQuality, st.MaxFileSizeMB, st.Language, notify),
		Keyboard: settingsKeyboard(s),
		Toast:    toast,
	}
}

func (d *Dispatcher) update(ctx context.Context, s *session, upd usermodels.SettingsUpdate) error {
	settings, err := d.users.UpdateSettings(ctx, s.req.UserID, upd)
	if err != nil {
		return err
	}
	s.settings = settings
	s.lang = settings.Language
	return nil
}

func (d *Dispatcher) setQuality(ctx context.Context, s *session, quality string) (*models.Reply, error) {
	quality = strings.ToLower(quality)
	if validation.ValidateQuality(quality) != nil {
		return d.notice(s, s.text(models.MsgQualityUsage)), nil
	}
	if err := d.update(ctx, s, usermodels.SettingsUpdate{DefaultQuality: &quality}); err != nil {
		return nil, err
	}
	return d.settingsChanged(s, s.text(models.MsgQualitySet, quality)), nil
}

func (d *Dispatcher) setMaxSize(ctx context.Context, s *session) (*models.Reply, error) {
	usage := &models.Reply{Text: s.text(models.MsgMaxSizeUsage, d.opts.MaxFileSizeMB)}
	if len(s.req.Args) != 1 {
		return usage, nil
	}
	mb, err := strconv.Atoi(strings.TrimSuffix(strings.ToUpper(s.req.Args[0]), "MB"))
	if err != nil || validation.ValidateMaxFileSize(mb, d.opts.MaxFileSizeMB) != nil {
		return usage, nil
	}
	if err := d.update(ctx, s, usermodels.SettingsUpdate{MaxFileSizeMB: &mb}); err != nil {
		return nil, err
	}
	return &models.Reply{Text: s.text(models.MsgMaxSizeSet, mb)}, nil
}

func (d *Dispatcher) setLanguage(ctx context.Context, s *session, lang string) (*models.Reply, error) {
	lang = strings.ToLower(lang)
	if validation.ValidateLanguage(lang) != nil {
		return d.notice(s, s.text(models.MsgLanguageUsage)), nil
	}
	if err := d.update(ctx, s, usermodels.SettingsUpdate{Language: &lang}); err != nil {
		return nil, err
	}
	return d.settingsChanged(s, s.text(models.MsgLanguageSet)), nil
}

func (d *Dispatcher) setNotifications(ctx context.Context, s *session, value string) (*models.Reply, error) {
	var enabled bool
	switch strings.ToLower(value) {
	case "on":
		enabled = true
	case "off":
		enabled = false
	default:
		return d.notice(s, s.text(models.MsgNotifyUsage)), nil
	}
	if err := d.update(ctx, s, usermodels.SettingsUpdate{NotificationsEnabled: &enabled}); err != nil {
		return nil, err
	}

	state := s.text(models.MsgOff)
	if enabled {
		state = s.text(models.MsgOn)
	}
	return d.settingsChanged(s, s.text(models.MsgNotifySet, state)), nil
}

// settingsChanged confirms a change: button presses get the refreshed
// settings view, commands get a one-line confirmation.
func (d *Dispatcher) settingsChanged(s *session, confirmation string) *models.Reply {
	if s.req.Kind == models.KindCallback {
		return d.settingsView(s, confirmation)
	}
	return &models.Reply{Text: confirmation}
}

func (d *Dispatcher) stats(ctx context.Context, s *session) (*models.Reply, error) {
	if !s.isAdmin {
		return nil, apperrors.NewForbiddenError("admin only")
	}

	window := analyticsmodels.DefaultWindow
	if len(s.req.Args) > 0 {
		window = strings.ToLower(s.req.Args[0])
	}
	if _, ok := analyticsmodels.ParseWindow(window); !ok {
		return nil, apperrors.NewInvalidTimeRangeError(d.clean(window))
	}

	dl, err := d.analytics.DownloadStats(ctx, window)
	if err != nil {
		return nil, err
	}
	dist, err := d.analytics.PlatformDistribution(ctx, window)
	if err != nil {
		return nil, err
	}
	health, err := d.analytics.SystemHealth(ctx)
	if err != nil {
		return nil, err
	}

	var platforms strings.Builder
	for _, p := range dist.Platforms {
		platforms.WriteString(s.text(models.MsgPlatformLine, p.Platform, p.Downloads, p.Percentage))
	}

	text := s.text(models.MsgStats,
		window,
		dl.TotalDownloads, dl.CompletedDownloads,
		dl.SuccessRate,
		dl.TotalSize, dl.AverageSize,
		platforms.String(),
		health.ActiveUsers, health.TotalUsers,
		health.ErrorRate,
		health.TotalStorage,
	)
	return &models.Reply{Text: text + d.recentErrors(ctx, s)}, nil
}

// recentErrors lists the newest error events for the admin report. The
// report is still sent when the system log cannot be read.
func (d *Dispatcher) recentErrors(ctx context.Context, s *session) string {
	if d.events == nil {
		return ""
	}
	entries, err := d.events.Recent(ctx, syslogmodels.EventError, recentErrorsShown)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to load recent errors for stats")
		return ""
	}
	if len(entries) == 0 {
		return ""
	}

	var lines strings.Builder
	for _, e := range entries {
		lines.WriteString(s.text(models.MsgErrorLine, e.CreatedAt.UTC().Format(errorTimeLayout), d.clean(e.Description)))
	}
	return s.text(models.MsgRecentErrors, lines.String())
}

// message handles plain text: links become download requests.
func (d *Dispatcher) message(ctx context.Context, s *session) (*models.Reply, error) {
	if !validation.LooksLikeURL(s.req.Text) {
		return &models.Reply{Text: s.text(models.MsgNotALink)}, nil
	}

	req := downloadservice.DownloadRequest{
		UserID:        s.req.UserID,
		ChatID:        s.req.ChatID,
		URL:           s.req.Text,
		Quality:       s.settings.DefaultQuality,
		MaxFileSizeMB: s.settings.MaxFileSizeMB,
	}

	d.applyPerks(ctx, &req)

	job, err := d.downloads.RequestDownload(ctx, req)
	if err != nil {
		return nil, err
	}
	return &models.Reply{Text: s.text(models.MsgDownloadQueued, job.Platform, job.Quality)}, nil
}

// applyPerks adjusts a download request for the user's active rewards.
// Perks are a bonus: a lookup failure leaves the request as it is.
func (d *Dispatcher) applyPerks(ctx context.Context, req *downloadservice.DownloadRequest) {
	has := func(rewardID int64) bool {
		ok, err := d.rewards.HasActive(ctx, req.UserID, rewardID)
		if err != nil {
			logger.Warn().Err(err).Int64("user_id", req.UserID).Int64("reward_id", rewardID).Msg("Failed to check reward for download")
			return false
		}
		return ok
	}

	if has(rewardmodels.RewardVIPQuality) && (req.Quality == "" || req.Quality == validation.QualityBest) {
		req.Quality = validation.Quality4K
	}
	if has(rewardmodels.RewardNoQueue) {
		req.Priority = true
	}
	if has(rewardmodels.RewardExtraStorage) {
		req.MaxFileSizeMB += extraStorageMB
	}
}

func (d *Dispatcher) record(ctx context.Context, event syslogmodels.EventType, userID int64, description string) {
	if d.events != nil {
		d.events.RecordUser(ctx, event, userID, description)
	}
}
