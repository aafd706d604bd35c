package service

import (
	"context"
	"fmt"
	"strconv"

	"videobot-backend/internal/common/logger"
	"videobot-backend/internal/common/validation"
	"videobot-backend/internal/features/bot/models"
	rewardmodels "videobot-backend/internal/features/rewards/models"
	syslogmodels "videobot-backend/internal/features/syslog/models"
	"videobot-backend/internal/platform/telegram"
)

const (
	actionBuy     = "buy"
	actionQuality = "quality"
	actionLang    = "lang"
	actionNotify  = "notify"
)

func (d *Dispatcher) callback(ctx context.Context, s *session) (*models.Reply, error) {
	action, value := models.SplitCallback(s.req.CallbackData)
	switch action {
	case actionBuy:
		return d.buy(ctx, s, value)
	case actionQuality:
		return d.setQuality(ctx, s, value)
	case actionLang:
		return d.setLanguage(ctx, s, value)
	case actionNotify:
		return d.setNotifications(ctx, s, value)
	}

	logger.Warn().Str("data", s.req.CallbackData).Int64("user_id", s.req.UserID).Msg("Unknown callback action")
	return d.notice(s, s.text(models.MsgStaleButton)), nil
}

func (d *Dispatcher) buy(ctx context.Context, s *session, value string) (*models.Reply, error) {
	rewardID, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return d.notice(s, s.text(models.MsgStaleButton)), nil
	}

	res, err := d.rewards.Claim(ctx, s.req.UserID, rewardID)
	if err != nil {
		return nil, err
	}

	if !res.Claimed() {
		return d.notice(s, s.text(models.MsgInsufficient, res.Balance, res.Reward.Cost(), res.Shortfall)), nil
	}

	d.record(ctx, syslogmodels.EventRewardClaimed, s.req.UserID,
		fmt.Sprintf("claimed reward %d (%s)", res.Reward.ID, res.Reward.Name))

	return &models.Reply{
		Text:  s.text(models.MsgClaimed, res.Reward.Name, res.ExpiresAt.UTC().Format(dateTimeLayout), res.RemainingPoints),
		Toast: s.text(models.MsgClaimedToast),
	}, nil
}

func rewardsKeyboard(s *session, catalog []rewardmodels.Reward) *telegram.InlineKeyboardMarkup {
	rows := make([][]telegram.InlineKeyboardButton, 0, len(catalog))
	for _, r := range catalog {
		rows = append(rows, []telegram.InlineKeyboardButton{{
			Text:         s.text(models.MsgBuyButton, r.Name, r.Cost()),
			CallbackData: fmt.Sprintf("%s:%d", actionBuy, r.ID),
		}})
	}
	return &telegram.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func settingsKeyboard(s *session) *telegram.InlineKeyboardMarkup {
	st := s.settings
	button := func(label string, selected bool, action, value string) telegram.InlineKeyboardButton {
		if selected {
			label = "✅ " + label
		}
		return telegram.InlineKeyboardButton{Text: label, CallbackData: action + ":" + value}
	}

	return &telegram.InlineKeyboardMarkup{InlineKeyboard: [][]telegram.InlineKeyboardButton{
		{
			button(s.text(models.MsgQualityBest), st.DefaultQuality == validation.QualityBest, actionQuality, validation.QualityBest),
			button(s.text(models.MsgQualityMedium), st.DefaultQuality == validation.QualityMedium, actionQuality, validation.QualityMedium),
			button(s.text(models.MsgQualityLow), st.DefaultQuality == validation.QualityLow, actionQuality, validation.QualityLow),
		},
		{
			button(s.text(models.MsgLanguageButtonAR), st.Language == validation.LanguageArabic, actionLang, validation.LanguageArabic),
			button(s.text(models.MsgLanguageButtonEN), st.Language == validation.LanguageEnglish, actionLang, validation.LanguageEnglish),
		},
		{
			button(s.text(models.MsgNotifyButtonOn), st.NotificationsEnabled, actionNotify, "on"),
			button(s.text(models.MsgNotifyButtonOff), !st.NotificationsEnabled, actionNotify, "off"),
		},
	}}
}
