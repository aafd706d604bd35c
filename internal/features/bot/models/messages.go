package models

import "fmt"

// Message keys.
const (
	MsgWelcome          = "welcome"
	MsgHelp             = "help"
	MsgBalance          = "balance"
	MsgDailyBonus       = "daily_bonus"
	MsgDailyAlready     = "daily_already"
	MsgRewardsHeader    = "rewards_header"
	MsgRewardLine       = "reward_line"
	MsgBuyButton        = "buy_button"
	MsgActiveHeader     = "active_header"
	MsgActiveLine       = "active_line"
	MsgNoActive         = "no_active"
	MsgClaimed          = "claimed"
	MsgClaimedToast     = "claimed_toast"
	MsgInsufficient     = "insufficient"
	MsgUnknownReward    = "unknown_reward"
	MsgHistoryEmpty     = "history_empty"
	MsgHistoryHeader    = "history_header"
	MsgHistoryLine      = "history_line"
	MsgSettings         = "settings"
	MsgOn               = "on"
	MsgOff              = "off"
	MsgQualitySet       = "quality_set"
	MsgQualityUsage     = "quality_usage"
	MsgMaxSizeSet       = "maxsize_set"
	MsgMaxSizeUsage     = "maxsize_usage"
	MsgLanguageSet      = "language_set"
	MsgLanguageUsage    = "language_usage"
	MsgNotifySet        = "notify_set"
	MsgNotifyUsage      = "notify_usage"
	MsgInvalidSetting   = "invalid_setting"
	MsgUnsupportedLink  = "unsupported_link"
	MsgDownloadQueued   = "download_queued"
	MsgNotALink         = "not_a_link"
	MsgUnknownCommand   = "unknown_command"
	MsgAdminOnly        = "admin_only"
	MsgInvalidRange     = "invalid_range"
	MsgStats            = "stats"
	MsgPlatformLine     = "platform_line"
	MsgRecentErrors     = "recent_errors"
	MsgErrorLine        = "error_line"
	MsgRateLimited      = "rate_limited"
	MsgServiceDown      = "service_down"
	MsgTimeout          = "timeout"
	MsgGenericError     = "generic_error"
	MsgStaleButton      = "stale_button"
	MsgDownloadDone     = "download_done"
	MsgDownloadFailed   = "download_failed"
	MsgQualityBest      = "quality_best"
	MsgQualityMedium    = "quality_medium"
	MsgQualityLow       = "quality_low"
	MsgLanguageButtonAR = "language_ar"
	MsgLanguageButtonEN = "language_en"
	MsgNotifyButtonOn   = "notify_on_button"
	MsgNotifyButtonOff  = "notify_off_button"
)

var messages = map[string]map[string]string{
	"en": {
		MsgWelcome: "🎬 <b>Welcome, %s!</b>\n\n" +
			"Send me a video link from YouTube, TikTok, Instagram, Twitter/X or Facebook and I'll download it.\n" +
			"Every completed download earns <b>%d points</b>. Spend them on /rewards.\n\n" +
			"/help lists all commands.",
		MsgHelp: "🛠 <b>Commands</b>\n\n" +
			"📥 Send a link to download a video\n" +
			"/points - your balance\n" +
			"/daily - claim the daily bonus\n" +
			"/rewards - rewards you can buy\n" +
			"/myrewards - your active rewards\n" +
			"/history - your last downloads\n" +
			"/settings - your preferences\n" +
			"/quality best|medium|low\n" +
			"/maxsize &lt;MB&gt;\n" +
			"/language ar|en\n" +
			"/notifications on|off",
		MsgBalance:       "💰 <b>Your points:</b> %d\n🔥 Streak: %d days",
		MsgDailyBonus:    "🎁 Daily bonus: <b>+%d points</b>\n🔥 Streak: %d days\n💰 Balance: %d",
		MsgDailyAlready:  "⏳ You already claimed today's bonus. Next bonus on %s.",
		MsgRewardsHeader: "🎁 <b>Rewards</b>\n━━━━━━━━━━━━━━\nYour balance: %d points\n",
		MsgRewardLine:    "\n💰 <b>%d points</b> - %s (%d days)",
		MsgBuyButton:     "Buy %s (%d)",
		MsgActiveHeader:  "✨ <b>Your active rewards:</b>",
		MsgActiveLine:    "\n- %s (expires %s)",
		MsgNoActive:      "You have no active rewards. See /rewards.",
		MsgClaimed:       "🎉 <b>%s</b> activated!\n📅 Expires: %s\n💎 Remaining points: %d",
		MsgClaimedToast:  "🎉 Reward activated",
		MsgInsufficient:  "Not enough points! You have %d of %d (%d more needed).",
		MsgUnknownReward: "⚠️ This reward is not available.",
		MsgHistoryEmpty:  "📭 You have no downloads yet.",
		MsgHistoryHeader: "⏳ <b>Your last %d downloads:</b>\n━━━━━━━━━━━━━━\n",
		MsgHistoryLine:   "%d. %s <b>%s</b>\n   📅 %s | 📦 %s\n   🔗 %s\n\n",
		MsgSettings: "⚙️ <b>Settings</b>\n━━━━━━━━━━━━━━\n" +
			"📊 <b>Quality:</b> %s\n📏 <b>Max size:</b> %dMB\n🌐 <b>Language:</b> %s\n🔔 <b>Notifications:</b> %s",
		MsgOn:              "on",
		MsgOff:             "off",
		MsgQualitySet:      "✅ Default quality set to %s",
		MsgQualityUsage:    "Usage: /quality best|medium|low",
		MsgMaxSizeSet:      "✅ Max file size set to %dMB",
		MsgMaxSizeUsage:    "Usage: /maxsize &lt;1-%d&gt;",
		MsgLanguageSet:     "✅ Language set to English",
		MsgLanguageUsage:   "Usage: /language ar|en",
		MsgNotifySet:       "🔔 Notifications are now %s",
		MsgNotifyUsage:     "Usage: /notifications on|off",
		MsgInvalidSetting:  "⚠️ %s",
		MsgUnsupportedLink: "❌ This link is not supported. Send a YouTube, TikTok, Instagram, Twitter/X or Facebook video link.",
		MsgDownloadQueued:  "⏳ Download queued (%s, quality %s). I'll send the video when it's ready.",
		MsgNotALink:        "Send me a video link, or use /help.",
		MsgUnknownCommand:  "Unknown command. Use /help.",
		MsgAdminOnly:       "⛔ This command is for admins only.",
		MsgInvalidRange:    "⚠️ Invalid range %q. Use 24h, 7d or 30d.",
		MsgStats: "📊 <b>Statistics (%s)</b>\n━━━━━━━━━━━━━━\n" +
			"📥 Downloads: %d (completed %d)\n✅ Success rate: %.2f%%\n📦 Total size: %s\n📐 Average size: %s\n\n" +
			"<b>Platforms:</b>%s\n\n" +
			"<b>Health:</b>\n👥 Active users (7d): %d / %d\n⚠️ Error rate: %.2f%%\n💾 Storage: %s",
		MsgPlatformLine:     "\n- %s: %d (%.2f%%)",
		MsgRecentErrors:     "\n\n<b>Recent errors:</b>%s",
		MsgErrorLine:        "\n- %s %s",
		MsgRateLimited:      "🐢 Too many requests. Please slow down.",
		MsgServiceDown:      "❌ The service is temporarily unavailable. Please try again later.",
		MsgTimeout:          "⌛ The report took too long. Please try again later.",
		MsgGenericError:     "❌ Something went wrong while processing your request.",
		MsgStaleButton:      "⚠️ This button no longer works. Please try again.",
		MsgDownloadDone:     "✅ Download finished: %s (%s)\n🎁 +%d points, balance %d",
		MsgDownloadFailed:   "❌ Download failed: %s",
		MsgQualityBest:      "Best",
		MsgQualityMedium:    "Medium (720p)",
		MsgQualityLow:       "Low (480p)",
		MsgLanguageButtonAR: "العربية",
		MsgLanguageButtonEN: "English",
		MsgNotifyButtonOn:   "🔔 On",
		MsgNotifyButtonOff:  "🔕 Off",
	},
	"ar": {
		MsgWelcome: "🎬 <b>مرحباً بك %s!</b>\n\n" +
			"أرسل رابط فيديو من YouTube أو TikTok أو Instagram أو Twitter/X أو Facebook وسأقوم بتحميله.\n" +
			"كل تحميل مكتمل يمنحك <b>%d نقطة</b>. استبدلها عبر /rewards.\n\n" +
			"/help لعرض جميع الأوامر.",
		MsgHelp: "🛠 <b>قائمة الأوامر:</b>\n\n" +
			"📥 أرسل رابطاً لتحميل الفيديو\n" +
			"/points - رصيد النقاط\n" +
			"/daily - المكافأة اليومية\n" +
			"/rewards - المكافآت المتاحة\n" +
			"/myrewards - مكافآتك النشطة\n" +
			"/history - سجل التحميلات\n" +
			"/settings - الإعدادات\n" +
			"/quality best|medium|low\n" +
			"/maxsize &lt;MB&gt;\n" +
			"/language ar|en\n" +
			"/notifications on|off",
		MsgBalance:       "💰 <b>رصيدك:</b> %d نقطة\n🔥 أيام متتالية: %d",
		MsgDailyBonus:    "🎁 المكافأة اليومية: <b>+%d نقطة</b>\n🔥 أيام متتالية: %d\n💰 الرصيد: %d",
		MsgDailyAlready:  "⏳ لقد حصلت على مكافأة اليوم بالفعل. المكافأة التالية في %s.",
		MsgRewardsHeader: "🎁 <b>نظام المكافآت:</b>\n━━━━━━━━━━━━━━\nرصيدك الحالي: %d نقطة\n",
		MsgRewardLine:    "\n💰 <b>%d نقطة</b> - %s (%d أيام)",
		MsgBuyButton:     "شراء %s (%d)",
		MsgActiveHeader:  "✨ <b>مكافآتك النشطة:</b>",
		MsgActiveLine:    "\n- %s (تنتهي في %s)",
		MsgNoActive:      "لا توجد لديك مكافآت نشطة. راجع /rewards.",
		MsgClaimed:       "🎉 تم تفعيل مكافأة <b>%s</b> بنجاح!\n📅 تنتهي في: %s\n💎 النقاط المتبقية: %d",
		MsgClaimedToast:  "🎉 تم تفعيل المكافأة",
		MsgInsufficient:  "نقاطك غير كافية! لديك %d من أصل %d نقطة (ينقصك %d).",
		MsgUnknownReward: "⚠️ هذه المكافأة غير متاحة",
		MsgHistoryEmpty:  "📭 لم تقم بأي تحميلات بعد.",
		MsgHistoryHeader: "⏳ <b>سجل آخر %d تحميلات:</b>\n━━━━━━━━━━━━━━\n",
		MsgHistoryLine:   "%d. %s <b>%s</b>\n   📅 %s | 📦 %s\n   🔗 %s\n\n",
		MsgSettings: "⚙️ <b>الإعدادات الحالية:</b>\n━━━━━━━━━━━━━━\n" +
			"📊 <b>الجودة:</b> %s\n📏 <b>الحد الأقصى:</b> %dMB\n🌐 <b>اللغة:</b> %s\n🔔 <b>الإشعارات:</b> %s",
		MsgOn:              "مفعّلة",
		MsgOff:             "معطّلة",
		MsgQualitySet:      "✅ تم تعيين الجودة الافتراضية إلى %s",
		MsgQualityUsage:    "الاستخدام: /quality best|medium|low",
		MsgMaxSizeSet:      "✅ تم تعيين الحد الأقصى للحجم إلى %dMB",
		MsgMaxSizeUsage:    "الاستخدام: /maxsize &lt;1-%d&gt;",
		MsgLanguageSet:     "✅ تم تعيين اللغة إلى العربية",
		MsgLanguageUsage:   "الاستخدام: /language ar|en",
		MsgNotifySet:       "🔔 الإشعارات الآن %s",
		MsgNotifyUsage:     "الاستخدام: /notifications on|off",
		MsgInvalidSetting:  "⚠️ %s",
		MsgUnsupportedLink: "❌ الرابط غير مدعوم أو غير صالح. أرسل رابط فيديو من YouTube أو TikTok أو Instagram أو Twitter/X أو Facebook.",
		MsgDownloadQueued:  "⏳ تمت إضافة التحميل إلى قائمة الانتظار (%s، الجودة %s). سأرسل الفيديو عند جاهزيته.",
		MsgNotALink:        "أرسل رابط فيديو أو استخدم /help.",
		MsgUnknownCommand:  "أمر غير معروف. استخدم /help.",
		MsgAdminOnly:       "⛔ هذا الأمر متاح للمشرفين فقط.",
		MsgInvalidRange:    "⚠️ نطاق غير صالح %q. استخدم 24h أو 7d أو 30d.",
		MsgStats: "📊 <b>الإحصائيات (%s)</b>\n━━━━━━━━━━━━━━\n" +
			"📥 التحميلات: %d (المكتملة %d)\n✅ نسبة النجاح: %.2f%%\n📦 الحجم الإجمالي: %s\n📐 متوسط الحجم: %s\n\n" +
			"<b>المنصات:</b>%s\n\n" +
			"<b>حالة النظام:</b>\n👥 المستخدمون النشطون (7 أيام): %d / %d\n⚠️ نسبة الأخطاء: %.2f%%\n💾 التخزين: %s",
		MsgPlatformLine:     "\n- %s: %d (%.2f%%)",
		MsgRecentErrors:     "\n\n<b>آخر الأخطاء:</b>%s",
		MsgErrorLine:        "\n- %s %s",
		MsgRateLimited:      "🐢 طلبات كثيرة جداً. يرجى الانتظار قليلاً.",
		MsgServiceDown:      "❌ الخدمة غير متاحة مؤقتاً. يرجى المحاولة لاحقاً.",
		MsgTimeout:          "⌛ استغرق التقرير وقتاً طويلاً. يرجى المحاولة لاحقاً.",
		MsgGenericError:     "❌ حدث خطأ أثناء معالجة طلبك",
		MsgStaleButton:      "⚠️ هذا الزر لم يعد يعمل، يرجى المحاولة مرة أخرى",
		MsgDownloadDone:     "✅ تم التحميل بنجاح: %s (%s)\n🎁 +%d نقطة، الرصيد %d",
		MsgDownloadFailed:   "❌ فشل تحميل الفيديو: %s",
		MsgQualityBest:      "أعلى جودة",
		MsgQualityMedium:    "متوسطة (720p)",
		MsgQualityLow:       "منخفضة (480p)",
		MsgLanguageButtonAR: "العربية",
		MsgLanguageButtonEN: "English",
		MsgNotifyButtonOn:   "🔔 تفعيل",
		MsgNotifyButtonOff:  "🔕 تعطيل",
	},
}

// Text renders the message for key in lang, falling back to English.
func Text(lang, key string, args ...interface{}) string {
	table, ok := messages[lang]
	if !ok {
		table = messages["en"]
	}
	format, ok := table[key]
	if !ok {
		format = messages["en"][key]
	}
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
