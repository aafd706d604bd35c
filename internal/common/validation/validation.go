package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const (
	QualityBest   = "best"
	QualityMedium = "medium"
	QualityLow    = "low"
	Quality4K     = "4k"

	LanguageArabic  = "ar"
	LanguageEnglish = "en"

	MaxURLLength  = 500
	MaxTextLength = 200
)

// Platform tags stored in the download log.
const (
	PlatformYouTube   = "YouTube"
	PlatformTikTok    = "TikTok"
	PlatformInstagram = "Instagram"
	PlatformTwitter   = "Twitter/X"
	PlatformFacebook  = "Facebook"
	PlatformOther     = "Other"
)

var platformPatterns = map[string][]*regexp.Regexp{
	PlatformTikTok: {
		regexp.MustCompile(`^https?://(www\.|m\.)?tiktok\.com/@[\w.-]+/video/\d+`),
		regexp.MustCompile(`^https?://(www\.)?tiktok\.com/[\w.-]+/video/\d+`),
		regexp.MustCompile(`^https?://(vm|vt)\.tiktok\.com/\w+`),
	},
	PlatformYouTube: {
		regexp.MustCompile(`^https?://(www\.|m\.)?youtube\.com/(watch\?v=|shorts/|v/|embed/)[\w-]+`),
		regexp.MustCompile(`^https?://(www\.)?youtube\.com/playlist\?list=[\w-]+`),
		regexp.MustCompile(`^https?://youtu\.be/[\w-]+`),
	},
	PlatformInstagram: {
		regexp.MustCompile(`^https?://(www\.)?instagram\.com/(p|reel|reels|tv)/[\w-]+`),
		regexp.MustCompile(`^https?://(www\.)?instagram\.com/stories/[\w.-]+/\d+`),
	},
	PlatformTwitter: {
		regexp.MustCompile(`^https?://(www\.|mobile\.)?(twitter\.com|x\.com)/\w+/status/\d+`),
		regexp.MustCompile(`^https?://(www\.)?(twitter\.com|x\.com)/i/status/\d+`),
	},
	PlatformFacebook: {
		regexp.MustCompile(`^https?://(www\.|m\.)?facebook\.com/[\w.-]+/(videos|reel)/\d+`),
		regexp.MustCompile(`^https?://(www\.)?facebook\.com/watch/?\?v=\d+`),
		regexp.MustCompile(`^https?://fb\.watch/[\w-]+`),
	},
}

// CleanURL trims whitespace and strips tracking query parameters, keeping
// the ones that identify the video (YouTube "v"/"list", Facebook "v").
func CleanURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	q := u.Query()
	kept := url.Values{}
	for _, key := range []string{"v", "list"} {
		if v := q.Get(key); v != "" {
			kept.Set(key, v)
		}
	}
	u.RawQuery = kept.Encode()
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}

// DetectPlatform returns the platform tag for a supported link, or ok=false.
func DetectPlatform(raw string) (platform string, ok bool) {
	if len(raw) > MaxURLLength {
		return "", false
	}
	cleaned := CleanURL(raw)
	u, err := url.Parse(cleaned)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}
	for name, patterns := range platformPatterns {
		for _, p := range patterns {
			if p.MatchString(cleaned) {
				return name, true
			}
		}
	}
	return "", false
}

// PlatformOf tags any link by host, falling back to "Other".
func PlatformOf(raw string) string {
	if p, ok := DetectPlatform(raw); ok {
		return p
	}
	switch {
	case strings.Contains(raw, "youtube.com"), strings.Contains(raw, "youtu.be"):
		return PlatformYouTube
	case strings.Contains(raw, "tiktok.com"):
		return PlatformTikTok
	case strings.Contains(raw, "instagram.com"):
		return PlatformInstagram
	case strings.Contains(raw, "twitter.com"), strings.Contains(raw, "x.com"):
		return PlatformTwitter
	case strings.Contains(raw, "facebook.com"), strings.Contains(raw, "fb.watch"):
		return PlatformFacebook
	}
	return PlatformOther
}

func LooksLikeURL(text string) bool {
	text = strings.TrimSpace(text)
	return strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://")
}

func ValidateQuality(quality string) error {
	switch strings.ToLower(quality) {
	case QualityBest, QualityMedium, QualityLow:
		return nil
	}
	return fmt.Errorf("quality must be one of best, medium, low")
}

func ValidateLanguage(lang string) error {
	switch lang {
	case LanguageArabic, LanguageEnglish:
		return nil
	}
	return fmt.Errorf("language must be ar or en")
}

// ValidateMaxFileSize checks a per-user limit against the server-wide cap.
func ValidateMaxFileSize(sizeMB, limitMB int) error {
	if sizeMB < 1 || sizeMB > limitMB {
		return fmt.Errorf("max file size must be between 1 and %d MB", limitMB)
	}
	return nil
}

func ValidateText(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("text cannot be empty")
	}
	if len(text) > MaxTextLength {
		return fmt.Errorf("text cannot exceed %d characters", MaxTextLength)
	}
	return nil
}
