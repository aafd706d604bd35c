package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url      string
		platform string
		ok       bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", PlatformYouTube, true},
		{"https://youtu.be/dQw4w9WgXcQ?si=tracking", PlatformYouTube, true},
		{"https://youtube.com/shorts/abc_123", PlatformYouTube, true},
		{"https://www.tiktok.com/@some.user/video/7234567890123456789?lang=en", PlatformTikTok, true},
		{"https://vm.tiktok.com/ZMabc123", PlatformTikTok, true},
		{"https://www.instagram.com/reel/Cabc-123/", PlatformInstagram, true},
		{"https://x.com/someone/status/1234567890", PlatformTwitter, true},
		{"https://twitter.com/i/status/1234567890", PlatformTwitter, true},
		{"https://www.facebook.com/page.name/videos/1234567890", PlatformFacebook, true},
		{"https://example.com/video.mp4", "", false},
		{"not a url", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			platform, ok := DetectPlatform(tt.url)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.platform, platform)
		})
	}
}

func TestCleanURL(t *testing.T) {
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", CleanURL("  https://www.youtube.com/watch?v=abc&feature=share  "))
	assert.Equal(t, "https://x.com/a/status/1", CleanURL("https://x.com/a/status/1?ref_src=twsrc%5Etfw#top"))
}

func TestPlatformOf(t *testing.T) {
	assert.Equal(t, PlatformTikTok, PlatformOf("https://www.tiktok.com/foo"))
	assert.Equal(t, PlatformOther, PlatformOf("https://vimeo.com/123"))
}

func TestValidateMaxFileSize(t *testing.T) {
	assert.NoError(t, ValidateMaxFileSize(1, 50))
	assert.NoError(t, ValidateMaxFileSize(50, 50))
	assert.Error(t, ValidateMaxFileSize(0, 50))
	assert.Error(t, ValidateMaxFileSize(51, 50))
}

func TestValidateQualityAndLanguage(t *testing.T) {
	assert.NoError(t, ValidateQuality("Best"))
	assert.Error(t, ValidateQuality("4k"))
	assert.NoError(t, ValidateLanguage("en"))
	assert.Error(t, ValidateLanguage("fr"))
}
