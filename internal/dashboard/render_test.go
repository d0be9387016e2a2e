package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGlyph(t *testing.T) {
	tests := []struct {
		condition string
		want      string
	}{
		{"Clear", GlyphSunny},
		{"Sunny", GlyphSunny},
		{"Clouds", GlyphCloudy},
		{"Partly cloudy", GlyphCloudy},
		{"Rain", GlyphRainy},
		{"DRIZZLE", GlyphRainy},
		{"Snow", GlyphSnow},
		{"Thunderstorm", GlyphStorm},
		{"Mist", GlyphFog},
		{"Fog", GlyphFog},
		{"Haze", GlyphDefault},
		{"", GlyphDefault},
		// Priority order decides between several keywords.
		{"Sun and clouds", GlyphSunny},
		{"Cloudy with rain", GlyphCloudy},
		{"Thunderstorm with rain", GlyphRainy},
		{"Freezing fog with snow", GlyphSnow},
	}
	for _, tt := range tests {
		t.Run(tt.condition, func(t *testing.T) {
			assert.Equal(t, tt.want, Glyph(tt.condition))
		})
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		ts   time.Time
		want string
	}{
		{"now", now, "Just now"},
		{"59 minutes", now.Add(-59 * time.Minute), "Just now"},
		{"one hour", now.Add(-time.Hour), "1 hour ago"},
		{"one and a half hours", now.Add(-90 * time.Minute), "1 hour ago"},
		{"two hours", now.Add(-2 * time.Hour), "2 hours ago"},
		{"23 hours", now.Add(-23*time.Hour - 59*time.Minute), "23 hours ago"},
		{"a day", now.Add(-24 * time.Hour), "Mar 9, 2024 at 15:30"},
		{"clock skew", now.Add(3 * time.Hour), "3 hours ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeTime(tt.ts, now))
		})
	}
}

func TestRelativeTimeUsesViewerLocation(t *testing.T) {
	zone := time.FixedZone("UTC+2", 2*60*60)
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, zone)
	ts := time.Date(2024, 3, 1, 8, 5, 0, 0, time.UTC)

	assert.Equal(t, "Mar 1, 2024 at 10:05", RelativeTime(ts, now))
}
