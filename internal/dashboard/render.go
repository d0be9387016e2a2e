package dashboard

import (
	"fmt"
	"time"

	"github.com/i474232898/weather-history-dashboard/internal/common"
)

const (
	GlyphSunny   = "☀️"
	GlyphCloudy  = "☁️"
	GlyphRainy   = "🌧️"
	GlyphSnow    = "❄️"
	GlyphStorm   = "⛈️"
	GlyphFog     = "🌫️"
	GlyphDefault = "🌤️"
)

// glyphRules are checked in order; the first rule with a matching keyword wins.
var glyphRules = []struct {
	keywords []string
	glyph    string
}{
	{[]string{"clear", "sun"}, GlyphSunny},
	{[]string{"cloud"}, GlyphCloudy},
	{[]string{"rain", "drizzle"}, GlyphRainy},
	{[]string{"snow"}, GlyphSnow},
	{[]string{"thunder"}, GlyphStorm},
	{[]string{"mist", "fog"}, GlyphFog},
}

// Glyph maps a condition label to its display glyph.
func Glyph(condition string) string {
	for _, r := range glyphRules {
		if common.HasAnyFold(condition, r.keywords...) {
			return r.glyph
		}
	}
	return GlyphDefault
}

// AbsoluteLayout formats timestamps older than a day.
const AbsoluteLayout = "Jan 2, 2006 at 15:04"

// RelativeTime describes ts relative to now in whole hours. Anything a day or
// older is shown as an absolute date in now's location.
func RelativeTime(ts, now time.Time) string {
	d := now.Sub(ts)
	if d < 0 {
		d = -d
	}
	hours := int(d / time.Hour)

	switch {
	case hours < 1:
		return "Just now"
	case hours == 1:
		return "1 hour ago"
	case hours < 24:
		return fmt.Sprintf("%d hours ago", hours)
	default:
		return ts.In(now.Location()).Format(AbsoluteLayout)
	}
}
