package icon

// Glyph is a composite icon. The day/night flag of a Spec selects between
// the sun and moon variants of glyphs that show one.
type Glyph int

const (
	GlyphCloud Glyph = iota
	GlyphClear
	GlyphPartlyCloudy
	GlyphFog
	GlyphCloudRain
	GlyphCloudSnow
	GlyphCloudBolt
	GlyphCloudRainBolt
	GlyphPartlyCloudyRain
	GlyphPartlyCloudySnow
)

var glyphNames = [...]string{
	GlyphCloud:            "cloud",
	GlyphClear:            "clear",
	GlyphPartlyCloudy:     "partly-cloudy",
	GlyphFog:              "fog",
	GlyphCloudRain:        "cloud+rain",
	GlyphCloudSnow:        "cloud+snow",
	GlyphCloudBolt:        "cloud+bolt",
	GlyphCloudRainBolt:    "cloud+rain+bolt",
	GlyphPartlyCloudyRain: "partly-cloudy+rain",
	GlyphPartlyCloudySnow: "partly-cloudy+snow",
}

func (g Glyph) String() string {
	if g < 0 || int(g) >= len(glyphNames) {
		return "unknown"
	}
	return glyphNames[g]
}

// DefaultGlyph is used for every code GlyphFor does not know.
const DefaultGlyph = GlyphCloud

// GlyphFor maps a WMO weather code to its glyph. It is total.
func GlyphFor(code int) Glyph {
	switch code {
	case 0:
		return GlyphClear
	case 1, 2:
		return GlyphPartlyCloudy
	case 3:
		return GlyphCloud
	case 45, 48:
		return GlyphFog
	case 51, 53, 55, 56, 57, 61, 63, 65, 66, 67:
		return GlyphCloudRain
	case 71, 73, 75, 77:
		return GlyphCloudSnow
	case 80, 81, 82:
		return GlyphPartlyCloudyRain
	case 85, 86:
		return GlyphPartlyCloudySnow
	case 95:
		return GlyphCloudBolt
	case 96, 99:
		return GlyphCloudRainBolt
	default:
		return DefaultGlyph
	}
}
