// Package config builds the single immutable configuration value shared by
// every widget. It is constructed once at startup and passed explicitly into
// constructors; nothing in the module reads the environment after Load.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// RGB is a color with components in [0, 1].
type RGB struct {
	R, G, B float64
}

// Hex parses "#RRGGBB" or "RRGGBB". Invalid input yields black.
func Hex(s string) RGB {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 {
		return RGB{}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}
	}
	return RGB{
		R: float64(v>>16&0xff) / 255,
		G: float64(v>>8&0xff) / 255,
		B: float64(v&0xff) / 255,
	}
}

// Fonts holds font file paths per weight. Empty or missing paths fall back to
// the embedded Go fonts at render time.
type Fonts struct {
	Regular string
	Medium  string
	Bold    string
	// Family is the name used in conky font directives.
	Family string
}

// Palette holds the widget colors.
type Palette struct {
	Accent     RGB
	Secondary  RGB
	Foreground RGB
	Track      RGB
}

// Config is the process-wide configuration.
type Config struct {
	CacheDir string

	MaxComposites int
	MaxPhotos     int
	MaxRings      int

	Fonts   Fonts
	Palette Palette

	CornerRadius   float64
	BaselineAdjust float64

	// Weather collaborator.
	AutoDetect       bool
	DefaultLat       string
	DefaultLon       string
	LocationTTL      time.Duration
	WeatherRetries   int
	WeatherRetryWait time.Duration
	KVPath           string

	// Player collaborator.
	Player string
}

// Default returns the configuration used when no environment overrides are set.
func Default() Config {
	base := defaultCacheRoot()
	return Config{
		CacheDir:      filepath.Join(base, "covers"),
		MaxComposites: 6,
		MaxPhotos:     6,
		MaxRings:      2,
		Fonts: Fonts{
			Family: "Clash Display",
		},
		Palette: Palette{
			Accent:     Hex("#E0987A"),
			Secondary:  Hex("#A8532F"),
			Foreground: Hex("#E0987A"),
			Track:      RGB{R: 0.2, G: 0.2, B: 0.2},
		},
		CornerRadius:     15,
		BaselineAdjust:   3,
		AutoDetect:       true,
		DefaultLat:       "52.54",
		DefaultLon:       "85.21",
		LocationTTL:      4 * time.Hour,
		WeatherRetries:   3,
		WeatherRetryWait: 1500 * time.Millisecond,
		KVPath:           filepath.Join(base, "state.bbolt"),
		Player:           "spotify",
	}
}

// Load returns Default overridden by OVERLAY_ART_* environment variables.
func Load() Config {
	return FromLookup(os.LookupEnv)
}

// FromLookup is Load with an injectable environment.
func FromLookup(lookup func(string) (string, bool)) Config {
	c := Default()
	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}
	num := func(name string, dst *int) {
		if v, ok := lookup(name); ok {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				*dst = n
			}
		}
	}
	flt := func(name string, dst *float64) {
		if v, ok := lookup(name); ok {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				*dst = f
			}
		}
	}
	dur := func(name string, dst *time.Duration) {
		if v, ok := lookup(name); ok {
			if d, err := time.ParseDuration(v); err == nil && d >= 0 {
				*dst = d
			}
		}
	}
	color := func(name string, dst *RGB) {
		if v, ok := lookup(name); ok && v != "" {
			*dst = Hex(v)
		}
	}

	str("OVERLAY_ART_CACHE_DIR", &c.CacheDir)
	num("OVERLAY_ART_MAX_COMPOSITES", &c.MaxComposites)
	num("OVERLAY_ART_MAX_PHOTOS", &c.MaxPhotos)
	num("OVERLAY_ART_MAX_RINGS", &c.MaxRings)
	str("OVERLAY_ART_FONT_REGULAR", &c.Fonts.Regular)
	str("OVERLAY_ART_FONT_MEDIUM", &c.Fonts.Medium)
	str("OVERLAY_ART_FONT_BOLD", &c.Fonts.Bold)
	str("OVERLAY_ART_FONT_FAMILY", &c.Fonts.Family)
	color("OVERLAY_ART_COLOR_ACCENT", &c.Palette.Accent)
	color("OVERLAY_ART_COLOR_SECONDARY", &c.Palette.Secondary)
	color("OVERLAY_ART_COLOR_FOREGROUND", &c.Palette.Foreground)
	color("OVERLAY_ART_COLOR_TRACK", &c.Palette.Track)
	flt("OVERLAY_ART_CORNER_RADIUS", &c.CornerRadius)
	flt("OVERLAY_ART_BASELINE_ADJUST", &c.BaselineAdjust)
	if v, ok := lookup("OVERLAY_ART_AUTO_DETECT"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.AutoDetect = b
		}
	}
	str("OVERLAY_ART_LAT", &c.DefaultLat)
	str("OVERLAY_ART_LON", &c.DefaultLon)
	dur("OVERLAY_ART_LOCATION_TTL", &c.LocationTTL)
	num("OVERLAY_ART_WEATHER_RETRIES", &c.WeatherRetries)
	dur("OVERLAY_ART_WEATHER_RETRY_WAIT", &c.WeatherRetryWait)
	str("OVERLAY_ART_KV", &c.KVPath)
	str("OVERLAY_ART_PLAYER", &c.Player)
	return c
}

func defaultCacheRoot() string {
	home, _ := os.UserHomeDir()
	if home == "" {
		home = "."
	}
	return filepath.Join(home, ".cache", "overlay-art")
}
