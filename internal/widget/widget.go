// Package widget assembles render requests for the overlay widgets and
// formats the directives conky places them with.
package widget

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/leonardcser/overlay-art/internal/config"
	"github.com/leonardcser/overlay-art/internal/directive"
	"github.com/leonardcser/overlay-art/internal/icon"
	"github.com/leonardcser/overlay-art/internal/logger"
	"github.com/leonardcser/overlay-art/internal/render"
	"github.com/leonardcser/overlay-art/internal/source"
	"github.com/leonardcser/overlay-art/internal/web"
)

// Placement is where conky draws a widget's image.
type Placement struct {
	X, Y int
}

var (
	CoverAt   = Placement{X: 170, Y: 540}
	RingsAt   = Placement{X: 450, Y: 430}
	WeatherAt = Placement{X: 150, Y: 330}
)

const (
	coverW, coverH     = 600, 100
	coverSize          = 64
	maxTitle           = 25
	maxArtist          = 35
	weatherW, weatherH = 900, 100
	ringsW, ringsH     = 600, 130
)

// Renderer is the rendering surface the widgets draw through.
type Renderer interface {
	Render(ctx context.Context, req render.Request) (render.Result, error)
}

type TrackSource interface {
	Current(ctx context.Context) (source.Track, error)
}

type CoverSource interface {
	Fetch(ctx context.Context, artURL string) ([]byte, error)
}

type WeatherSource interface {
	Current(ctx context.Context) (web.Conditions, error)
}

type UsageSource interface {
	Sample(ctx context.Context) (source.Usage, error)
}

// Widgets holds the collaborators of every widget. Unset sources make the
// corresponding widget fail.
type Widgets struct {
	Config   config.Config
	Renderer Renderer
	Tracks   TrackSource
	Covers   CoverSource
	Weather  WeatherSource
	Usage    UsageSource
}

// Cover renders the now-playing badge. It returns source.ErrNotPlaying
// when there is nothing to show.
func (w *Widgets) Cover(ctx context.Context) (string, error) {
	if w.Tracks == nil {
		return "", errors.New("widget: no track source")
	}
	track, err := w.Tracks.Current(ctx)
	if err != nil {
		return "", err
	}
	req := w.CoverRequest(ctx, track)
	res, err := w.Renderer.Render(ctx, req)
	if err != nil {
		return "", err
	}
	return directive.Image(res.Path, CoverAt.X, CoverAt.Y, res.Width, res.Height), nil
}

// CoverRequest builds the badge for track: the rounded art followed by the
// title over the lower-cased artist.
func (w *Widgets) CoverRequest(ctx context.Context, track source.Track) render.Request {
	pal := w.Config.Palette
	artURL := web.RewriteArtURL(track.ArtURL)
	photo := render.Photo{
		Ref:    artURL,
		Size:   coverSize,
		Radius: w.Config.CornerRadius,
	}
	if artURL != "" && w.Covers != nil {
		photo.Fetch = func() ([]byte, error) {
			raw, err := w.Covers.Fetch(ctx, artURL)
			if err != nil {
				return nil, err
			}
			return source.Normalize(raw, coverSize)
		}
	}
	return render.Request{
		Class:  render.ClassComp,
		Width:  coverW,
		Height: coverH,
		Elements: []render.Element{
			photo,
			render.TextStack{
				Lines: []render.Text{
					{Text: source.Truncate(track.Title, maxTitle), Weight: render.Regular, Size: 18, Color: pal.Accent},
					{Text: strings.ToLower(source.Truncate(track.Artist, maxArtist)), Weight: render.Regular, Size: 14, Color: pal.Secondary},
				},
				Leading: 8,
			},
		},
		Gaps: []float64{16},
	}
}

// FormatTemperature renders a temperature as "+12°c"; the sign is shown
// only above zero.
func FormatTemperature(t float64) string {
	sign := ""
	if t > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.0f°c", sign, t)
}

// WeatherText is the plain one-line report, "offline" when the forecast
// cannot be fetched.
func (w *Widgets) WeatherText(ctx context.Context) string {
	if w.Weather == nil {
		return "offline"
	}
	c, err := w.Weather.Current(ctx)
	if err != nil {
		logger.Warnf("weather: %v", err)
		return "offline"
	}
	return FormatTemperature(c.Temperature) + " " + web.Describe(c.Code)
}

// WeatherDirective renders the icon row. When offline it returns a text
// directive instead of an image.
func (w *Widgets) WeatherDirective(ctx context.Context) (string, error) {
	var c web.Conditions
	err := errors.New("widget: no weather source")
	if w.Weather != nil {
		c, err = w.Weather.Current(ctx)
	}
	if err != nil {
		logger.Warnf("weather: %v", err)
		return w.offline(), nil
	}
	res, err := w.Renderer.Render(ctx, w.WeatherRequest(c))
	if err != nil {
		return "", err
	}
	return directive.Image(res.Path, WeatherAt.X, WeatherAt.Y, res.Width, res.Height), nil
}

func (w *Widgets) offline() string {
	return directive.TextRun(
		WeatherAt.X,
		directive.Color(hex(w.Config.Palette.Foreground)),
		directive.Font(w.Config.Fonts.Family, 14),
		"offline",
	)
}

// WeatherRequest builds icon, temperature, separator and condition text.
func (w *Widgets) WeatherRequest(c web.Conditions) render.Request {
	pal := w.Config.Palette
	return render.Request{
		Class:  render.ClassComp,
		Width:  weatherW,
		Height: weatherH,
		Elements: []render.Element{
			render.Icon{Spec: icon.Spec{Code: c.Code, IsDay: c.IsDay, Size: 48, Color: pal.Accent}},
			render.Text{Text: FormatTemperature(c.Temperature), Weight: render.Medium, Size: 24, Color: pal.Foreground},
			render.Separator{Width: 2, Height: 40, LineWidth: 2, Color: pal.Foreground, Opacity: 0.4},
			render.Text{Text: web.Describe(c.Code), Weight: render.Regular, Size: 24, Color: pal.Foreground},
		},
		Gaps: []float64{12, 16, 16},
	}
}

// Rings renders the CPU, RAM and disk gauges.
func (w *Widgets) Rings(ctx context.Context) (string, error) {
	if w.Usage == nil {
		return "", errors.New("widget: no usage source")
	}
	u, err := w.Usage.Sample(ctx)
	if err != nil {
		return "", err
	}
	res, err := w.Renderer.Render(ctx, w.RingsRequest(u))
	if err != nil {
		return "", err
	}
	return directive.Image(res.Path, RingsAt.X, RingsAt.Y, res.Width, res.Height), nil
}

// RingsRequest places three rings 115 px apart, centred on the canvas.
func (w *Widgets) RingsRequest(u source.Usage) render.Request {
	pal := w.Config.Palette
	ring := func(label string, v float64) render.Element {
		return render.Ring{
			Label:     label,
			Value:     v,
			Radius:    28,
			Thickness: 4,
			Color:     pal.Accent,
			Track:     pal.Track,
			TextSize:  12,
			TextColor: pal.Accent,
		}
	}
	return render.Request{
		Class:    render.ClassRings,
		Width:    ringsW,
		Height:   ringsH,
		Elements: []render.Element{ring("CPU", u.CPU), ring("RAM", u.RAM), ring("SSD", u.Disk)},
		Spacing:  55,
	}
}

func hex(c config.RGB) string {
	b := func(v float64) int {
		n := int(v*255 + 0.5)
		switch {
		case n < 0:
			return 0
		case n > 255:
			return 255
		}
		return n
	}
	return fmt.Sprintf("#%02X%02X%02X", b(c.R), b(c.G), b(c.B))
}
