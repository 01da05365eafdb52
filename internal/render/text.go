package render

import (
	"fmt"
	"math"

	"github.com/gogpu/gg"

	"github.com/leonardcser/overlay-art/internal/layout"
)

// measureText returns the box of t. The height is the cap height, so a
// run of digits centres on the icons beside it.
func measureText(fonts *FontBook, t Text) layout.Box {
	if t.Text == "" || t.Size <= 0 {
		return layout.Box{Baseline: true}
	}
	face := fonts.Face(t.Weight, t.Size)
	h := capHeight(face.Metrics().CapHeight, face.Metrics().Ascent)
	return layout.Box{
		Width:    face.Advance(t.Text),
		Height:   h,
		YBearing: -h,
		Baseline: true,
	}
}

func capHeight(capH, ascent float64) float64 {
	if capH > 0 {
		return capH
	}
	return ascent
}

// drawText draws t with its baseline starting at (x, y).
func drawText(dc *gg.Context, fonts *FontBook, t Text, x, y float64) {
	if t.Text == "" || t.Size <= 0 {
		return
	}
	dc.SetFont(fonts.Face(t.Weight, t.Size))
	setRGB(dc, t.Color)
	dc.DrawString(t.Text, x, y)
}

// drawCentered draws t with its ink centred on (cx, cy).
func drawCentered(dc *gg.Context, fonts *FontBook, t Text, cx, cy float64) {
	at := layout.Centered(measureText(fonts, t), cx, cy)
	drawText(dc, fonts, t, at.X, at.Y)
}

// measureStack lays the lines out top to bottom. The box is positioned by
// its top-left corner.
func measureStack(fonts *FontBook, s TextStack) layout.Box {
	var box layout.Box
	for i, l := range s.Lines {
		b := measureText(fonts, l)
		box.Width = math.Max(box.Width, b.Width)
		box.Height += b.Height
		if i > 0 {
			box.Height += s.Leading
		}
	}
	return box
}

func drawStack(dc *gg.Context, fonts *FontBook, s TextStack, x, y float64) {
	for i, l := range s.Lines {
		b := measureText(fonts, l)
		if i > 0 {
			y += s.Leading
		}
		y += b.Height
		drawText(dc, fonts, l, x, y)
	}
}

func ringValue(v float64) string {
	return fmt.Sprintf("%d%%", int(clampPercent(v)))
}

// ringLabelBand is the space below the ring reserved for its label.
const ringLabelBand = 30

func measureRing(r Ring) layout.Box {
	d := 2*r.Radius + r.Thickness
	return layout.Box{Width: d, Height: d + ringLabelBand}
}
