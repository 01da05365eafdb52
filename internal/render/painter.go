package render

import (
	"fmt"
	"image"
	"math"

	"github.com/gogpu/gg"

	"github.com/leonardcser/overlay-art/internal/config"
	"github.com/leonardcser/overlay-art/internal/icon"
	"github.com/leonardcser/overlay-art/internal/logger"
)

// paintIcon walks the primitives of an icon whose box has its top-left
// corner at (x, y).
func paintIcon(dc *gg.Context, spec icon.Spec, x, y float64) {
	paintPrimitives(dc, icon.Synthesize(spec), x+spec.Size/2, y+spec.Size/2)
}

// paintPrimitives paints prims centred on (cx, cy). A primitive that fails
// to paint is logged and skipped; the count of such primitives is returned.
func paintPrimitives(dc *gg.Context, prims []icon.Primitive, cx, cy float64) int {
	var failed int
	for _, prim := range prims {
		dc.ClearPath()
		trace(dc, prim, cx, cy)

		st := prim.Style()
		dc.SetLineJoin(gg.LineJoinRound)
		if st.RoundCap {
			dc.SetLineCap(gg.LineCapRound)
		} else {
			dc.SetLineCap(gg.LineCapButt)
		}
		dc.SetLineWidth(st.Width)
		setRGB(dc, st.Color)

		var err error
		switch st.Mode {
		case icon.Stroke:
			err = dc.Stroke()
		case icon.Fill:
			err = dc.Fill()
		case icon.FillStroke:
			if err = dc.FillPreserve(); err == nil {
				err = dc.Stroke()
			}
		case icon.Clear:
			erase(dc, dc.AsMask())
		default:
			err = fmt.Errorf("unknown paint mode %d", int(st.Mode))
		}
		dc.ClearPath()
		if err != nil {
			logger.Warnf("icon: %T %s: %v", prim, st.Mode, err)
			failed++
		}
	}
	return failed
}

// trace adds prim to the current path, offset by (cx, cy).
func trace(dc *gg.Context, prim icon.Primitive, cx, cy float64) {
	switch p := prim.(type) {
	case icon.Circle:
		dc.DrawCircle(cx+p.Center.X, cy+p.Center.Y, p.Radius)
	case icon.Line:
		dc.MoveTo(cx+p.From.X, cy+p.From.Y)
		dc.LineTo(cx+p.To.X, cy+p.To.Y)
	case icon.Cubic:
		dc.MoveTo(cx+p.From.X, cy+p.From.Y)
		dc.CubicTo(cx+p.C1.X, cy+p.C1.Y, cx+p.C2.X, cy+p.C2.Y, cx+p.To.X, cy+p.To.Y)
	case icon.ClosedPath:
		dc.MoveTo(cx+p.Start.X, cy+p.Start.Y)
		for _, s := range p.Segments {
			if s.Kind == icon.CubicSegment {
				dc.CubicTo(cx+s.C1.X, cy+s.C1.Y, cx+s.C2.X, cy+s.C2.Y, cx+s.To.X, cy+s.To.Y)
			} else {
				dc.LineTo(cx+s.To.X, cy+s.To.Y)
			}
		}
		dc.ClosePath()
	}
}

// erase scales every pixel covered by m towards transparent.
func erase(dc *gg.Context, m *gg.Mask) {
	snap := snapshot(dc)
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			cov := m.At(x, y)
			if cov == 0 {
				continue
			}
			i := snap.PixOffset(x, y)
			if snap.Pix[i+3] == 0 {
				continue
			}
			k := (1 - float64(cov)/255) / 255
			dc.SetPixel(x, y, gg.RGBA{
				R: float64(snap.Pix[i]) * k,
				G: float64(snap.Pix[i+1]) * k,
				B: float64(snap.Pix[i+2]) * k,
				A: float64(snap.Pix[i+3]) * k,
			})
		}
	}
}

// compositeMasked paints src over the canvas with its top-left corner at
// (x0, y0), weighted by the coverage of m. src holds premultiplied pixels.
func compositeMasked(dc *gg.Context, src *image.RGBA, x0, y0 int, m *gg.Mask) {
	snap := snapshot(dc)
	b := src.Bounds()
	for sy := b.Min.Y; sy < b.Max.Y; sy++ {
		for sx := b.Min.X; sx < b.Max.X; sx++ {
			x, y := x0+sx-b.Min.X, y0+sy-b.Min.Y
			if x < 0 || y < 0 || x >= m.Width() || y >= m.Height() {
				continue
			}
			cov := m.At(x, y)
			if cov == 0 {
				continue
			}
			si := src.PixOffset(sx, sy)
			di := snap.PixOffset(x, y)
			w := float64(cov) / 255
			sa := float64(src.Pix[si+3]) / 255 * w
			inv := 1 - sa
			mix := func(o int) float64 {
				return float64(src.Pix[si+o])/255*w + float64(snap.Pix[di+o])/255*inv
			}
			dc.SetPixel(x, y, gg.RGBA{R: mix(0), G: mix(1), B: mix(2), A: sa + float64(snap.Pix[di+3])/255*inv})
		}
	}
}

func snapshot(dc *gg.Context) *image.RGBA {
	if img, ok := dc.Image().(*image.RGBA); ok {
		return img
	}
	b := dc.Image().Bounds()
	return image.NewRGBA(b)
}

// roundedRect traces a rectangle with quarter-circle corners. The radius is
// clamped to half the shorter side.
func roundedRect(dc *gg.Context, x, y, w, h, r float64) {
	r = math.Max(0, math.Min(r, math.Min(w, h)/2))
	dc.MoveTo(x+w-r, y)
	dc.DrawArc(x+w-r, y+r, r, -math.Pi/2, 0)
	dc.LineTo(x+w, y+h-r)
	dc.DrawArc(x+w-r, y+h-r, r, 0, math.Pi/2)
	dc.LineTo(x+r, y+h)
	dc.DrawArc(x+r, y+h-r, r, math.Pi/2, math.Pi)
	dc.LineTo(x, y+r)
	dc.DrawArc(x+r, y+r, r, math.Pi, 3*math.Pi/2)
	dc.ClosePath()
}

// paintRing draws the track, the progress arc from twelve o'clock and the
// centred value and label texts around (cx, cy).
func paintRing(dc *gg.Context, fonts *FontBook, r Ring, cx, cy float64) error {
	dc.SetLineWidth(r.Thickness)
	dc.SetLineCap(gg.LineCapButt)

	dc.ClearPath()
	dc.DrawCircle(cx, cy, r.Radius)
	dc.SetRGBA(r.Track.R, r.Track.G, r.Track.B, 0.3)
	if err := dc.Stroke(); err != nil {
		return err
	}

	if v := clampPercent(r.Value); v > 0 {
		start := -math.Pi / 2
		end := start + 2*math.Pi*v/100
		dc.ClearPath()
		dc.MoveTo(cx+r.Radius*math.Cos(start), cy+r.Radius*math.Sin(start))
		dc.DrawArc(cx, cy, r.Radius, start, end)
		setRGB(dc, r.Color)
		if err := dc.Stroke(); err != nil {
			return err
		}
	}

	value := Text{Text: ringValue(r.Value), Weight: Medium, Size: r.TextSize, Color: r.TextColor}
	label := Text{Text: r.Label, Weight: Bold, Size: r.TextSize, Color: r.TextColor}
	drawCentered(dc, fonts, value, cx, cy+2)
	drawCentered(dc, fonts, label, cx, cy+r.Radius+20)
	return nil
}

func clampPercent(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(100, v))
}

func setRGB(dc *gg.Context, c config.RGB) { dc.SetRGB(c.R, c.G, c.B) }
