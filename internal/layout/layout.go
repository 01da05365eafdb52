// Package layout places measured boxes in a horizontal row centred on a
// fixed canvas.
package layout

import (
	"errors"
	"fmt"
)

// ErrGapCount is returned when the gap list does not have one entry per
// adjacent pair of boxes.
var ErrGapCount = errors.New("layout: gap count mismatch")

// Box is the measured or declared extent of an element. For text the
// bearings are those reported by the font; icons and photos leave them zero.
// Baseline boxes are positioned by their text baseline, others by their
// top-left corner.
type Box struct {
	Width    float64
	Height   float64
	XBearing float64
	YBearing float64
	Baseline bool
}

// Point is an origin on the canvas.
type Point struct {
	X, Y float64
}

// Engine holds the layout tunables.
type Engine struct {
	// BaselineAdjust lifts text baselines so digits align optically with
	// icons of the same height.
	BaselineAdjust float64
}

// Layout returns one origin per box, in order. The row of boxes and gaps is
// centred horizontally; every box is centred vertically on its own height.
// Zero-width boxes still consume their gaps.
func (e Engine) Layout(boxes []Box, canvasW, canvasH float64, gaps []float64) ([]Point, error) {
	if len(boxes) == 0 {
		return nil, nil
	}
	if len(gaps) != len(boxes)-1 {
		return nil, fmt.Errorf("%w: %d boxes, %d gaps", ErrGapCount, len(boxes), len(gaps))
	}

	x := (canvasW - TotalWidth(boxes, gaps)) / 2
	out := make([]Point, len(boxes))
	for i, b := range boxes {
		var y float64
		if b.Baseline {
			y = canvasH/2 + b.Height/2 - e.BaselineAdjust
		} else {
			y = (canvasH - b.Height) / 2
		}
		out[i] = Point{X: x - b.XBearing, Y: y}
		x += b.Width
		if i < len(gaps) {
			x += gaps[i]
		}
	}
	return out, nil
}

// TotalWidth is the sum of box widths and gaps.
func TotalWidth(boxes []Box, gaps []float64) float64 {
	var w float64
	for _, b := range boxes {
		w += b.Width
	}
	for _, g := range gaps {
		w += g
	}
	return w
}

// Centered returns the origin that puts the ink of b centred on (cx, cy).
// For baseline boxes the result is the baseline start.
func Centered(b Box, cx, cy float64) Point {
	if b.Baseline {
		return Point{X: cx - b.Width/2 - b.XBearing, Y: cy - b.Height/2 - b.YBearing}
	}
	return Point{X: cx - b.Width/2, Y: cy - b.Height/2}
}

// UniformGaps returns n-1 copies of gap.
func UniformGaps(n int, gap float64) []float64 {
	if n < 2 {
		return nil
	}
	gaps := make([]float64, n-1)
	for i := range gaps {
		gaps[i] = gap
	}
	return gaps
}
