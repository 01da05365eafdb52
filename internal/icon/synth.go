// Package icon synthesises weather glyphs as immutable lists of vector
// primitives. Nothing here draws: the render package walks the primitives
// and issues paint calls.
package icon

import "github.com/leonardcser/overlay-art/internal/config"

// Spec describes one icon. Size is the side of the square icon box in
// pixels.
type Spec struct {
	Code  int
	IsDay bool
	Size  float64
	Color config.RGB
}

// Glyph returns the composite the spec resolves to.
func (s Spec) Glyph() Glyph { return GlyphFor(s.Code) }

// lineWidth is the outline width in design units.
const lineWidth = 5

// Synthesize returns the primitives of the spec's glyph scaled to Size,
// in paint order. A non-positive size yields no primitives.
func Synthesize(spec Spec) []Primitive {
	if spec.Size <= 0 {
		return nil
	}
	p := Paint{Mode: Stroke, Width: lineWidth, Color: spec.Color}
	design := compose(spec.Glyph(), spec.IsDay, p)

	f := spec.Size / designBox
	out := make([]Primitive, len(design))
	for i, prim := range design {
		out[i] = prim.scale(f)
	}
	return out
}

func compose(g Glyph, isDay bool, p Paint) []Primitive {
	var (
		overhead = Point{X: 0, Y: -10}
		beside   = Point{X: 6, Y: 0}
		center   = Point{X: 0, Y: 4}
	)
	switch g {
	case GlyphClear:
		if isDay {
			return sun(Point{}, 18, p)
		}
		return moon(Point{}, 22, p)
	case GlyphPartlyCloudy:
		return peeking(Point{X: 6, Y: 8}, 60, isDay, p)
	case GlyphFog:
		return fog(p)
	case GlyphCloudRain:
		return join(cloud(overhead, 70, p), rain(overhead, 70, []float64{-0.25, 0, 0.25}, p))
	case GlyphCloudSnow:
		return join(cloud(overhead, 70, p), snow(overhead, 70, p))
	case GlyphCloudBolt:
		return join(cloud(overhead, 70, p), bolt(overhead, 70, p))
	case GlyphCloudRainBolt:
		return join(cloud(overhead, 70, p), rain(overhead, 70, []float64{-0.3, 0.32}, p), bolt(overhead, 70, p))
	case GlyphPartlyCloudyRain:
		return join(peeking(beside, 60, isDay, p), rain(beside, 60, []float64{-0.25, 0, 0.25}, p))
	case GlyphPartlyCloudySnow:
		return join(peeking(beside, 60, isDay, p), snow(beside, 60, p))
	default:
		return cloud(center, 70, p)
	}
}

func join(parts ...[]Primitive) []Primitive {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]Primitive, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
