package icon

import "math"

// Base shapes are drawn in a 100×100 design box centred on the origin and
// scaled to the requested size afterwards.
const designBox = 100

// kappa places cubic control points for a quarter circle.
const kappa = 0.5522847498307936

// sun is a disc outline plus eight rays at 45° steps.
func sun(c Point, r float64, p Paint) []Primitive {
	ray := p
	ray.RoundCap = true
	out := make([]Primitive, 0, 9)
	out = append(out, Circle{Center: c, Radius: r, Paint: p})
	inner, outer := r*1.35, r*1.8
	for i := 0; i < 8; i++ {
		a := float64(i) * math.Pi / 4
		dx, dy := math.Cos(a), math.Sin(a)
		out = append(out, Line{
			From:  c.add(dx*inner, dy*inner),
			To:    c.add(dx*outer, dy*outer),
			Paint: ray,
		})
	}
	return out
}

// moon is a crescent opening to the right.
func moon(c Point, r float64, p Paint) []Primitive {
	top, bottom, left := c.add(0, -r), c.add(0, r), c.add(-r, 0)
	return []Primitive{ClosedPath{
		Start: top,
		Segments: []Segment{
			cubicTo(c.add(-kappa*r, -r), c.add(-r, -kappa*r), left),
			cubicTo(c.add(-r, kappa*r), c.add(-kappa*r, r), bottom),
			cubicTo(c.add(-0.45*r, 0.55*r), c.add(-0.45*r, -0.55*r), top),
		},
		Paint: p,
	}}
}

// cloudPath is three cubic lobes over a flat base, centred on c with
// width scale k.
func cloudPath(c Point, k float64, p Paint) ClosedPath {
	return ClosedPath{
		Start: c.add(-0.45*k, 0.25*k),
		Segments: []Segment{
			cubicTo(c.add(-0.68*k, 0.25*k), c.add(-0.65*k, -0.12*k), c.add(-0.35*k, -0.08*k)),
			cubicTo(c.add(-0.30*k, -0.45*k), c.add(0.25*k, -0.48*k), c.add(0.30*k, -0.12*k)),
			cubicTo(c.add(0.62*k, -0.15*k), c.add(0.70*k, 0.25*k), c.add(0.40*k, 0.25*k)),
		},
		Paint: p,
	}
}

func cloud(c Point, k float64, p Paint) []Primitive {
	return []Primitive{cloudPath(c, k, p)}
}

// rain is a row of short diagonal streaks under a cloud at (c, k).
func rain(c Point, k float64, columns []float64, p Paint) []Primitive {
	p.RoundCap = true
	out := make([]Primitive, 0, len(columns))
	for _, x := range columns {
		out = append(out, Line{
			From:  c.add(x*k, 0.36*k),
			To:    c.add(x*k-0.08*k, 0.52*k),
			Paint: p,
		})
	}
	return out
}

// snow is a row of six-pointed flakes under a cloud at (c, k).
func snow(c Point, k float64, p Paint) []Primitive {
	p.RoundCap = true
	half := 0.06 * k
	var out []Primitive
	for _, x := range []float64{-0.25, 0, 0.25} {
		center := c.add(x*k, 0.45*k)
		for i := 0; i < 3; i++ {
			a := float64(i) * math.Pi / 3
			dx, dy := math.Cos(a)*half, math.Sin(a)*half
			out = append(out, Line{From: center.add(-dx, -dy), To: center.add(dx, dy), Paint: p})
		}
	}
	return out
}

// bolt is a filled zig-zag under a cloud at (c, k).
func bolt(c Point, k float64, p Paint) []Primitive {
	p.Mode = FillStroke
	return []Primitive{ClosedPath{
		Start: c.add(0.05*k, 0.20*k),
		Segments: []Segment{
			lineTo(c.add(-0.08*k, 0.45*k)),
			lineTo(c.add(0.02*k, 0.45*k)),
			lineTo(c.add(-0.06*k, 0.70*k)),
			lineTo(c.add(0.14*k, 0.38*k)),
			lineTo(c.add(0.04*k, 0.38*k)),
			lineTo(c.add(0.12*k, 0.20*k)),
		},
		Paint: p,
	}}
}

// fog is four horizontal bars of varying length and offset.
func fog(p Paint) []Primitive {
	p.RoundCap = true
	bars := [4][3]float64{
		// y, x0, x1
		{-15, -30, 30},
		{-3, -36, 24},
		{9, -24, 36},
		{21, -32, 20},
	}
	out := make([]Primitive, 0, len(bars))
	for _, b := range bars {
		out = append(out, Line{From: Point{X: b[1], Y: b[0]}, To: Point{X: b[2], Y: b[0]}, Paint: p})
	}
	return out
}

// peeking draws the sun (or moon) behind a cloud: the celestial body
// first, then the cloud area cleared, then the cloud outline.
func peeking(cloudCenter Point, k float64, isDay bool, p Paint) []Primitive {
	var out []Primitive
	body := Point{X: -12, Y: -14}
	if isDay {
		out = append(out, sun(body, 12, p)...)
	} else {
		out = append(out, moon(body, 15, p)...)
	}
	eraser := p
	eraser.Mode = Clear
	out = append(out, cloudPath(cloudCenter, k, eraser))
	out = append(out, cloudPath(cloudCenter, k, p))
	return out
}
