package icon

import "github.com/leonardcser/overlay-art/internal/config"

// Point is a coordinate in the icon-centred frame: (0, 0) is the middle of
// the icon box, y grows downwards.
type Point struct {
	X, Y float64
}

func (p Point) add(dx, dy float64) Point { return Point{X: p.X + dx, Y: p.Y + dy} }

func (p Point) mul(f float64) Point { return Point{X: p.X * f, Y: p.Y * f} }

// Mode selects how a primitive is painted.
type Mode int

const (
	// Stroke outlines the primitive.
	Stroke Mode = iota
	// Fill fills the primitive.
	Fill
	// FillStroke fills then outlines with the same color.
	FillStroke
	// Clear erases the primitive's area from everything drawn before it.
	Clear
)

func (m Mode) String() string {
	switch m {
	case Stroke:
		return "stroke"
	case Fill:
		return "fill"
	case FillStroke:
		return "fill+stroke"
	case Clear:
		return "clear"
	default:
		return "unknown"
	}
}

// Paint carries the style of one primitive.
type Paint struct {
	Mode     Mode
	Width    float64
	RoundCap bool
	Color    config.RGB
}

// Primitive is one of Circle, Line, Cubic or ClosedPath. The set is closed.
type Primitive interface {
	Style() Paint
	scale(f float64) Primitive
}

type Circle struct {
	Center Point
	Radius float64
	Paint  Paint
}

type Line struct {
	From, To Point
	Paint    Paint
}

type Cubic struct {
	From, C1, C2, To Point
	Paint            Paint
}

// SegmentKind tells a ClosedPath segment apart.
type SegmentKind int

const (
	LineSegment SegmentKind = iota
	CubicSegment
)

// Segment continues a ClosedPath from the previous point. C1 and C2 are
// only meaningful for cubic segments.
type Segment struct {
	Kind   SegmentKind
	C1, C2 Point
	To     Point
}

// ClosedPath starts at Start, follows Segments and closes back to Start.
type ClosedPath struct {
	Start    Point
	Segments []Segment
	Paint    Paint
}

func (c Circle) Style() Paint     { return c.Paint }
func (l Line) Style() Paint       { return l.Paint }
func (c Cubic) Style() Paint      { return c.Paint }
func (p ClosedPath) Style() Paint { return p.Paint }

func (p Paint) scale(f float64) Paint {
	p.Width *= f
	return p
}

func (c Circle) scale(f float64) Primitive {
	return Circle{Center: c.Center.mul(f), Radius: c.Radius * f, Paint: c.Paint.scale(f)}
}

func (l Line) scale(f float64) Primitive {
	return Line{From: l.From.mul(f), To: l.To.mul(f), Paint: l.Paint.scale(f)}
}

func (c Cubic) scale(f float64) Primitive {
	return Cubic{From: c.From.mul(f), C1: c.C1.mul(f), C2: c.C2.mul(f), To: c.To.mul(f), Paint: c.Paint.scale(f)}
}

func (p ClosedPath) scale(f float64) Primitive {
	segs := make([]Segment, len(p.Segments))
	for i, s := range p.Segments {
		segs[i] = Segment{Kind: s.Kind, C1: s.C1.mul(f), C2: s.C2.mul(f), To: s.To.mul(f)}
	}
	return ClosedPath{Start: p.Start.mul(f), Segments: segs, Paint: p.Paint.scale(f)}
}

func lineTo(p Point) Segment { return Segment{Kind: LineSegment, To: p} }

func cubicTo(c1, c2, p Point) Segment { return Segment{Kind: CubicSegment, C1: c1, C2: c2, To: p} }
