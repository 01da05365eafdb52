package render

import (
	"fmt"

	"github.com/leonardcser/overlay-art/internal/config"
	"github.com/leonardcser/overlay-art/internal/icon"
)

// Element is one item of a composite row: Icon, Text, TextStack,
// Separator, Photo or Ring.
type Element interface {
	// keyPart describes the element's semantic content for the composite
	// cache key.
	keyPart() string
}

// Icon is a synthesised weather glyph.
type Icon struct {
	Spec icon.Spec
}

// Weight selects a font file from the configured set.
type Weight int

const (
	Regular Weight = iota
	Medium
	Bold
)

func (w Weight) String() string {
	switch w {
	case Medium:
		return "medium"
	case Bold:
		return "bold"
	default:
		return "regular"
	}
}

// Text is a single run of text drawn on its baseline.
type Text struct {
	Text   string
	Weight Weight
	Size   float64
	Color  config.RGB
}

// TextStack is a block of lines drawn top to bottom and laid out as one
// box.
type TextStack struct {
	Lines []Text
	// Leading is the extra space between consecutive lines.
	Leading float64
}

// Separator is a short vertical stroke at reduced opacity.
type Separator struct {
	Width     float64
	Height    float64
	LineWidth float64
	Color     config.RGB
	Opacity   float64
}

// Photo is an external image clipped to a rounded square. Fetch supplies
// bytes already normalised to Size×Size; it is only called on a raw cache
// miss. Ref is the stable source reference the raw cache is keyed on.
type Photo struct {
	Ref    string
	Size   float64
	Radius float64
	Fetch  func() ([]byte, error)
}

// Ring is a circular usage gauge with the value inside and a label below.
type Ring struct {
	Label     string
	Value     float64
	Radius    float64
	Thickness float64
	Color     config.RGB
	Track     config.RGB
	TextSize  float64
	TextColor config.RGB
}

func rgbKey(c config.RGB) string { return fmt.Sprintf("%.4f,%.4f,%.4f", c.R, c.G, c.B) }

func (e Icon) keyPart() string {
	return fmt.Sprintf("icon|%d|%t|%g|%s", e.Spec.Code, e.Spec.IsDay, e.Spec.Size, rgbKey(e.Spec.Color))
}

func (e Text) keyPart() string {
	return fmt.Sprintf("text|%q|%s|%g|%s", e.Text, e.Weight, e.Size, rgbKey(e.Color))
}

func (e TextStack) keyPart() string {
	s := fmt.Sprintf("stack|%g", e.Leading)
	for _, l := range e.Lines {
		s += "|" + l.keyPart()
	}
	return s
}

func (e Separator) keyPart() string {
	return fmt.Sprintf("sep|%g|%g|%g|%s|%g", e.Width, e.Height, e.LineWidth, rgbKey(e.Color), e.Opacity)
}

// The photo's key part is its resolved raw path, filled in by the renderer.
func (e Photo) keyPart() string {
	return fmt.Sprintf("photo|%q|%g|%g", e.Ref, e.Size, e.Radius)
}

func (e Ring) keyPart() string {
	return fmt.Sprintf("ring|%q|%g|%g|%g|%s|%s|%g|%s",
		e.Label, e.Value, e.Radius, e.Thickness, rgbKey(e.Color), rgbKey(e.Track), e.TextSize, rgbKey(e.TextColor))
}

// Request is one composite to render. Gaps, when set, must hold one entry
// per adjacent pair of elements; otherwise Spacing is used between all of
// them. Class names the cache class of the result ("comp" when empty).
type Request struct {
	Class    string
	Width    int
	Height   int
	Elements []Element
	Gaps     []float64
	Spacing  float64
}

// Result is the rendered artifact.
type Result struct {
	Path   string
	Width  int
	Height int
	// Skipped counts elements that degraded to an empty placeholder.
	Skipped int
}
