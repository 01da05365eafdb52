// Package render turns a Request into a PNG composite persisted through the
// asset cache. Measuring and layout happen first; painting runs once, inside
// the cache producer, so a hit costs no drawing at all.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"strconv"

	"github.com/gogpu/gg"

	"github.com/leonardcser/overlay-art/internal/cache"
	"github.com/leonardcser/overlay-art/internal/config"
	"github.com/leonardcser/overlay-art/internal/layout"
	"github.com/leonardcser/overlay-art/internal/logger"
)

// ErrNothingToRender is returned when every element of a request degraded
// away. Callers must not emit a directive for it.
var ErrNothingToRender = fmt.Errorf("%w: nothing to render", cache.ErrProducerFailed)

// keyVersion is bumped whenever painting changes in a way cached composites
// must not survive.
const keyVersion = "overlay-art/1"

// Class names.
const (
	ClassRaw   = "raw"
	ClassComp  = "comp"
	ClassRings = "rings"
)

// Renderer paints requests onto fixed-size canvases.
type Renderer struct {
	store   *cache.AssetStore
	fonts   *FontBook
	engine  layout.Engine
	classes map[string]cache.Class
}

// New returns a renderer writing through store.
func New(cfg config.Config, store *cache.AssetStore) *Renderer {
	return &Renderer{
		store:  store,
		fonts:  NewFontBook(cfg.Fonts),
		engine: layout.Engine{BaselineAdjust: cfg.BaselineAdjust},
		classes: map[string]cache.Class{
			ClassRaw:   {Name: ClassRaw, Ext: ".png", MaxEntries: cfg.MaxPhotos},
			ClassComp:  {Name: ClassComp, Ext: ".png", MaxEntries: cfg.MaxComposites},
			ClassRings: {Name: ClassRings, Ext: ".png", MaxEntries: cfg.MaxRings},
		},
	}
}

// Class returns the cache class registered under name. Unknown names get
// the composite retention limit.
func (r *Renderer) Class(name string) cache.Class {
	if name == "" {
		name = ClassComp
	}
	if c, ok := r.classes[name]; ok {
		return c
	}
	c := r.classes[ClassComp]
	c.Name = name
	return c
}

// placed is an element ready to paint.
type placed struct {
	el    Element
	box   layout.Box
	photo string      // resolved raw path for photos
	img   *image.RGBA // decoded photo, scaled to its box
	skip  bool
}

// Render produces the composite for req and returns its path.
func (r *Renderer) Render(ctx context.Context, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if req.Width <= 0 || req.Height <= 0 {
		return Result{}, fmt.Errorf("render: invalid canvas %dx%d", req.Width, req.Height)
	}

	items, skipped := r.measure(req.Elements)
	if len(items) == 0 || skipped == len(items) {
		return Result{}, ErrNothingToRender
	}

	gaps := req.Gaps
	if gaps == nil {
		gaps = layout.UniformGaps(len(items), req.Spacing)
	}
	boxes := make([]layout.Box, len(items))
	for i, it := range items {
		boxes[i] = it.box
	}
	origins, err := r.engine.Layout(boxes, float64(req.Width), float64(req.Height), gaps)
	if err != nil {
		return Result{}, err
	}

	class := r.Class(req.Class)
	key := r.compositeKey(class, req, items, gaps)
	path, err := r.store.ResolveOrCreate(class, key, func() ([]byte, error) {
		return r.paint(req.Width, req.Height, items, origins)
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Path: path, Width: req.Width, Height: req.Height, Skipped: skipped}, nil
}

// measure builds boxes for every element, resolving photos on the way.
// Degraded elements keep their slot with a zero box.
func (r *Renderer) measure(elements []Element) ([]placed, int) {
	items := make([]placed, 0, len(elements))
	var skipped int
	for _, el := range elements {
		it := placed{el: el}
		switch e := el.(type) {
		case Icon:
			if e.Spec.Size > 0 {
				it.box = layout.Box{Width: e.Spec.Size, Height: e.Spec.Size}
			} else {
				it.skip = true
			}
		case Text:
			it.box = measureText(r.fonts, e)
			it.skip = e.Text == ""
		case TextStack:
			it.box = measureStack(r.fonts, e)
			it.skip = it.box.Width == 0
		case Separator:
			it.box = layout.Box{Width: e.Width, Height: e.Height}
		case Photo:
			path, err := r.resolvePhoto(e)
			if err == nil {
				it.img, err = loadPhoto(path, int(e.Size))
			}
			if err != nil {
				logger.Warnf("photo %s: %v", e.Ref, err)
				it.skip = true
			} else {
				it.photo = path
				it.box = layout.Box{Width: e.Size, Height: e.Size}
			}
		case Ring:
			it.box = measureRing(e)
		default:
			logger.Warnf("render: unsupported element %T", el)
			it.skip = true
		}
		if it.skip {
			skipped++
		}
		items = append(items, it)
	}
	return items, skipped
}

func (r *Renderer) resolvePhoto(p Photo) (string, error) {
	if p.Size <= 0 {
		return "", errors.New("non-positive size")
	}
	if p.Fetch == nil {
		return "", fmt.Errorf("%w: no source", cache.ErrProducerFailed)
	}
	key := cache.DeriveKey(keyVersion, "photo", p.Ref, strconv.Itoa(int(p.Size)))
	return r.store.ResolveOrCreate(r.Class(ClassRaw), key, func() ([]byte, error) {
		data, err := p.Fetch()
		if err != nil {
			return nil, err
		}
		return asPNG(data)
	})
}

func (r *Renderer) compositeKey(class cache.Class, req Request, items []placed, gaps []float64) cache.Key {
	parts := []string{
		keyVersion,
		class.Name,
		strconv.Itoa(req.Width) + "x" + strconv.Itoa(req.Height),
		r.fonts.ID(),
		fmt.Sprintf("adjust=%g", r.engine.BaselineAdjust),
		fmt.Sprintf("gaps=%v", gaps),
	}
	for _, it := range items {
		part := it.el.keyPart()
		if it.skip {
			part = "skip|" + part
		}
		if it.photo != "" {
			part += "|" + it.photo
		}
		parts = append(parts, part)
	}
	return cache.DeriveKey(parts...)
}

func (r *Renderer) paint(w, h int, items []placed, origins []layout.Point) ([]byte, error) {
	dc := gg.NewContext(w, h)
	defer dc.Close()

	for i, it := range items {
		if it.skip {
			continue
		}
		o := origins[i]
		if err := r.paintElement(dc, it, o); err != nil {
			return nil, fmt.Errorf("paint %T: %w", it.el, err)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Renderer) paintElement(dc *gg.Context, it placed, o layout.Point) error {
	switch e := it.el.(type) {
	case Icon:
		paintIcon(dc, e.Spec, o.X, o.Y)
	case Text:
		drawText(dc, r.fonts, e, o.X, o.Y)
	case TextStack:
		drawStack(dc, r.fonts, e, o.X, o.Y)
	case Separator:
		dc.ClearPath()
		x := o.X + e.Width/2
		dc.MoveTo(x, o.Y)
		dc.LineTo(x, o.Y+e.Height)
		dc.SetLineWidth(e.LineWidth)
		dc.SetLineCap(gg.LineCapRound)
		dc.SetRGBA(e.Color.R, e.Color.G, e.Color.B, e.Opacity)
		return dc.Stroke()
	case Photo:
		paintPhoto(dc, it.img, o.X, o.Y, e.Radius)
	case Ring:
		return paintRing(dc, r.fonts, e, o.X+it.box.Width/2, o.Y+it.box.Width/2)
	}
	return nil
}
