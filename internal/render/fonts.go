package render

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/leonardcser/overlay-art/internal/config"
	"github.com/leonardcser/overlay-art/internal/logger"
)

// ErrResourceMissing reports a font or icon resource file that is absent.
var ErrResourceMissing = errors.New("render: resource missing")

// FontBook loads font sources per weight on first use. Configured files
// that are missing or unreadable fall back to the embedded Go fonts.
type FontBook struct {
	paths map[Weight]string

	mu      sync.Mutex
	sources map[Weight]*text.FontSource
}

// NewFontBook returns a book over the configured font files.
func NewFontBook(f config.Fonts) *FontBook {
	return &FontBook{
		paths: map[Weight]string{
			Regular: f.Regular,
			Medium:  f.Medium,
			Bold:    f.Bold,
		},
		sources: make(map[Weight]*text.FontSource),
	}
}

// ID identifies the configured font files for cache keys.
func (b *FontBook) ID() string {
	return fmt.Sprintf("%q|%q|%q", b.paths[Regular], b.paths[Medium], b.paths[Bold])
}

// Load returns the configured source for w. It fails with
// ErrResourceMissing when the file is absent.
func (b *FontBook) Load(w Weight) (*text.FontSource, error) {
	path := b.paths[w]
	if path == "" {
		return nil, fmt.Errorf("%w: no %s font configured", ErrResourceMissing, w)
	}
	src, err := text.NewFontSourceFromFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s font %s", ErrResourceMissing, w, path)
		}
		return nil, err
	}
	return src, nil
}

// Face returns a face of weight w at size points. It never fails.
func (b *FontBook) Face(w Weight, size float64) text.Face {
	return b.source(w).Face(size)
}

func (b *FontBook) source(w Weight) *text.FontSource {
	b.mu.Lock()
	defer b.mu.Unlock()
	if src, ok := b.sources[w]; ok {
		return src
	}
	src, err := b.Load(w)
	if err != nil {
		if b.paths[w] != "" {
			logger.Warnf("font: %v, using embedded fallback", err)
		}
		src = embedded(w)
	}
	b.sources[w] = src
	return src
}

func embedded(w Weight) *text.FontSource {
	data := goregular.TTF
	switch w {
	case Medium:
		data = gomedium.TTF
	case Bold:
		data = gobold.TTF
	}
	src, err := text.NewFontSource(data)
	if err != nil {
		// The embedded fonts are known-good.
		panic(fmt.Sprintf("render: embedded %s font: %v", w, err))
	}
	return src
}
