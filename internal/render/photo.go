package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"math"
	"os"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// asPNG checks that data is a decodable, non-empty image and returns it as
// PNG. PNG input is returned unchanged.
func asPNG(data []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode photo: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("empty %s photo", format)
	}
	if format == "png" {
		return data, nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// loadPhoto decodes the image at path and scales it to size×size.
func loadPhoto(path string, size int) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

// paintPhoto paints img with its top-left corner at (x, y), clipped to a
// rounded square of the given corner radius.
func paintPhoto(dc *gg.Context, img *image.RGBA, x, y, radius float64) {
	ix, iy := int(math.Round(x)), int(math.Round(y))
	size := img.Bounds().Dx()

	dc.ClearPath()
	roundedRect(dc, float64(ix), float64(iy), float64(size), float64(size), radius)
	clip := dc.AsMask()
	dc.ClearPath()

	compositeMasked(dc, img, ix, iy, clip)
}
