package source

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Normalize decodes a JPEG, PNG, GIF or WebP image and returns it as a PNG
// forced to size×size, ignoring the aspect ratio.
func Normalize(data []byte, size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("normalize: invalid size %d", size)
	}
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("normalize: decode: %w", err)
	}
	if src.Bounds().Empty() {
		return nil, fmt.Errorf("normalize: empty %s image", format)
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
