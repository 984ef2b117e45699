package services

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// PrepareImage decodes any supported image, flattens it to opaque RGB and
// scales it so its shorter side is at most size pixels (size <= 0 keeps the
// original size). The result is PNG encoded.
func PrepareImage(data []byte, size int) ([]byte, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	b := src.Bounds()
	w, h := targetSize(b.Dx(), b.Dy(), size)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode %s image as png: %w", format, err)
	}
	return buf.Bytes(), nil
}

func targetSize(w, h, size int) (int, int) {
	short := min(w, h)
	if size <= 0 || short <= size {
		return w, h
	}
	scale := float64(size) / float64(short)
	return max(1, int(float64(w)*scale+0.5)), max(1, int(float64(h)*scale+0.5))
}
