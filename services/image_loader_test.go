package services

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func pngSize(t *testing.T, data []byte) [2]int {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return [2]int{img.Bounds().Dx(), img.Bounds().Dy()}
}

func TestPrepareImageResizesShorterSide(t *testing.T) {
	out, err := PrepareImage(encodeTestPNG(t, 400, 200), 100)
	require.NoError(t, err)
	assert.Equal(t, [2]int{200, 100}, pngSize(t, out))
}

func TestPrepareImageKeepsSmallImages(t *testing.T) {
	out, err := PrepareImage(encodeTestPNG(t, 50, 40), 224)
	require.NoError(t, err)
	assert.Equal(t, [2]int{50, 40}, pngSize(t, out))

	out, err = PrepareImage(encodeTestPNG(t, 500, 300), 0)
	require.NoError(t, err)
	assert.Equal(t, [2]int{500, 300}, pngSize(t, out))
}

func TestPrepareImageFlattensTransparency(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	out, err := PrepareImage(buf.Bytes(), 0)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	r, g, b, a := img.At(1, 1).RGBA()
	assert.Equal(t, uint32(0xffff), a)
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff}, []uint32{r, g, b})
}

func TestPrepareImageRejectsGarbage(t *testing.T) {
	_, err := PrepareImage([]byte("GIF89a?"), 224)
	assert.Error(t, err)
}
