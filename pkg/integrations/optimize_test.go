package integrations

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestProcessResizesToFit(t *testing.T) {
	o := NewOptimizer(OptimizeSettings{MaxWidth: 100, MaxHeight: 200, Quality: 85})

	out, err := o.Process(encodePNG(t, 400, 400))
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
}

func TestProcessKeepsSmallImages(t *testing.T) {
	o := NewOptimizer(OptimizeSettings{MaxWidth: 1000, MaxHeight: 1000, Quality: 85})

	out, err := o.Process(encodePNG(t, 50, 80))
	require.NoError(t, err)

	img, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 50, img.Bounds().Dx())
	assert.Equal(t, 80, img.Bounds().Dy())
}

func TestProcessGrayscale(t *testing.T) {
	o := NewOptimizer(OptimizeSettings{MaxWidth: 1000, MaxHeight: 1000, Grayscale: true, Quality: 85})

	out, err := o.Process(encodePNG(t, 10, 10))
	require.NoError(t, err)

	img, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			assert.Equal(t, r, g)
			assert.Equal(t, g, b)
		}
	}
}

func TestProcessJPEGStaysJPEG(t *testing.T) {
	o := NewOptimizer(DefaultEReaderSettings())

	out, err := o.Process(encodeJPEG(t, 20, 20))
	require.NoError(t, err)

	_, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestProcessRejectsGarbage(t *testing.T) {
	o := NewOptimizer(DefaultEReaderSettings())
	_, err := o.Process([]byte("not an image"))
	require.Error(t, err)
}
