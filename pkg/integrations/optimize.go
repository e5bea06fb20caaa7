package integrations

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// OptimizeSettings controls page-image optimization for e-reader targets.
type OptimizeSettings struct {
	MaxWidth  int
	MaxHeight int
	Grayscale bool
	Quality   int // JPEG quality, 1-100
}

// DefaultEReaderSettings fits a standard 300ppi 6" e-ink panel.
func DefaultEReaderSettings() OptimizeSettings {
	return OptimizeSettings{
		MaxWidth:  1236,
		MaxHeight: 1648,
		Grayscale: true,
		Quality:   85,
	}
}

// Optimizer downscales, grayscales and re-encodes page images.
type Optimizer struct {
	settings OptimizeSettings
}

func NewOptimizer(settings OptimizeSettings) *Optimizer {
	return &Optimizer{settings: settings}
}

// Process decodes the image, resizes it to fit the configured bounds,
// optionally converts to grayscale, and re-encodes it. PNG input stays
// PNG; everything else becomes JPEG.
func (o *Optimizer) Process(imageBytes []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := o.fitDimensions(bounds.Dx(), bounds.Dy())
	if width != bounds.Dx() || height != bounds.Dy() {
		img = resize(img, width, height)
	}

	if o.settings.Grayscale && format != "gray" {
		img = grayscale(img)
	}

	var buf bytes.Buffer
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: o.settings.Quality})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// fitDimensions scales the image to fit within the configured bounds while
// keeping the aspect ratio.
func (o *Optimizer) fitDimensions(width, height int) (int, int) {
	if width <= o.settings.MaxWidth && height <= o.settings.MaxHeight {
		return width, height
	}

	widthScale := float64(o.settings.MaxWidth) / float64(width)
	heightScale := float64(o.settings.MaxHeight) / float64(height)
	scale := widthScale
	if heightScale < widthScale {
		scale = heightScale
	}
	return int(float64(width) * scale), int(float64(height) * scale)
}

func resize(img image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

func grayscale(img image.Image) image.Image {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, img.At(x, y))
		}
	}
	return gray
}
