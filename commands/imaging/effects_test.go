package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func at(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func TestEffectNamesMatchChoices(t *testing.T) {
	assert.Equal(t, []string{"grayscale", "invert", "sepia"}, FilterNames())
	assert.Equal(t, []string{"pixelate", "mirror", "posterize"}, GeneratorNames())

	_, err := lookupEffect(filters, "pixelate")
	assert.ErrorIs(t, err, ErrUnknownEffect)
}

func TestGrayscale(t *testing.T) {
	out := Grayscale(solid(2, 2, color.NRGBA{R: 200, G: 50, B: 10, A: 255}))
	c := at(out, 1, 1)
	assert.Equal(t, c.R, c.G)
	assert.Equal(t, c.G, c.B)
	assert.EqualValues(t, 255, c.A)
}

func TestInvert(t *testing.T) {
	out := Invert(solid(1, 1, color.NRGBA{R: 0, G: 100, B: 255, A: 255}))
	assert.Equal(t, color.NRGBA{R: 255, G: 155, B: 0, A: 255}, at(out, 0, 0))
}

func TestSepiaWarmsColours(t *testing.T) {
	out := Sepia(solid(1, 1, color.NRGBA{R: 100, G: 100, B: 100, A: 255}))
	c := at(out, 0, 0)
	assert.Greater(t, c.R, c.G)
	assert.Greater(t, c.G, c.B)

	white := at(Sepia(solid(1, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 255})), 0, 0)
	assert.EqualValues(t, 255, white.R, "channels are clamped")
}

func TestPosterize(t *testing.T) {
	out := Posterize(solid(1, 1, color.NRGBA{R: 0, G: 200, B: 255, A: 255}))
	assert.Equal(t, color.NRGBA{R: 0, G: 170, B: 255, A: 255}, at(out, 0, 0))
}

func TestMirror(t *testing.T) {
	img := solid(4, 1, color.NRGBA{A: 255})
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})

	out := Mirror(img)
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, at(out, 3, 0))
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, at(out, 0, 0))
}

func TestPixelateKeepsSize(t *testing.T) {
	src := solid(48, 24, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	out := Pixelate(src)
	assert.Equal(t, src.Bounds().Size(), out.Bounds().Size())
	c := at(out, 47, 23)
	assert.InDelta(t, 10, int(c.R), 1)
	assert.InDelta(t, 20, int(c.G), 1)
	assert.InDelta(t, 30, int(c.B), 1)
}

func TestFit(t *testing.T) {
	small := solid(10, 10, color.NRGBA{A: 255})
	assert.Same(t, image.Image(small), Fit(small, 64))

	out := Fit(solid(200, 50, color.NRGBA{A: 255}), 100)
	require.Equal(t, image.Pt(100, 25), out.Bounds().Size())

	out = Fit(solid(10, 4000, color.NRGBA{A: 255}), 100)
	assert.Equal(t, image.Pt(1, 100), out.Bounds().Size())
}
