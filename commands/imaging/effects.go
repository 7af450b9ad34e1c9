package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

var ErrUnknownEffect = errors.New("unknown effect")

const (
	// larger inputs are scaled down before processing
	maxDimension = 1024

	pixelBlock     = 12
	posterizeLevel = 4
)

// Effect transforms an image into a new one. The input is left untouched.
type Effect func(src image.Image) image.Image

type namedEffect struct {
	name  string
	apply Effect
}

var filters = []namedEffect{
	{"grayscale", Grayscale},
	{"invert", Invert},
	{"sepia", Sepia},
}

var generators = []namedEffect{
	{"pixelate", Pixelate},
	{"mirror", Mirror},
	{"posterize", Posterize},
}

// FilterNames lists the filters in display order.
func FilterNames() []string { return names(filters) }

// GeneratorNames lists the generators in display order.
func GeneratorNames() []string { return names(generators) }

func names(effects []namedEffect) []string {
	out := make([]string, 0, len(effects))
	for _, e := range effects {
		out = append(out, e.name)
	}
	return out
}

func lookupEffect(effects []namedEffect, name string) (Effect, error) {
	for _, e := range effects {
		if e.name == name {
			return e.apply, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownEffect, name)
}

// Fit scales src down so neither side exceeds limit, keeping the aspect ratio.
func Fit(src image.Image, limit int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= limit && h <= limit {
		return src
	}
	if w >= h {
		h = h * limit / w
		w = limit
	} else {
		w = w * limit / h
		h = limit
	}
	dst := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// mapPixels applies fn to every pixel of src in non-premultiplied 8-bit RGBA.
func mapPixels(src image.Image, fn func(c color.NRGBA) color.NRGBA) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			dst.SetNRGBA(x-b.Min.X, y-b.Min.Y, fn(c))
		}
	}
	return dst
}

func Grayscale(src image.Image) image.Image {
	return mapPixels(src, func(c color.NRGBA) color.NRGBA {
		y := color.GrayModel.Convert(color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}).(color.Gray).Y
		return color.NRGBA{R: y, G: y, B: y, A: c.A}
	})
}

func Invert(src image.Image) image.Image {
	return mapPixels(src, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: 0xff - c.R, G: 0xff - c.G, B: 0xff - c.B, A: c.A}
	})
}

func Sepia(src image.Image) image.Image {
	return mapPixels(src, func(c color.NRGBA) color.NRGBA {
		r, g, b := float64(c.R), float64(c.G), float64(c.B)
		return color.NRGBA{
			R: clamp(0.393*r + 0.769*g + 0.189*b),
			G: clamp(0.349*r + 0.686*g + 0.168*b),
			B: clamp(0.272*r + 0.534*g + 0.131*b),
			A: c.A,
		}
	})
}

// Pixelate averages blocks by scaling down and back up with nearest
// neighbour sampling.
func Pixelate(src image.Image) image.Image {
	b := src.Bounds()
	small := image.NewRGBA(image.Rect(0, 0, max(b.Dx()/pixelBlock, 1), max(b.Dy()/pixelBlock, 1)))
	draw.ApproxBiLinear.Scale(small, small.Bounds(), src, b, draw.Src, nil)

	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), small, small.Bounds(), draw.Src, nil)
	return dst
}

// Mirror reflects the left half of the image onto the right half.
func Mirror(src image.Image) image.Image {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)

	w := b.Dx()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < w/2; x++ {
			dst.Set(w-1-x, y, dst.At(x, y))
		}
	}
	return dst
}

func Posterize(src image.Image) image.Image {
	step := 0xff / (posterizeLevel - 1)
	quantize := func(v uint8) uint8 {
		return uint8((int(v) + step/2) / step * step)
	}
	return mapPixels(src, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: quantize(c.R), G: quantize(c.G), B: quantize(c.B), A: c.A}
	})
}

func clamp(v float64) uint8 {
	if v > 0xff {
		return 0xff
	}
	if v < 0 {
		return 0
	}
	return uint8(v)
}
