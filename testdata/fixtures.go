// Package testdata generates synthetic frames for tests, avoiding the need
// for binary image assets.
package testdata

import (
	"image"
	"image/color"
)

// Skin is a color whose YCbCr chroma falls inside the skin band used by the
// segmenter (Cb ≈ 103, Cr ≈ 160).
var Skin = color.NRGBA{R: 200, G: 140, B: 110, A: 255}

// Green is a background color far outside the skin band.
var Green = color.NRGBA{R: 40, G: 160, B: 40, A: 255}

// UniformFrame returns a frame filled with a single color.
func UniformFrame(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// SkinFrame returns a green frame with a skin-toned rectangle covering the
// central region, approximating a hand in front of the camera. The offset
// shifts the rectangle horizontally so consecutive frames show motion.
func SkinFrame(w, h, offset int) *image.NRGBA {
	img := UniformFrame(w, h, Green)
	x0, x1 := w/4+offset, 3*w/4+offset
	y0, y1 := h/4, 3*h/4
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if x >= 0 && x < w {
				img.SetNRGBA(x, y, Skin)
			}
		}
	}
	return img
}
