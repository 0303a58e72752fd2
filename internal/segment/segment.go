// Package segment isolates the hand region of a frame by clustering
// chrominance values into two groups and picking the skin-toned one.
package segment

import (
	"image"
	"image/color"
	"math"

	"github.com/ayusman/mudra/internal/cluster"
)

// Skin-tone band in YCbCr chroma coordinates. Chroma is used instead of RGB
// because it is far less sensitive to scene lighting.
const (
	skinCbMin = 77
	skinCbMax = 127
	skinCrMin = 133
	skinCrMax = 173
)

var bandCenter = struct{ cb, cr float64 }{
	cb: (skinCbMin + skinCbMax) / 2.0,
	cr: (skinCrMin + skinCrMax) / 2.0,
}

// Mask is a binary hand/background labeling with the same spatial dimensions
// as the frame it was computed from. Pix holds 0 (background) or 1 (hand) in
// row-major order.
type Mask struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewMask returns an all-background mask of the given dimensions.
func NewMask(width, height int) *Mask {
	return &Mask{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

// At returns the label at (x, y).
func (m *Mask) At(x, y int) uint8 {
	return m.Pix[y*m.Width+x]
}

// Coverage returns the fraction of pixels labeled as hand.
func (m *Mask) Coverage() float64 {
	if len(m.Pix) == 0 {
		return 0
	}
	n := 0
	for _, v := range m.Pix {
		if v != 0 {
			n++
		}
	}
	return float64(n) / float64(len(m.Pix))
}

// Apply zeroes every background pixel of gray, leaving only the hand region.
// The mask and image must have identical dimensions.
func (m *Mask) Apply(gray *image.Gray) *image.Gray {
	b := gray.Bounds()
	out := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.At(x, y) != 0 {
				out.SetGray(x, y, gray.GrayAt(b.Min.X+x, b.Min.Y+y))
			}
		}
	}
	return out
}

// ToGray renders the mask as a black/white image for writing to disk.
func (m *Mask) ToGray() *image.Gray {
	out := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for i, v := range m.Pix {
		if v != 0 {
			out.Pix[i] = 255
		}
	}
	return out
}

// Segment computes the hand mask for a frame. The returned mask always has
// the frame's dimensions. Frames whose chroma cannot be split into two
// clusters (uniform color, too few pixels) yield an empty mask: no hand is a
// normal outcome, not an error.
func Segment(img image.Image) (*Mask, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	mask := NewMask(w, h)
	if w == 0 || h == 0 {
		return mask, nil
	}

	points := make([]cluster.Point, 0, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			_, cb, cr := color.RGBToYCbCr(uint8(r>>8), uint8(g>>8), uint8(bl>>8))
			points = append(points, cluster.Point{
				Index: y*w + x,
				X:     float64(cb),
				Y:     float64(cr),
			})
		}
	}

	groups, err := cluster.Partition(points, 2)
	if err != nil {
		// Degenerate chroma distributions cannot contain a hand.
		return mask, nil
	}

	hand := pickHand(groups)
	if hand < 0 {
		return mask, nil
	}
	for _, p := range groups[hand].Members {
		mask.Pix[p.Index] = 1
	}
	return mask, nil
}

// pickHand selects the cluster representing the hand. A centroid inside the
// skin band wins outright; if both or neither qualify, the centroid closest
// to the band center wins. Returns -1 only for an empty group list.
func pickHand(groups []cluster.Group) int {
	if len(groups) == 0 {
		return -1
	}

	inBand := -1
	bandCount := 0
	for i, g := range groups {
		if g.CenterX >= skinCbMin && g.CenterX <= skinCbMax &&
			g.CenterY >= skinCrMin && g.CenterY <= skinCrMax {
			inBand = i
			bandCount++
		}
	}
	if bandCount == 1 {
		return inBand
	}

	best := 0
	bestDist := math.Inf(1)
	for i, g := range groups {
		d := math.Hypot(g.CenterX-bandCenter.cb, g.CenterY-bandCenter.cr)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}
