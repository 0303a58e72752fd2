// Package feature computes fixed-length gradient-orientation histogram
// descriptors from segmented hand regions.
package feature

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// normEpsilon guards the block normalization against division by zero on
// all-zero blocks (e.g. frames where no hand was found).
const normEpsilon = 1e-10

// Params holds the descriptor geometry. Identical Params must be used when
// building a dataset and when classifying live frames, otherwise the vectors
// are incompatible with the trained model.
type Params struct {
	ResizeWidth  int `json:"resize_width"`
	ResizeHeight int `json:"resize_height"`
	CellSize     int `json:"cell_size"`  // cell side in pixels
	BlockSize    int `json:"block_size"` // block side in cells
	Bins         int `json:"bins"`       // orientation bins over 0-180 degrees
}

// DefaultParams returns the canonical configuration: a 64x64 region with 8x8
// cells, 2x2-cell blocks and 9 orientation bins, which yields a 1764-element
// descriptor.
func DefaultParams() Params {
	return Params{
		ResizeWidth:  64,
		ResizeHeight: 64,
		CellSize:     8,
		BlockSize:    2,
		Bins:         9,
	}
}

// Length returns the descriptor length produced by these parameters.
func (p Params) Length() int {
	cellsX := p.ResizeWidth / p.CellSize
	cellsY := p.ResizeHeight / p.CellSize
	blocksX := cellsX - p.BlockSize + 1
	blocksY := cellsY - p.BlockSize + 1
	if blocksX < 1 || blocksY < 1 {
		return 0
	}
	return blocksX * blocksY * p.BlockSize * p.BlockSize * p.Bins
}

// Equal reports whether two parameter sets produce compatible descriptors.
func (p Params) Equal(o Params) bool {
	return p == o
}

// Validate checks that the parameters describe a usable descriptor geometry.
func (p Params) Validate() error {
	if p.ResizeWidth <= 0 || p.ResizeHeight <= 0 {
		return errors.Errorf("resize target must be positive, got %dx%d", p.ResizeWidth, p.ResizeHeight)
	}
	if p.CellSize <= 0 {
		return errors.Errorf("cell size must be positive, got %d", p.CellSize)
	}
	if p.ResizeWidth%p.CellSize != 0 || p.ResizeHeight%p.CellSize != 0 {
		return errors.Errorf("resize target %dx%d is not divisible by cell size %d",
			p.ResizeWidth, p.ResizeHeight, p.CellSize)
	}
	if p.BlockSize <= 0 {
		return errors.Errorf("block size must be positive, got %d", p.BlockSize)
	}
	if p.Bins <= 0 {
		return errors.Errorf("bin count must be positive, got %d", p.Bins)
	}
	if p.Length() == 0 {
		return errors.Errorf("parameters %+v produce an empty descriptor", p)
	}
	return nil
}

// Extractor computes descriptors with a fixed parameter set.
type Extractor struct {
	params Params
}

// NewExtractor creates an Extractor after validating the parameters.
func NewExtractor(params Params) (*Extractor, error) {
	if err := params.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid feature parameters")
	}
	return &Extractor{params: params}, nil
}

// Params returns the extractor's parameter set.
func (e *Extractor) Params() Params {
	return e.params
}

// Extract computes the descriptor for a masked grayscale region.
//
// The region is resized to the configured target, per-pixel gradients are
// binned into per-cell orientation histograms, and overlapping blocks of
// cells are concatenated and L2-normalized. The result always has length
// Params().Length(), even for a nil or empty region, so an empty mask
// degrades to the zero vector instead of failing.
func (e *Extractor) Extract(region *image.Gray) []float64 {
	p := e.params
	out := make([]float64, p.Length())
	if region == nil || region.Bounds().Dx() == 0 || region.Bounds().Dy() == 0 {
		return out
	}

	lum := e.resizeLuma(region)

	cellsX := p.ResizeWidth / p.CellSize
	cellsY := p.ResizeHeight / p.CellSize

	// Per-cell orientation histograms with linear interpolation between the
	// two nearest bins, unsigned gradients over [0, 180).
	cells := make([][]float64, cellsX*cellsY)
	for i := range cells {
		cells[i] = make([]float64, p.Bins)
	}

	binWidth := 180.0 / float64(p.Bins)
	for y := 0; y < p.ResizeHeight; y++ {
		for x := 0; x < p.ResizeWidth; x++ {
			gx := lum[y][clampIdx(x+1, p.ResizeWidth)] - lum[y][clampIdx(x-1, p.ResizeWidth)]
			gy := lum[clampIdx(y+1, p.ResizeHeight)][x] - lum[clampIdx(y-1, p.ResizeHeight)][x]

			mag := math.Hypot(gx, gy)
			if mag == 0 {
				continue
			}
			angle := math.Atan2(gy, gx) * 180 / math.Pi
			if angle < 0 {
				angle += 180
			}
			if angle >= 180 {
				angle -= 180
			}

			pos := angle/binWidth - 0.5
			lo := int(math.Floor(pos))
			frac := pos - float64(lo)
			hi := (lo + 1 + p.Bins) % p.Bins
			lo = (lo + p.Bins) % p.Bins

			cell := (y/p.CellSize)*cellsX + x/p.CellSize
			cells[cell][lo] += mag * (1 - frac)
			cells[cell][hi] += mag * frac
		}
	}

	// Concatenate overlapping blocks with a one-cell stride and normalize
	// each block independently.
	blockLen := p.BlockSize * p.BlockSize * p.Bins
	blocksX := cellsX - p.BlockSize + 1
	blocksY := cellsY - p.BlockSize + 1

	idx := 0
	for by := 0; by < blocksY; by++ {
		for bx := 0; bx < blocksX; bx++ {
			block := out[idx : idx+blockLen]
			k := 0
			for cy := by; cy < by+p.BlockSize; cy++ {
				for cx := bx; cx < bx+p.BlockSize; cx++ {
					copy(block[k:k+p.Bins], cells[cy*cellsX+cx])
					k += p.Bins
				}
			}
			n := floats.Norm(block, 2)
			floats.Scale(1/math.Sqrt(n*n+normEpsilon), block)
			idx += blockLen
		}
	}

	return out
}

// resizeLuma resizes the region to the descriptor target and returns its
// luminance as a row-major float grid.
func (e *Extractor) resizeLuma(region *image.Gray) [][]float64 {
	p := e.params
	resized := imaging.Resize(region, p.ResizeWidth, p.ResizeHeight, imaging.Lanczos)

	lum := make([][]float64, p.ResizeHeight)
	for y := 0; y < p.ResizeHeight; y++ {
		lum[y] = make([]float64, p.ResizeWidth)
		for x := 0; x < p.ResizeWidth; x++ {
			// The source is grayscale, so any channel carries the luminance.
			lum[y][x] = float64(resized.Pix[resized.PixOffset(x, y)])
		}
	}
	return lum
}

func clampIdx(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Grayscale converts any image to 8-bit grayscale using the standard
// luminance weights.
func Grayscale(img image.Image) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			gray.Set(x, y, img.At(x, y))
		}
	}
	return gray
}
