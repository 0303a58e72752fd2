package capture

import (
	"image"
	"image/draw"
	"sync"

	"gocv.io/x/gocv"
)

// Motion gate constants.
const (
	// blurKernel smooths frames before differencing so sensor noise does
	// not register as motion.
	blurKernel = 21
	// diffThreshold is the per-pixel luminance delta that counts as change.
	diffThreshold = 25
)

// MotionGate detects motion between consecutive frames by thresholded
// differencing of blurred grayscale mats. It lets the live loop skip
// segmentation while the scene is static.
type MotionGate struct {
	threshold float64 // percent of pixels that must change
	prev      gocv.Mat
	mu        sync.Mutex
}

// NewMotionGate creates a MotionGate. The threshold is the percentage of
// pixels that must change between frames to report motion; 1.0 means 1%.
func NewMotionGate(threshold float64) *MotionGate {
	return &MotionGate{
		threshold: threshold,
		prev:      gocv.NewMat(),
	}
}

// Detect compares a frame against the previous one. The first frame becomes
// the baseline and reports no motion. Returns whether motion was detected
// and the percentage of pixels that changed.
func (g *MotionGate) Detect(frame image.Image) (bool, float64) {
	if frame == nil {
		return false, 0
	}
	b := frame.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return false, 0
	}

	src, err := gocv.ImageToMatRGBA(toRGBA(frame))
	if err != nil {
		return false, 0
	}
	defer src.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorRGBAToGray)
	gocv.GaussianBlur(gray, &gray, image.Pt(blurKernel, blurKernel), 0, 0, gocv.BorderDefault)

	g.mu.Lock()
	defer g.mu.Unlock()

	// A missing or differently sized baseline starts a fresh comparison.
	if g.prev.Empty() || g.prev.Rows() != gray.Rows() || g.prev.Cols() != gray.Cols() {
		gray.CopyTo(&g.prev)
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(g.prev, gray, &diff)
	gocv.Threshold(diff, &diff, diffThreshold, 255, gocv.ThresholdBinary)

	changed := gocv.CountNonZero(diff)
	gray.CopyTo(&g.prev)

	percent := float64(changed) / float64(gray.Rows()*gray.Cols()) * 100.0
	return percent > g.threshold, percent
}

// Reset clears the baseline so the next frame starts a fresh comparison.
func (g *MotionGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prev.Close()
	g.prev = gocv.NewMat()
}

// SetThreshold updates the detection threshold.
// Values less than or equal to 0 are ignored.
func (g *MotionGate) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.threshold = threshold
}

// Close releases the baseline mat. The gate must not be used afterwards.
func (g *MotionGate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prev.Close()
}

// toRGBA adapts a frame for mat construction, skipping the copy when the
// source is already RGBA.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
