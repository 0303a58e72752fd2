package dataset

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/feature"
	"github.com/ayusman/mudra/internal/segment"
)

// Encoder turns a raw frame into a feature vector: crop to the configured
// region of interest, downscale to the working size, segment the hand, mask
// the grayscale image and extract the HOG descriptor. The same encoder is
// used for offline dataset building and for live classification so the two
// cannot diverge.
type Encoder struct {
	extractor  *feature.Extractor
	roi        image.Rectangle
	workWidth  int
	workHeight int
}

// NewEncoder builds an Encoder from the pipeline configuration.
func NewEncoder(cfg config.Config) (*Encoder, error) {
	ext, err := feature.NewExtractor(cfg.Feature)
	if err != nil {
		return nil, err
	}
	return &Encoder{
		extractor:  ext,
		roi:        cfg.ROI(),
		workWidth:  cfg.WorkWidth,
		workHeight: cfg.WorkHeight,
	}, nil
}

// Params returns the feature parameters the encoder extracts with.
func (e *Encoder) Params() feature.Params {
	return e.extractor.Params()
}

// Region segments img and returns the masked grayscale hand region at the
// working size along with the mask coverage.
func (e *Encoder) Region(img image.Image) (*image.Gray, float64, error) {
	if !e.roi.Empty() {
		img = imaging.Crop(img, e.roi)
	}
	work := imaging.Resize(img, e.workWidth, e.workHeight, imaging.Box)
	mask, err := segment.Segment(work)
	if err != nil {
		return nil, 0, errors.Wrap(err, "segment frame")
	}
	gray := feature.Grayscale(work)
	return mask.Apply(gray), mask.Coverage(), nil
}

// Encode produces the feature vector for a frame and the hand coverage of
// its mask. The vector always has full descriptor length; callers use the
// coverage to decide whether the frame contains a gesture at all.
func (e *Encoder) Encode(img image.Image) ([]float64, float64, error) {
	region, coverage, err := e.Region(img)
	if err != nil {
		return nil, 0, err
	}
	return e.extractor.Extract(region), coverage, nil
}
