// Package config holds runtime configuration for the gesture pipeline.
package config

import (
	"encoding/json"
	"image"
	"os"

	"github.com/pkg/errors"

	"github.com/ayusman/mudra/internal/feature"
)

// Config collects every tunable of the pipeline. The zero value is not
// usable; start from Default.
type Config struct {
	// Camera and frame loop.
	CameraID           int `json:"camera_id"`
	IdleFPS            int `json:"idle_fps"`
	ActiveFPS          int `json:"active_fps"`
	IdleTimeoutMs      int `json:"idle_timeout_ms"`
	MaxCaptureFailures int `json:"max_capture_failures"`

	// Motion gating.
	MotionThreshold float64 `json:"motion_threshold"` // percent of pixels changed

	// Segmentation.
	WorkWidth   int     `json:"work_width"`
	WorkHeight  int     `json:"work_height"`
	MinCoverage float64 `json:"min_coverage"` // hand-pixel fraction below which a frame is "no gesture"

	// Region of interest, cropped from the frame before segmentation. A
	// zero width or height disables the crop.
	ROIX      int `json:"roi_x"`
	ROIY      int `json:"roi_y"`
	ROIWidth  int `json:"roi_width"`
	ROIHeight int `json:"roi_height"`

	// Feature extraction. Must match the parameters stored in the model file.
	Feature feature.Params `json:"feature"`

	// Debounce policy.
	ConfirmThreshold int `json:"confirm_threshold"`
	IdleThreshold    int `json:"idle_threshold"`

	// Classification. MinConfidence only applies when the model backend
	// reports class confidence.
	MinConfidence float64 `json:"min_confidence"`

	// External-command actions.
	CommandTimeoutMs int `json:"command_timeout_ms"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		CameraID:           0,
		IdleFPS:            5,
		ActiveFPS:          15,
		IdleTimeoutMs:      2000,
		MaxCaptureFailures: 30,
		MotionThreshold:    1.0,
		WorkWidth:          160,
		WorkHeight:         120,
		MinCoverage:        0.02,
		Feature:            feature.DefaultParams(),
		ConfirmThreshold:   3,
		IdleThreshold:      4,
		MinConfidence:      0.6,
		CommandTimeoutMs:   5000,
	}
}

// Load reads a JSON overlay on top of Default. A missing path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

// Validate checks cross-field consistency.
func (c Config) Validate() error {
	if c.IdleFPS <= 0 || c.ActiveFPS <= 0 {
		return errors.Errorf("frame rates must be positive, got idle=%d active=%d", c.IdleFPS, c.ActiveFPS)
	}
	if c.WorkWidth <= 0 || c.WorkHeight <= 0 {
		return errors.Errorf("working size must be positive, got %dx%d", c.WorkWidth, c.WorkHeight)
	}
	if c.MinCoverage < 0 || c.MinCoverage > 1 {
		return errors.Errorf("min coverage must be in [0,1], got %f", c.MinCoverage)
	}
	if c.ROIX < 0 || c.ROIY < 0 || c.ROIWidth < 0 || c.ROIHeight < 0 {
		return errors.Errorf("roi must be non-negative, got (%d,%d) %dx%d",
			c.ROIX, c.ROIY, c.ROIWidth, c.ROIHeight)
	}
	if c.ConfirmThreshold < 1 {
		return errors.Errorf("confirm threshold must be at least 1, got %d", c.ConfirmThreshold)
	}
	if c.IdleThreshold < 1 {
		return errors.Errorf("idle threshold must be at least 1, got %d", c.IdleThreshold)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return errors.Errorf("min confidence must be in [0,1], got %f", c.MinConfidence)
	}
	if c.MaxCaptureFailures < 1 {
		return errors.Errorf("max capture failures must be at least 1, got %d", c.MaxCaptureFailures)
	}
	return errors.Wrap(c.Feature.Validate(), "feature parameters")
}

// ROI returns the configured region of interest, or the zero rectangle when
// cropping is disabled.
func (c Config) ROI() image.Rectangle {
	if c.ROIWidth <= 0 || c.ROIHeight <= 0 {
		return image.Rectangle{}
	}
	return image.Rect(c.ROIX, c.ROIY, c.ROIX+c.ROIWidth, c.ROIY+c.ROIHeight)
}
