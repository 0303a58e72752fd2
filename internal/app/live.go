package app

import (
	"context"
	"image"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ayusman/mudra/internal/policy"
)

// Run executes the live loop until the context is canceled or the camera
// fails fatally. The camera handle is released on every exit path.
//
// Loop shape, once per tick:
//  1. Read a mirrored frame; consecutive read failures beyond the configured
//     limit are fatal (a disconnected camera must not hang silently).
//  2. Motion gate: static scenes keep the loop in idle mode at a low frame
//     rate and skip classification entirely.
//  3. Segment, extract and predict; empty masks and low-confidence results
//     degrade to the no-gesture label.
//  4. Feed the label through the debouncer and dispatch on its decision.
func (a *App) Run(ctx context.Context) error {
	if err := a.camera.Open(); err != nil {
		return errors.Wrap(err, "open camera")
	}
	defer func() {
		if err := a.camera.Close(); err != nil {
			a.log.WithError(err).Warn("error closing camera")
		}
	}()
	defer a.motion.Close()

	a.camera.SetFPS(a.cfg.IdleFPS)

	idleInterval := time.Second / time.Duration(a.cfg.IdleFPS)
	activeInterval := time.Second / time.Duration(a.cfg.ActiveFPS)
	idleTimeout := time.Duration(a.cfg.IdleTimeoutMs) * time.Millisecond

	ticker := time.NewTicker(idleInterval)
	defer ticker.Stop()

	activeMode := false
	lastMotion := time.Now()
	failures := 0

	a.log.WithFields(logrus.Fields{
		"idle_fps":   a.cfg.IdleFPS,
		"active_fps": a.cfg.ActiveFPS,
		"actions":    len(a.actions),
	}).Info("live classification started")

	for {
		select {
		case <-ctx.Done():
			a.log.Info("live classification stopped")
			return nil
		case <-ticker.C:
			frame, err := a.camera.ReadFrame()
			if err != nil {
				failures++
				if failures >= a.cfg.MaxCaptureFailures {
					return errors.Wrapf(err, "camera failed %d consecutive reads", failures)
				}
				a.log.WithError(err).Warn("error reading frame")
				continue
			}
			failures = 0

			motion, changed := a.motion.Detect(frame)
			if motion {
				lastMotion = time.Now()
				if !activeMode {
					activeMode = true
					a.camera.SetFPS(a.cfg.ActiveFPS)
					ticker.Reset(activeInterval)
					a.log.WithField("changed_pct", changed).Debug("switched to active mode")
				}
			} else if activeMode && time.Since(lastMotion) > idleTimeout {
				activeMode = false
				a.camera.SetFPS(a.cfg.IdleFPS)
				ticker.Reset(idleInterval)
				a.debouncer.Reset()
				a.log.Debug("switched to idle mode")
			}

			if !activeMode {
				continue
			}

			label := a.classify(frame)
			decision := a.debouncer.Observe(label)
			if decision.Dispatch {
				a.dispatch(decision.Label)
			}
		}
	}
}

// classify turns one frame into a gesture label, failing soft to no-gesture
// on segmentation problems, empty masks and low-confidence predictions.
func (a *App) classify(frame image.Image) string {
	vec, coverage, err := a.encoder.Encode(frame)
	if err != nil {
		a.log.WithError(err).Warn("frame encoding failed")
		return policy.NoGesture
	}
	if coverage < a.cfg.MinCoverage {
		return policy.NoGesture
	}

	pred, err := a.predictor.Predict(vec)
	if err != nil {
		a.log.WithError(err).Warn("prediction failed")
		return policy.NoGesture
	}
	if pred.HasConfidence && pred.Confidence < a.cfg.MinConfidence {
		return policy.NoGesture
	}
	return pred.Label
}
