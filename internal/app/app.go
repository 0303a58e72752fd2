// Package app runs the live gesture classification loop.
package app

import (
	"github.com/sirupsen/logrus"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/dataset"
	"github.com/ayusman/mudra/internal/input"
	"github.com/ayusman/mudra/internal/model"
	"github.com/ayusman/mudra/internal/policy"
)

// Predictor classifies feature vectors. *model.TrainedModel implements it.
type Predictor interface {
	Predict(vec []float64) (model.Prediction, error)
}

// App owns the camera, model and dispatcher for the lifetime of the live
// loop. Everything is acquired in New/Run and released on every exit path.
type App struct {
	cfg        config.Config
	camera     capture.Camera
	motion     *capture.MotionGate
	encoder    *dataset.Encoder
	predictor  Predictor
	debouncer  *policy.Debouncer
	dispatcher input.Dispatcher
	actions    map[string]input.Action
	log        *logrus.Entry
}

// New assembles an App. The actions slice is the full binding table; only
// enabled bindings are dispatched.
func New(cfg config.Config, camera capture.Camera, predictor Predictor,
	dispatcher input.Dispatcher, actions []input.Action) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	encoder, err := dataset.NewEncoder(cfg)
	if err != nil {
		return nil, err
	}

	bound := make(map[string]input.Action, len(actions))
	for _, a := range actions {
		if a.Enabled {
			bound[a.Gesture] = a
		}
	}

	continuous := func(label string) bool {
		a, ok := bound[label]
		return ok && a.Continuous
	}

	return &App{
		cfg:       cfg,
		camera:    camera,
		motion:    capture.NewMotionGate(cfg.MotionThreshold),
		encoder:   encoder,
		predictor: predictor,
		debouncer: policy.NewDebouncer(policy.Config{
			ConfirmThreshold: cfg.ConfirmThreshold,
			IdleThreshold:    cfg.IdleThreshold,
		}, continuous),
		dispatcher: dispatcher,
		actions:    bound,
		log:        logrus.WithField("component", "live"),
	}, nil
}

// Actions returns the enabled gesture-action bindings.
func (a *App) Actions() map[string]input.Action {
	return a.actions
}

// dispatch fires the action bound to a confirmed gesture, if any. Command
// actions run in the background so a slow executable cannot stall the frame
// loop.
func (a *App) dispatch(label string) {
	act, ok := a.actions[label]
	if !ok {
		a.log.WithField("gesture", label).Debug("no action bound")
		return
	}
	if act.Kind == input.KindCommand {
		go a.deliver(act)
		return
	}
	a.deliver(act)
}

func (a *App) deliver(act input.Action) {
	if err := a.dispatcher.Dispatch(act); err != nil {
		a.log.WithError(err).WithField("gesture", act.Gesture).Warn("action dispatch failed")
		return
	}
	a.log.WithFields(logrus.Fields{
		"gesture": act.Gesture,
		"kind":    act.Kind,
	}).Info("action dispatched")
}
