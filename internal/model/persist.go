package model

import (
	"encoding/gob"
	"math/rand"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/ayusman/mudra/internal/feature"
)

// ErrConfigMismatch is returned when a model file was trained with feature
// parameters different from the running extractor's. Predicting across such
// a mismatch would be garbage, so callers must treat this as fatal.
var ErrConfigMismatch = errors.New("model feature parameters do not match extractor configuration")

// modelFile is the on-disk representation. golearn provides no uniform
// serialization across its families, so the file carries the winning
// family's name, training partition and trainer seed; Load reseeds the
// shared rand source and refits, reproducing the trained classifier exactly.
type modelFile struct {
	Family       string
	Params       feature.Params
	Classes      []string
	Accuracy     float64
	Reports      []Report
	Seed         int64
	TrainVectors [][]float64
	TrainLabels  []string
	CreatedAt    time.Time
}

// Save writes the model to path.
func (m *TrainedModel) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create model file %s", path)
	}
	defer f.Close()

	mf := modelFile{
		Family:       m.Family,
		Params:       m.Params,
		Classes:      m.Classes,
		Accuracy:     m.Accuracy,
		Reports:      m.Reports,
		Seed:         m.Seed,
		TrainVectors: m.trainVectors,
		TrainLabels:  m.trainLabels,
		CreatedAt:    time.Now().UTC(),
	}
	if err := gob.NewEncoder(f).Encode(&mf); err != nil {
		return errors.Wrapf(err, "encode model to %s", path)
	}
	return nil
}

// Load reads a model file and verifies it against the feature parameters the
// caller will extract with. A parameter mismatch fails with
// ErrConfigMismatch before any classifier is rebuilt.
func Load(path string, params feature.Params) (*TrainedModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open model file %s", path)
	}
	defer f.Close()

	var mf modelFile
	if err := gob.NewDecoder(f).Decode(&mf); err != nil {
		return nil, errors.Wrapf(err, "decode model from %s", path)
	}

	if !mf.Params.Equal(params) {
		return nil, errors.Wrapf(ErrConfigMismatch,
			"model expects %d-element vectors (%+v), extractor produces %d (%+v)",
			mf.Params.Length(), mf.Params, params.Length(), params)
	}

	fam, err := newFamily(mf.Family)
	if err != nil {
		return nil, err
	}
	// Same shared-source state as when the family was first fit, so the
	// refit classifier is bit-for-bit the trained one.
	rand.Seed(mf.Seed)
	if err := fam.Train(mf.TrainVectors, mf.TrainLabels, mf.Classes); err != nil {
		return nil, errors.Wrapf(err, "refit %s from %s", mf.Family, path)
	}

	return &TrainedModel{
		Family:       mf.Family,
		Params:       mf.Params,
		Classes:      mf.Classes,
		Accuracy:     mf.Accuracy,
		Reports:      mf.Reports,
		Seed:         mf.Seed,
		family:       fam,
		trainVectors: mf.TrainVectors,
		trainLabels:  mf.TrainLabels,
	}, nil
}
