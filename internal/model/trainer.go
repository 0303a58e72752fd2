package model

import (
	"math/rand"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ayusman/mudra/internal/dataset"
	"github.com/ayusman/mudra/internal/feature"
)

// ErrEmptyDataset is returned when training is attempted on a dataset with
// no samples.
var ErrEmptyDataset = errors.New("dataset contains no samples")

// Report holds one family's held-out evaluation result.
type Report struct {
	Family   string
	Accuracy float64
}

// Prediction is a classification outcome. Confidence is only meaningful when
// HasConfidence is set; the golearn-backed families predict labels without
// class distributions and leave it unset.
type Prediction struct {
	Label         string
	Confidence    float64
	HasConfidence bool
}

// TrainedModel is the selected best classifier plus the metadata needed to
// check configuration compatibility at load time.
type TrainedModel struct {
	Family   string
	Params   feature.Params
	Classes  []string
	Accuracy float64
	Reports  []Report
	// Seed is the trainer seed; loading reseeds the shared rand source with
	// it so refitting reproduces the trained classifier.
	Seed int64

	family       Family
	trainVectors [][]float64
	trainLabels  []string
}

// Predict classifies a feature vector.
func (m *TrainedModel) Predict(vec []float64) (Prediction, error) {
	label, err := m.family.Predict(vec)
	if err != nil {
		return Prediction{}, err
	}
	return Prediction{Label: label}, nil
}

// Trainer fits every classifier family on a dataset and keeps the one with
// the best held-out accuracy.
type Trainer struct {
	// Seed drives the train/test split. Identical seed and dataset give
	// identical splits, scores and selection.
	Seed int64
	// TestFraction is the held-out share; zero means the default 0.2.
	TestFraction float64
	// PlotPath, when set, receives a per-family accuracy bar chart.
	PlotPath string
}

// Train runs the full selection procedure. Families whose fit fails are
// excluded with a warning; training fails only if no family fits.
func (t *Trainer) Train(ds *dataset.Dataset) (*TrainedModel, error) {
	n := len(ds.Samples)
	if n == 0 {
		return nil, ErrEmptyDataset
	}
	classes := ds.Labels()
	if len(classes) < 2 {
		return nil, errors.Errorf("need at least 2 gesture classes, corpus has %d", len(classes))
	}

	trainVecs, trainLabels, testVecs, testLabels := t.split(ds)
	logrus.WithFields(logrus.Fields{
		"samples": n,
		"train":   len(trainVecs),
		"test":    len(testVecs),
		"classes": len(classes),
		"seed":    t.Seed,
	}).Info("training classifiers")

	var (
		best    Family
		bestAcc = -1.0
		reports []Report
		accs    []float64
	)
	for _, fam := range DefaultFamilies() {
		// golearn's bagging and pruning draw from the shared math/rand
		// source; pinning it before every fit makes each family's training
		// reproducible for a given seed.
		rand.Seed(t.Seed)
		if err := fam.Train(trainVecs, trainLabels, classes); err != nil {
			logrus.WithError(err).WithField("family", fam.Name()).Warn("family excluded")
			continue
		}
		acc, err := evaluate(fam, testVecs, testLabels)
		if err != nil {
			logrus.WithError(err).WithField("family", fam.Name()).Warn("family excluded")
			continue
		}
		reports = append(reports, Report{Family: fam.Name(), Accuracy: acc})
		accs = append(accs, acc)
		logrus.WithFields(logrus.Fields{"family": fam.Name(), "accuracy": acc}).Info("family evaluated")

		// Strict improvement required: families are ordered simplest first,
		// so ties keep the simpler model.
		if acc > bestAcc {
			bestAcc = acc
			best = fam
		}
	}
	if best == nil {
		return nil, errors.New("no classifier family could be trained")
	}

	if len(accs) > 1 {
		mean, _ := stats.Mean(accs)
		sd, _ := stats.StandardDeviation(accs)
		logrus.WithFields(logrus.Fields{"mean": mean, "stddev": sd}).Info("accuracy summary")
	}

	if t.PlotPath != "" {
		if err := writeAccuracyChart(reports, t.PlotPath); err != nil {
			logrus.WithError(err).Warn("accuracy chart not written")
		} else {
			logrus.WithField("path", t.PlotPath).Info("accuracy chart written")
		}
	}

	return &TrainedModel{
		Family:       best.Name(),
		Params:       ds.Params,
		Classes:      classes,
		Accuracy:     bestAcc,
		Reports:      reports,
		Seed:         t.Seed,
		family:       best,
		trainVectors: trainVecs,
		trainLabels:  trainLabels,
	}, nil
}

// split shuffles sample indices with the trainer's seed and cuts off the
// held-out partition. At least one sample lands on each side.
func (t *Trainer) split(ds *dataset.Dataset) (trainVecs [][]float64, trainLabels []string, testVecs [][]float64, testLabels []string) {
	frac := t.TestFraction
	if frac <= 0 || frac >= 1 {
		frac = 0.2
	}
	n := len(ds.Samples)
	nTest := int(float64(n) * frac)
	if nTest < 1 {
		nTest = 1
	}
	if nTest >= n {
		nTest = n - 1
	}

	rng := rand.New(rand.NewSource(t.Seed))
	order := rng.Perm(n)

	for i, idx := range order {
		s := ds.Samples[idx]
		if i < nTest {
			testVecs = append(testVecs, s.Vector)
			testLabels = append(testLabels, s.Label)
		} else {
			trainVecs = append(trainVecs, s.Vector)
			trainLabels = append(trainLabels, s.Label)
		}
	}
	return trainVecs, trainLabels, testVecs, testLabels
}

// evaluate returns the fraction of exact label matches on the held-out set.
func evaluate(fam Family, vecs [][]float64, labels []string) (float64, error) {
	if len(vecs) == 0 {
		return 0, errors.New("empty evaluation set")
	}
	correct := 0
	for i, vec := range vecs {
		got, err := fam.Predict(vec)
		if err != nil {
			return 0, err
		}
		if got == labels[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(vecs)), nil
}
