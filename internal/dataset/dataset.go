// Package dataset builds and persists labeled feature-vector corpora.
package dataset

import (
	"encoding/gob"
	"os"
	"sort"

	"github.com/pkg/errors"

	"github.com/ayusman/mudra/internal/feature"
)

// Sample is one labeled feature vector.
type Sample struct {
	Vector []float64
	Label  string
}

// Dataset is an ordered collection of samples plus the feature parameters
// they were extracted with. It is immutable once built.
type Dataset struct {
	Params  feature.Params
	Samples []Sample
}

// Labels returns the sorted set of distinct gesture labels.
func (d *Dataset) Labels() []string {
	seen := make(map[string]struct{}, 8)
	for _, s := range d.Samples {
		seen[s.Label] = struct{}{}
	}
	labels := make([]string, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// Save writes the dataset to path. Gob keeps float64 values bit-exact, so a
// saved dataset loads back sample-for-sample identical.
func (d *Dataset) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create dataset file %s", path)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(d); err != nil {
		return errors.Wrapf(err, "encode dataset to %s", path)
	}
	return nil
}

// Load reads a dataset written by Save.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open dataset file %s", path)
	}
	defer f.Close()

	var d Dataset
	if err := gob.NewDecoder(f).Decode(&d); err != nil {
		return nil, errors.Wrapf(err, "decode dataset from %s", path)
	}
	return &d, nil
}
