package model

import (
	"math/rand"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestFamilies_TrainPredict(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	var vectors [][]float64
	var labels []string
	for i := 0; i < 20; i++ {
		vectors = append(vectors, synthVector(rng, 0))
		labels = append(labels, "fist")
		vectors = append(vectors, synthVector(rng, 10))
		labels = append(labels, "open_palm")
	}
	classes := []string{"fist", "open_palm"}

	for _, fam := range DefaultFamilies() {
		t.Run(fam.Name(), func(t *testing.T) {
			if err := fam.Train(vectors, labels, classes); err != nil {
				t.Fatalf("train failed: %v", err)
			}
			got, err := fam.Predict(synthVector(rng, 10))
			if err != nil {
				t.Fatalf("predict failed: %v", err)
			}
			if got != "open_palm" {
				t.Errorf("predicted %q, want open_palm", got)
			}
		})
	}
}

func TestForestFamily_ReproducibleFit(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	var vectors [][]float64
	var labels []string
	for i := 0; i < 30; i++ {
		vectors = append(vectors, noisyVector(rng, 0))
		labels = append(labels, "fist")
		vectors = append(vectors, noisyVector(rng, 1))
		labels = append(labels, "open_palm")
	}
	classes := []string{"fist", "open_palm"}

	var held [][]float64
	for i := 0; i < 16; i++ {
		held = append(held, noisyVector(rng, float64(i%2)))
	}

	fit := func() []string {
		rand.Seed(23)
		fam := newForestFamily()
		if err := fam.Train(vectors, labels, classes); err != nil {
			t.Fatalf("train failed: %v", err)
		}
		out := make([]string, len(held))
		for i, vec := range held {
			got, err := fam.Predict(vec)
			if err != nil {
				t.Fatalf("predict failed: %v", err)
			}
			out[i] = got
		}
		return out
	}

	first := fit()
	for run := 0; run < 4; run++ {
		if !reflect.DeepEqual(fit(), first) {
			t.Fatalf("run %d: forest predictions differ under an identical seed", run)
		}
	}
}

func TestFamily_PredictBeforeTrain(t *testing.T) {
	if _, err := newKNNFamily().Predict([]float64{1, 2, 3}); err == nil {
		t.Fatal("expected error from untrained classifier")
	}
}

func TestNewFamily_Unknown(t *testing.T) {
	if _, err := newFamily("perceptron"); err == nil {
		t.Fatal("expected error for unknown family name")
	}
}

func TestWriteAccuracyChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accuracy.png")
	reports := []Report{
		{Family: FamilyTree, Accuracy: 0.9},
		{Family: FamilyForest, Accuracy: 0.95},
		{Family: FamilyKNN, Accuracy: 1.0},
	}
	if err := writeAccuracyChart(reports, path); err != nil {
		t.Fatalf("chart failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("chart file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("chart file is empty")
	}
}

func TestWriteAccuracyChart_NoReports(t *testing.T) {
	if err := writeAccuracyChart(nil, filepath.Join(t.TempDir(), "x.png")); err == nil {
		t.Fatal("expected error for empty report list")
	}
}
