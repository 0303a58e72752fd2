// Package model trains, selects and serves gesture classifiers.
package model

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"github.com/sjwhitworth/golearn/base"
	"github.com/sjwhitworth/golearn/ensemble"
	"github.com/sjwhitworth/golearn/filters"
	"github.com/sjwhitworth/golearn/knn"
	"github.com/sjwhitworth/golearn/trees"
)

// Family is the polymorphic classifier capability: fit on labeled vectors,
// predict a label for one vector. The golearn backends sample from the
// shared math/rand source during fitting, so callers that need reproducible
// training (the trainer, the model loader) seed it before calling Train.
type Family interface {
	Name() string
	Train(vectors [][]float64, labels []string, classes []string) error
	Predict(vec []float64) (string, error)
}

// Family names, ordered simplest first. Accuracy ties during selection are
// broken in this order.
const (
	FamilyTree   = "tree"
	FamilyForest = "forest"
	FamilyKNN    = "knn"
)

// familyBuilders maps family names to constructors, so model files can name
// the family they were trained with.
var familyBuilders = map[string]func() Family{
	FamilyTree:   func() Family { return newTreeFamily() },
	FamilyForest: func() Family { return newForestFamily() },
	FamilyKNN:    func() Family { return newKNNFamily() },
}

// DefaultFamilies returns fresh instances of every family, simplest first.
func DefaultFamilies() []Family {
	return []Family{newTreeFamily(), newForestFamily(), newKNNFamily()}
}

// newFamily instantiates a family by name.
func newFamily(name string) (Family, error) {
	build, ok := familyBuilders[name]
	if !ok {
		return nil, errors.Errorf("unknown classifier family %q", name)
	}
	return build(), nil
}

// golearnFamily adapts a golearn classifier to the Family interface. The
// tree-based families cannot split on continuous attributes directly, so
// they discretize features with a ChiMerge filter before fitting and apply
// the same filter at prediction time.
type golearnFamily struct {
	name       string
	discretize bool
	build      func(nFeatures int) base.Classifier

	cls    base.Classifier
	format *base.DenseInstances
	filter base.Filter
}

func newKNNFamily() *golearnFamily {
	return &golearnFamily{
		name: FamilyKNN,
		build: func(int) base.Classifier {
			return knn.NewKnnClassifier("euclidean", "linear", 3)
		},
	}
}

func newForestFamily() *golearnFamily {
	return &golearnFamily{
		name:       FamilyForest,
		discretize: true,
		build: func(nFeatures int) base.Classifier {
			// sqrt(features) attributes per split, the usual forest default.
			perSplit := int(math.Sqrt(float64(nFeatures)))
			if perSplit < 1 {
				perSplit = 1
			}
			return ensemble.NewRandomForest(10, perSplit)
		},
	}
}

func newTreeFamily() *golearnFamily {
	return &golearnFamily{
		name:       FamilyTree,
		discretize: true,
		build: func(int) base.Classifier {
			return trees.NewID3DecisionTree(0.6)
		},
	}
}

// Name implements Family.
func (f *golearnFamily) Name() string {
	return f.name
}

// Train implements Family.
func (f *golearnFamily) Train(vectors [][]float64, labels []string, classes []string) error {
	grid, err := newInstances(vectors, labels, classes)
	if err != nil {
		return errors.Wrapf(err, "%s: build training instances", f.name)
	}
	f.format = base.NewStructuralCopy(grid)

	var fitGrid base.FixedDataGrid = grid
	if f.discretize {
		filter, err := trainChiMerge(grid)
		if err != nil {
			return errors.Wrapf(err, "%s: discretize features", f.name)
		}
		f.filter = filter
		fitGrid = base.NewLazilyFilteredInstances(grid, filter)
	}

	f.cls = f.build(len(vectors[0]))
	if err := f.cls.Fit(fitGrid); err != nil {
		return errors.Wrapf(err, "%s: fit", f.name)
	}
	return nil
}

// Predict implements Family.
func (f *golearnFamily) Predict(vec []float64) (string, error) {
	if f.cls == nil {
		return "", errors.Errorf("%s: classifier is not trained", f.name)
	}
	grid, err := singleRow(f.format, vec)
	if err != nil {
		return "", errors.Wrapf(err, "%s: build prediction instance", f.name)
	}

	var in base.FixedDataGrid = grid
	if f.filter != nil {
		in = base.NewLazilyFilteredInstances(grid, f.filter)
	}

	res, err := f.cls.Predict(in)
	if err != nil {
		return "", errors.Wrapf(err, "%s: predict", f.name)
	}
	return base.GetClass(res, 0), nil
}

// trainChiMerge fits a ChiMerge discretization filter over every non-class
// float attribute of the grid.
func trainChiMerge(grid *base.DenseInstances) (base.Filter, error) {
	filter := filters.NewChiMergeFilter(grid, 0.90)
	for _, a := range base.NonClassFloatAttributes(grid) {
		if err := filter.AddAttribute(a); err != nil {
			return nil, errors.Wrap(err, "add attribute")
		}
	}
	if err := filter.Train(); err != nil {
		return nil, errors.Wrap(err, "train filter")
	}
	return filter, nil
}

// newInstances packs vectors and labels into a golearn grid with float
// feature attributes and a categorical class attribute. The full class set
// is registered up front so grids derived by structural copy can represent
// every label.
func newInstances(vectors [][]float64, labels []string, classes []string) (*base.DenseInstances, error) {
	if len(vectors) == 0 {
		return nil, errors.New("no samples")
	}
	if len(vectors) != len(labels) {
		return nil, errors.Errorf("sample/label length mismatch: %d vs %d", len(vectors), len(labels))
	}

	width := len(vectors[0])
	inst := base.NewDenseInstances()
	featSpecs := make([]base.AttributeSpec, width)
	for i := 0; i < width; i++ {
		featSpecs[i] = inst.AddAttribute(base.NewFloatAttribute(fmt.Sprintf("hog%d", i)))
	}

	classAttr := base.NewCategoricalAttribute()
	classAttr.SetName("gesture")
	for _, c := range classes {
		classAttr.GetSysValFromString(c)
	}
	classSpec := inst.AddAttribute(classAttr)
	if err := inst.AddClassAttribute(classAttr); err != nil {
		return nil, errors.Wrap(err, "class attribute")
	}

	if err := inst.Extend(len(vectors)); err != nil {
		return nil, errors.Wrap(err, "allocate instances")
	}
	for row, vec := range vectors {
		if len(vec) != width {
			return nil, errors.Errorf("sample %d has %d features, expected %d", row, len(vec), width)
		}
		for col, v := range vec {
			inst.Set(featSpecs[col], row, base.PackFloatToBytes(v))
		}
		inst.Set(classSpec, row, classAttr.GetSysValFromString(labels[row]))
	}
	return inst, nil
}

// singleRow builds a one-row grid shaped like format, carrying vec in the
// feature attributes and leaving the class attribute unset.
func singleRow(format *base.DenseInstances, vec []float64) (*base.DenseInstances, error) {
	grid := base.NewStructuralCopy(format)
	if err := grid.Extend(1); err != nil {
		return nil, errors.Wrap(err, "extend grid")
	}
	for i, a := range grid.AllAttributes() {
		if i >= len(vec) {
			break
		}
		spec, err := grid.GetAttribute(a)
		if err != nil {
			return nil, errors.Wrap(err, "attribute spec")
		}
		grid.Set(spec, 0, base.PackFloatToBytes(vec[i]))
	}
	return grid, nil
}
