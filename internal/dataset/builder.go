package dataset

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Builder walks a labeled image corpus and turns it into a Dataset.
type Builder struct {
	enc *Encoder
}

// NewBuilder creates a Builder using the given encoder.
func NewBuilder(enc *Encoder) *Builder {
	return &Builder{enc: enc}
}

var imageExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".bmp":  {},
	".tif":  {},
	".tiff": {},
}

// Build processes every image under root, where each immediate subdirectory
// names a gesture label. Unreadable or corrupt images are skipped with a
// warning; an empty corpus yields an empty dataset. Only a missing or
// unreadable root is fatal.
func (b *Builder) Build(root string) (*Dataset, error) {
	labels, err := labelDirs(root)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{Params: b.enc.Params()}
	for _, label := range labels {
		dir := filepath.Join(root, label)
		paths, err := imagePaths(dir)
		if err != nil {
			logrus.WithError(err).WithField("label", label).Warn("skipping unreadable label directory")
			continue
		}
		for _, path := range paths {
			vec, coverage, err := b.encodeFile(path)
			if err != nil {
				logrus.WithError(err).WithField("image", path).Warn("skipping image")
				continue
			}
			logrus.WithFields(logrus.Fields{
				"image":    path,
				"label":    label,
				"coverage": coverage,
			}).Debug("sample added")
			ds.Samples = append(ds.Samples, Sample{Vector: vec, Label: label})
		}
	}

	if len(ds.Samples) == 0 {
		logrus.WithField("corpus", root).Warn("corpus produced no samples")
	}
	return ds, nil
}

// ExportSegmented writes the masked hand region of every corpus image to an
// output tree with the same label layout. This is the offline first stage of
// the pipeline, useful for eyeballing segmentation quality.
func (b *Builder) ExportSegmented(root, out string) (int, error) {
	labels, err := labelDirs(root)
	if err != nil {
		return 0, err
	}

	written := 0
	for _, label := range labels {
		outDir := filepath.Join(out, label)
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return written, errors.Wrapf(err, "create output directory %s", outDir)
		}
		paths, err := imagePaths(filepath.Join(root, label))
		if err != nil {
			logrus.WithError(err).WithField("label", label).Warn("skipping unreadable label directory")
			continue
		}
		for _, path := range paths {
			img, err := imaging.Open(path)
			if err != nil {
				logrus.WithError(err).WithField("image", path).Warn("skipping image")
				continue
			}
			region, _, err := b.enc.Region(img)
			if err != nil {
				logrus.WithError(err).WithField("image", path).Warn("skipping image")
				continue
			}
			name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".png"
			if err := imaging.Save(region, filepath.Join(outDir, name)); err != nil {
				return written, errors.Wrapf(err, "save segmented image %s", name)
			}
			written++
		}
	}
	return written, nil
}

func (b *Builder) encodeFile(path string) ([]float64, float64, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, 0, errors.Wrap(err, "load image")
	}
	return b.enc.Encode(img)
}

// labelDirs returns the sorted label subdirectories of root.
func labelDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.Wrapf(err, "read corpus root %s", root)
	}
	labels := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			labels = append(labels, e.Name())
		}
	}
	sort.Strings(labels)
	return labels, nil
}

// imagePaths returns the sorted image files directly under dir.
func imagePaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := imageExts[strings.ToLower(filepath.Ext(e.Name()))]; !ok {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
