package feature

import (
	"image"
	"image/color"
	"math"
	"reflect"
	"testing"
)

// edgeImage returns a grayscale image whose left half is dark and right half
// bright, producing a strong vertical edge.
func edgeImage(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := w / 2; x < w; x++ {
			img.Pix[img.PixOffset(x, y)] = 230
		}
	}
	return img
}

func TestDefaultParams_Length(t *testing.T) {
	if got := DefaultParams().Length(); got != 1764 {
		t.Fatalf("default descriptor length = %d, want 1764", got)
	}
}

func TestExtract_Length(t *testing.T) {
	ex, err := NewExtractor(DefaultParams())
	if err != nil {
		t.Fatalf("new extractor: %v", err)
	}
	vec := ex.Extract(edgeImage(120, 90))
	if len(vec) != 1764 {
		t.Fatalf("descriptor length = %d, want 1764", len(vec))
	}

	nonZero := 0
	for _, v := range vec {
		if v != 0 {
			nonZero++
		}
	}
	if nonZero == 0 {
		t.Error("edge image produced an all-zero descriptor")
	}
}

func TestExtract_ZeroRegion(t *testing.T) {
	ex, err := NewExtractor(DefaultParams())
	if err != nil {
		t.Fatalf("new extractor: %v", err)
	}

	for _, region := range []*image.Gray{
		nil,
		image.NewGray(image.Rect(0, 0, 0, 0)),
		image.NewGray(image.Rect(0, 0, 64, 64)),
	} {
		vec := ex.Extract(region)
		if len(vec) != 1764 {
			t.Fatalf("descriptor length = %d, want 1764", len(vec))
		}
		for i, v := range vec {
			if v != 0 {
				t.Fatalf("element %d = %f, want 0 for empty region", i, v)
			}
		}
	}
}

func TestExtract_Deterministic(t *testing.T) {
	ex, err := NewExtractor(DefaultParams())
	if err != nil {
		t.Fatalf("new extractor: %v", err)
	}
	img := edgeImage(80, 80)

	a := ex.Extract(img)
	b := ex.Extract(img)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("repeated extraction produced different descriptors")
	}
}

func TestExtract_BlockNorm(t *testing.T) {
	ex, err := NewExtractor(DefaultParams())
	if err != nil {
		t.Fatalf("new extractor: %v", err)
	}
	vec := ex.Extract(edgeImage(64, 64))

	blockLen := 2 * 2 * 9
	for off := 0; off+blockLen <= len(vec); off += blockLen {
		sum := 0.0
		for _, v := range vec[off : off+blockLen] {
			sum += v * v
		}
		if n := math.Sqrt(sum); n > 1.0001 {
			t.Fatalf("block at %d has norm %f > 1", off, n)
		}
	}
}

func TestParams_Validate(t *testing.T) {
	cases := []struct {
		name string
		p    Params
		ok   bool
	}{
		{"default", DefaultParams(), true},
		{"zero width", Params{ResizeHeight: 64, CellSize: 8, BlockSize: 2, Bins: 9}, false},
		{"indivisible cell", Params{ResizeWidth: 60, ResizeHeight: 64, CellSize: 8, BlockSize: 2, Bins: 9}, false},
		{"zero bins", Params{ResizeWidth: 64, ResizeHeight: 64, CellSize: 8, BlockSize: 2}, false},
		{"block larger than grid", Params{ResizeWidth: 16, ResizeHeight: 16, CellSize: 8, BlockSize: 4, Bins: 9}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.p.Validate()
			if tc.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestGrayscale(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{A: 255})

	gray := Grayscale(src)
	if gray.GrayAt(0, 0).Y != 255 {
		t.Errorf("white pixel = %d, want 255", gray.GrayAt(0, 0).Y)
	}
	if gray.GrayAt(1, 0).Y != 0 {
		t.Errorf("black pixel = %d, want 0", gray.GrayAt(1, 0).Y)
	}
}
