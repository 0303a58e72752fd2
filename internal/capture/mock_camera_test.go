package capture

import (
	"image"
	"testing"

	"github.com/ayusman/mudra/testdata"
)

func TestMockCamera_Playback(t *testing.T) {
	frames := []image.Image{
		testdata.SkinFrame(32, 24, 0),
		testdata.SkinFrame(32, 24, 2),
	}
	cam := NewMockCamera(frames, false)

	if _, err := cam.ReadFrame(); err == nil {
		t.Fatal("expected error reading from closed camera")
	}
	if err := cam.Open(); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if !cam.IsOpen() {
		t.Fatal("camera not reported open")
	}

	for i := range frames {
		frame, err := cam.ReadFrame()
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if frame != frames[i] {
			t.Fatalf("frame %d: wrong frame returned", i)
		}
	}
	if _, err := cam.ReadFrame(); err == nil {
		t.Fatal("expected error past end of non-looping sequence")
	}

	cam.Reset()
	if _, err := cam.ReadFrame(); err != nil {
		t.Fatalf("read after reset failed: %v", err)
	}

	if err := cam.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if cam.IsOpen() {
		t.Fatal("camera still reported open after close")
	}
}

func TestMockCamera_Loop(t *testing.T) {
	cam := NewMockCamera([]image.Image{testdata.SkinFrame(32, 24, 0)}, true)
	if err := cam.Open(); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer cam.Close()

	for i := 0; i < 5; i++ {
		if _, err := cam.ReadFrame(); err != nil {
			t.Fatalf("looped read %d failed: %v", i, err)
		}
	}
}

func TestMockCamera_NoFrames(t *testing.T) {
	cam := NewMockCamera(nil, false)
	if err := cam.Open(); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer cam.Close()

	if _, err := cam.ReadFrame(); err == nil {
		t.Fatal("expected error with empty frame sequence")
	}
}
