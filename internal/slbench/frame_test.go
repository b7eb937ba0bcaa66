package slbench

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestFramePixelAccess(t *testing.T) {
	f := NewFrame(4, 3)
	f.Set(2, 1, 200)
	if got := f.At(2, 1); got != 200 {
		t.Fatalf("At(2,1) = %d, want 200", got)
	}

	// out-of-range access is defined, not a panic
	f.Set(4, 0, 99)
	f.Set(-1, 0, 99)
	if got := f.At(4, 0); got != 0 {
		t.Fatalf("out-of-range At = %d, want 0", got)
	}
}

func TestFrameFillAndClone(t *testing.T) {
	f := NewFrame(3, 2)
	f.Fill(128)

	c := f.Clone()
	c.Set(0, 0, 0)
	if f.At(0, 0) != 128 {
		t.Fatal("mutating a clone changed the original")
	}
	if !bytes.Equal(c.Pix[1:], f.Pix[1:]) {
		t.Fatal("clone pixels differ from original")
	}
}

func TestFramePGMRoundTrip(t *testing.T) {
	f := NewFrame(5, 4)
	for i := range f.Pix {
		f.Pix[i] = uint8(i * 13)
	}

	path := filepath.Join(t.TempDir(), "frame.pgm")
	if err := f.WritePGM(path); err != nil {
		t.Fatal(err)
	}

	got, err := ReadPGM(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Width != f.Width || got.Height != f.Height {
		t.Fatalf("round trip dimensions %dx%d, want %dx%d", got.Width, got.Height, f.Width, f.Height)
	}
	if !bytes.Equal(got.Pix, f.Pix) {
		t.Fatal("round trip pixels differ")
	}
}

func TestReadPGMRejectsBadInput(t *testing.T) {
	dir := t.TempDir()

	if _, err := ReadPGM(filepath.Join(dir, "missing.pgm")); err == nil {
		t.Fatal("missing file accepted")
	}

	bad := filepath.Join(dir, "bad.pgm")
	if err := os.WriteFile(bad, []byte("P6\n2 2\n255\nxxxx"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadPGM(bad); err == nil {
		t.Fatal("P6 magic accepted")
	}
}
