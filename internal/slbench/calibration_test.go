package slbench

import (
	"errors"
	"testing"
)

func TestCalibrationIdentityPassThrough(t *testing.T) {
	f := NewFrame(4, 4)
	f.Fill(77)

	var nilCal *Calibration
	if got := nilCal.Undistort(f); got != f {
		t.Fatal("nil calibration did not pass the frame through")
	}
	zero := &Calibration{}
	if got := zero.Undistort(f); got != f {
		t.Fatal("zero calibration did not pass the frame through")
	}
}

func TestCalibrationUndistortPreservesCenter(t *testing.T) {
	f := NewFrame(9, 9)
	f.Set(4, 4, 255)

	c := &Calibration{K1: 0.1}
	out := c.Undistort(f)
	if out == f {
		t.Fatal("distorting calibration returned the input frame")
	}
	// zero radius at the principal point, so the center pixel is unmoved
	if got := out.At(4, 4); got != 255 {
		t.Fatalf("center pixel = %d after undistortion, want 255", got)
	}
}

func TestCalibrationCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	id := SetupID("Test", testSetup())

	if _, err := LoadCalibration(dir, id); !errors.Is(err, ErrNoCalibration) {
		t.Fatalf("LoadCalibration on empty cache = %v, want ErrNoCalibration", err)
	}

	want := &Calibration{FocalX: 500, FocalY: 510, CenterX: 32, CenterY: 24, K1: -0.2, K2: 0.05}
	if err := SaveCalibration(dir, id, want); err != nil {
		t.Fatal(err)
	}

	got, err := LoadCalibration(dir, id)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *want {
		t.Fatalf("LoadCalibration = %+v, want %+v", got, want)
	}
}
