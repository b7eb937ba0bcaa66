package units

import (
	"math"
	"testing"
)

func TestDegreesRadians(t *testing.T) {
	if got := Degrees(180).Radians(); math.Abs(got-math.Pi) > 1e-12 {
		t.Fatalf("180° = %v rad, want pi", got)
	}
	if got := Degrees(0).Radians(); got != 0 {
		t.Fatalf("0° = %v rad, want 0", got)
	}
}

func TestDegreesHalfTan(t *testing.T) {
	// tan(45°) == 1 for a 90° field of view
	if got := Degrees(90).HalfTan(); math.Abs(got-1) > 1e-12 {
		t.Fatalf("HalfTan(90°) = %v, want 1", got)
	}
	if got := Degrees(60).HalfTan(); math.Abs(got-math.Tan(math.Pi/6)) > 1e-12 {
		t.Fatalf("HalfTan(60°) = %v, want tan(30°)", got)
	}
}

func TestDegreesValidate(t *testing.T) {
	for _, bad := range []Degrees{0, -10, 180, 360} {
		if err := bad.Validate(); err == nil {
			t.Errorf("Validate(%v) = nil, want error", float64(bad))
		}
	}
	if err := Degrees(60).Validate(); err != nil {
		t.Errorf("Validate(60) = %v, want nil", err)
	}
}
