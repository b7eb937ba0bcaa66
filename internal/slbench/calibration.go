package slbench

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// ErrNoCalibration is returned when an infrastructure requires a calibration
// that is not present in the cache.
var ErrNoCalibration = errors.New("calibration not found")

// Calibration holds pinhole intrinsics and radial distortion coefficients
// for a camera. The zero value (and a nil *Calibration) is the identity:
// captures pass through untouched.
type Calibration struct {
	FocalX  float64 `json:"focal_x"`
	FocalY  float64 `json:"focal_y"`
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`
	K1      float64 `json:"k1"`
	K2      float64 `json:"k2"`
}

// IsIdentity reports whether undistortion would be a no-op.
func (c *Calibration) IsIdentity() bool {
	return c == nil || (c.K1 == 0 && c.K2 == 0)
}

// Undistort remaps a captured frame through the radial distortion model.
// For each undistorted output pixel it samples the distorted source pixel
// nearest to where the lens bent it. Identity calibrations return the frame
// unchanged.
func (c *Calibration) Undistort(f *Frame) *Frame {
	if c.IsIdentity() {
		return f
	}

	cx, cy := c.CenterX, c.CenterY
	if cx == 0 && cy == 0 {
		cx = float64(f.Width) / 2
		cy = float64(f.Height) / 2
	}
	fx, fy := c.FocalX, c.FocalY
	if fx == 0 {
		fx = float64(f.Width)
	}
	if fy == 0 {
		fy = fx
	}

	out := NewFrame(f.Width, f.Height)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			nx := (float64(x) - cx) / fx
			ny := (float64(y) - cy) / fy
			r2 := nx*nx + ny*ny
			scale := 1 + c.K1*r2 + c.K2*r2*r2

			sx := int(math.Round(nx*scale*fx + cx))
			sy := int(math.Round(ny*scale*fy + cy))
			out.Set(x, y, f.At(sx, sy))
		}
	}
	return out
}

func calibrationPath(dir string, id uint32) string {
	return filepath.Join(dir, fmt.Sprintf("calibration_%d.json", id))
}

// LoadCalibration reads a cached calibration for the given setup ID.
// A missing file is reported as ErrNoCalibration so callers can distinguish
// "never calibrated" from a corrupt cache.
func LoadCalibration(dir string, id uint32) (*Calibration, error) {
	data, err := os.ReadFile(calibrationPath(dir, id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: setup %d in %s", ErrNoCalibration, id, dir)
	}
	if err != nil {
		return nil, fmt.Errorf("read calibration: %w", err)
	}

	var c Calibration
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse calibration for setup %d: %w", id, err)
	}
	return &c, nil
}

// SaveCalibration writes a calibration into the cache for the given setup ID.
func SaveCalibration(dir string, id uint32, c *Calibration) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode calibration: %w", err)
	}
	if err := os.WriteFile(calibrationPath(dir, id), data, 0644); err != nil {
		return fmt.Errorf("write calibration: %w", err)
	}
	return nil
}
