// Package units provides small conversion helpers for the physical
// quantities the benchmark works in: field-of-view angles specified in
// degrees and the radian/half-tangent forms the triangulation needs.
package units

import (
	"fmt"
	"math"
)

// Degrees is an angle expressed in degrees, the unit all configuration
// and infrastructure setup values use.
type Degrees float64

// Radians converts the angle to radians.
func (d Degrees) Radians() float64 {
	return float64(d) * math.Pi / 180
}

// HalfTan returns tan(angle/2), the scale factor between a centered
// normalized coordinate and a physical offset at unit depth. Every
// field-of-view term in the triangulation reduces to this.
func (d Degrees) HalfTan() float64 {
	return math.Tan(d.Radians() / 2)
}

// Validate rejects angles that cannot describe a field of view.
func (d Degrees) Validate() error {
	if d <= 0 || d >= 180 {
		return fmt.Errorf("field of view %v° out of range (0°, 180°)", float64(d))
	}
	return nil
}
