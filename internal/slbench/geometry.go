package slbench

import (
	"github.com/banshee-data/slbench/internal/units"
)

// PatternXOffsetFactor normalizes a pattern column into [0,1) scaled space.
// It is the bridge from an algorithm's own pattern columns back into
// projector pixel space: projectorColumn = factor * projectorWidth.
func PatternXOffsetFactor(xPattern, patternWidth float64) float64 {
	return xPattern / patternWidth
}

// Displacement triangulates a depth value from a correspondence between a
// pattern column and a camera column.
//
// Both coordinates are centered so they range roughly over [-0.5, 0.5), and
// each is scaled by the half-tangent of the matching horizontal field of
// view. With the camera and projector coplanar and separated horizontally by
// baseline, the depth at the matched point is
//
//	baseline / 2 / (tan(projFOV/2)*xp - tan(camFOV/2)*xc)
//
// A correspondence whose denominator is near zero yields a huge or infinite
// depth; callers must treat non-finite results as "no depth", not an error.
func Displacement(xPattern, xImage, patternWidth, cameraWidth, cameraHFovDeg, projectorHFovDeg, baseline float64) float64 {
	xc := xImage/cameraWidth - 0.5
	xp := xPattern/patternWidth - 0.5

	tgc := units.Degrees(cameraHFovDeg).HalfTan()
	tgp := units.Degrees(projectorHFovDeg).HalfTan()

	return baseline / 2 / (tgp*xp - tgc*xc)
}

// PointCloudXYZ converts a valued depth grid cell into a 3D point. The x
// axis is scaled by the projector's horizontal field of view, the y axis by
// the camera's vertical field of view, and z is the depth unchanged. Used
// only for point cloud export.
func PointCloudXYZ(column, row int, depth float64, patternColumns, cameraHeight int, projectorHFovDeg, cameraVFovDeg float64) (x, y, z float64) {
	halfColumns := float64(patternColumns) / 2
	halfHeight := float64(cameraHeight) / 2

	halfTanH := units.Degrees(projectorHFovDeg).HalfTan()
	halfTanV := units.Degrees(cameraVFovDeg).HalfTan()

	x = (float64(column) - halfColumns) * depth * (2 * halfTanH / float64(patternColumns))
	y = (float64(row) - halfHeight) * depth * (2 * halfTanV / float64(cameraHeight))
	z = depth
	return x, y, z
}
