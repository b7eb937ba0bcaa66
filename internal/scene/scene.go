// Package scene provides the virtual side of the benchmark: an analytic 3D
// scene rendered by raycasting, infrastructures that capture from it (or
// replay captures from disk, or delegate to an external renderer), and a
// ground-truth reference implementation derived from the scene geometry.
package scene

import "math"

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 { return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z} }

// Sub returns v - w.
func (v Vec3) Sub(w Vec3) Vec3 { return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z} }

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Dot returns the dot product of v and w.
func (v Vec3) Dot(w Vec3) float64 { return v.X*w.X + v.Y*w.Y + v.Z*w.Z }

// Primitive is an analytic surface a ray can hit.
type Primitive interface {
	// Intersect returns the smallest positive ray parameter t such that
	// origin + t*dir lies on the surface, or ok=false when the ray misses.
	// dir need not be normalized; t is in units of dir.
	Intersect(origin, dir Vec3) (t float64, ok bool)
}

// Plane is an infinite plane through Point with the given Normal.
type Plane struct {
	Point  Vec3
	Normal Vec3
}

// Intersect implements Primitive.
func (p Plane) Intersect(origin, dir Vec3) (float64, bool) {
	denom := dir.Dot(p.Normal)
	if math.Abs(denom) < 1e-12 {
		return 0, false
	}
	t := p.Point.Sub(origin).Dot(p.Normal) / denom
	if t <= 1e-9 {
		return 0, false
	}
	return t, true
}

// Sphere is a sphere of the given Radius around Center.
type Sphere struct {
	Center Vec3
	Radius float64
}

// Intersect implements Primitive.
func (s Sphere) Intersect(origin, dir Vec3) (float64, bool) {
	oc := origin.Sub(s.Center)
	a := dir.Dot(dir)
	b := 2 * oc.Dot(dir)
	c := oc.Dot(oc) - s.Radius*s.Radius

	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	sqrtDisc := math.Sqrt(disc)

	// nearest intersection in front of the origin
	if t := (-b - sqrtDisc) / (2 * a); t > 1e-9 {
		return t, true
	}
	if t := (-b + sqrtDisc) / (2 * a); t > 1e-9 {
		return t, true
	}
	return 0, false
}

// Scene is a collection of primitives.
type Scene struct {
	Primitives []Primitive
}

// Trace returns the nearest hit parameter along the ray, or ok=false when
// nothing is hit.
func (s *Scene) Trace(origin, dir Vec3) (float64, bool) {
	nearest := math.Inf(1)
	hit := false
	for _, p := range s.Primitives {
		if t, ok := p.Intersect(origin, dir); ok && t < nearest {
			nearest = t
			hit = true
		}
	}
	return nearest, hit
}
