package scene

import (
	"fmt"

	"github.com/banshee-data/slbench/internal/slbench"
)

// VirtualInfrastructure renders captures by raycasting an analytic scene,
// replacing a physical camera/projector pair. The camera sits at the origin
// looking along +Z; the projector sits at (-separation, 0, 0) with the same
// orientation, so a positive separation yields positive triangulated depth.
// Captures are exact (no lens distortion), so no calibration is carried.
type VirtualInfrastructure struct {
	name  string
	setup slbench.InfrastructureSetup
	scene *Scene
}

// NewVirtualInfrastructure builds a virtual infrastructure over the scene.
func NewVirtualInfrastructure(setup slbench.InfrastructureSetup, s *Scene) *VirtualInfrastructure {
	return &VirtualInfrastructure{name: "Virtual", setup: setup, scene: s}
}

func (v *VirtualInfrastructure) Name() string { return v.name }

func (v *VirtualInfrastructure) Setup() slbench.InfrastructureSetup { return v.setup }

func (v *VirtualInfrastructure) Init(rc *slbench.RunContext) error {
	if v.scene == nil || len(v.scene.Primitives) == 0 {
		return fmt.Errorf("virtual infrastructure %s: empty scene", v.name)
	}
	return nil
}

func (v *VirtualInfrastructure) Calibration() *slbench.Calibration { return nil }

// cameraRay returns the unnormalized direction of the camera ray through
// pixel (px, py), with Z fixed to 1 so a hit parameter t is the hit depth.
func (v *VirtualInfrastructure) cameraRay(px, py float64) Vec3 {
	cam := v.setup.Camera
	return Vec3{
		X: (px/float64(cam.Resolution.Width) - 0.5) * 2 * cam.HorizontalFOV.HalfTan(),
		Y: (py/float64(cam.Resolution.Height) - 0.5) * 2 * cam.VerticalFOV.HalfTan(),
		Z: 1,
	}
}

// projectorOrigin is the projector's optical center.
func (v *VirtualInfrastructure) projectorOrigin() Vec3 {
	return Vec3{X: -v.setup.CameraProjectorSeparation}
}

// projectorPixel maps a world point onto the projector's image plane,
// returning pixel coordinates and whether the point lies inside the
// projector's frustum.
func (v *VirtualInfrastructure) projectorPixel(p Vec3) (u, w float64, ok bool) {
	if p.Z <= 0 {
		return 0, 0, false
	}
	proj := v.setup.Projector
	rel := p.Sub(v.projectorOrigin())

	u = (rel.X/p.Z/(2*proj.HorizontalFOV.HalfTan()) + 0.5) * float64(proj.Resolution.Width)
	w = (rel.Y/p.Z/(2*proj.VerticalFOV.HalfTan()) + 0.5) * float64(proj.Resolution.Height)

	ok = u >= 0 && u < float64(proj.Resolution.Width) && w >= 0 && w < float64(proj.Resolution.Height)
	return u, w, ok
}

// ProjectAndCapture raycasts one camera frame: each camera pixel receives
// the pattern intensity its scene hit point is lit with, or black when the
// ray misses the scene or the point falls outside the projector frustum.
func (v *VirtualInfrastructure) ProjectAndCapture(rc *slbench.RunContext, pattern *slbench.Frame) (*slbench.Frame, error) {
	cam := v.setup.Camera.Resolution
	capture := slbench.NewFrame(cam.Width, cam.Height)

	for py := 0; py < cam.Height; py++ {
		for px := 0; px < cam.Width; px++ {
			dir := v.cameraRay(float64(px)+0.5, float64(py)+0.5)
			t, ok := v.scene.Trace(Vec3{}, dir)
			if !ok {
				continue
			}
			hit := dir.Scale(t)

			u, w, ok := v.projectorPixel(hit)
			if !ok {
				continue
			}
			capture.Set(px, py, pattern.At(int(u), int(w)))
		}
	}
	return capture, nil
}

// CorrespondenceTruth returns, for the camera pixel (px, py), the projector
// column lighting its scene hit point, or ok=false when the pixel sees
// nothing lit. This is the geometric ground truth the reference
// implementation is built from.
func (v *VirtualInfrastructure) CorrespondenceTruth(px, py int) (projectorColumn float64, ok bool) {
	dir := v.cameraRay(float64(px)+0.5, float64(py)+0.5)
	t, hit := v.scene.Trace(Vec3{}, dir)
	if !hit {
		return 0, false
	}
	u, _, inside := v.projectorPixel(dir.Scale(t))
	if !inside {
		return 0, false
	}
	return u, true
}
