package slbench

import (
	"fmt"

	"github.com/banshee-data/slbench/internal/units"
)

// Resolution is a device pixel resolution.
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DeviceSetup describes one optical device (camera or projector).
type DeviceSetup struct {
	Resolution    Resolution    `json:"resolution"`
	HorizontalFOV units.Degrees `json:"horizontal_fov"`
	VerticalFOV   units.Degrees `json:"vertical_fov"`
}

// InfrastructureSetup holds the immutable physical parameters of one
// camera/projector pair. All values must be strictly positive except the
// separation, whose sign encodes which side the projector sits on.
type InfrastructureSetup struct {
	Camera                    DeviceSetup `json:"camera"`
	Projector                 DeviceSetup `json:"projector"`
	CameraProjectorSeparation float64     `json:"camera_projector_separation"`
}

// Validate checks the setup invariants.
func (s InfrastructureSetup) Validate() error {
	check := func(name string, d DeviceSetup) error {
		if d.Resolution.Width <= 0 || d.Resolution.Height <= 0 {
			return fmt.Errorf("%s resolution %dx%d must be positive", name, d.Resolution.Width, d.Resolution.Height)
		}
		if err := d.HorizontalFOV.Validate(); err != nil {
			return fmt.Errorf("%s horizontal FOV: %w", name, err)
		}
		if err := d.VerticalFOV.Validate(); err != nil {
			return fmt.Errorf("%s vertical FOV: %w", name, err)
		}
		return nil
	}
	if err := check("camera", s.Camera); err != nil {
		return err
	}
	return check("projector", s.Projector)
}

// Infrastructure is the device/scene collaborator: it projects a pattern
// frame and returns the camera's view of it. Implementations may block on
// hardware I/O or an external renderer process; the experiment treats
// ProjectAndCapture as an ordinary blocking call.
type Infrastructure interface {
	Name() string
	Setup() InfrastructureSetup

	// Init prepares the infrastructure for a run (device open, calibration
	// load). Failures here are fatal to the experiment.
	Init(rc *RunContext) error

	// ProjectAndCapture projects the pattern and returns the captured frame.
	ProjectAndCapture(rc *RunContext, pattern *Frame) (*Frame, error)

	// Calibration returns the lens calibration used to undistort captures,
	// or nil when captures need no correction.
	Calibration() *Calibration
}

// SetupID produces a deterministic identifier for an infrastructure name and
// its numeric setup, used as the calibration cache key. The hash is a
// shift-and-fold over the canonical string form, stable across runs.
func SetupID(name string, s InfrastructureSetup) uint32 {
	id := fmt.Sprintf("%s-%dx%d-%v-%v-%dx%d-%v-%v-%v",
		name,
		s.Camera.Resolution.Width, s.Camera.Resolution.Height,
		float64(s.Camera.HorizontalFOV), float64(s.Camera.VerticalFOV),
		s.Projector.Resolution.Width, s.Projector.Resolution.Height,
		float64(s.Projector.HorizontalFOV), float64(s.Projector.VerticalFOV),
		s.CameraProjectorSeparation)

	var hash uint32
	for i := 0; i < len(id); i++ {
		hash = (hash << 4) + uint32(id[i])
		if x := hash & 0xF0000000; x != 0 {
			hash ^= x >> 24
			hash &^= x
		}
	}
	return hash
}
