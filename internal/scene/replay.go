package scene

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/slbench/internal/slbench"
)

// ReplayInfrastructure serves previously recorded captures from a directory
// instead of projecting anything, letting an algorithm be re-benchmarked
// against a fixed recorded session. Iteration i is read from
// `<dir>/capture_<i>.pgm`.
type ReplayInfrastructure struct {
	setup slbench.InfrastructureSetup
	dir   string
}

// NewReplayInfrastructure builds a replay infrastructure over a capture
// directory.
func NewReplayInfrastructure(setup slbench.InfrastructureSetup, dir string) *ReplayInfrastructure {
	return &ReplayInfrastructure{setup: setup, dir: dir}
}

func (r *ReplayInfrastructure) Name() string { return "Replay" }

func (r *ReplayInfrastructure) Setup() slbench.InfrastructureSetup { return r.setup }

func (r *ReplayInfrastructure) Init(rc *slbench.RunContext) error {
	info, err := os.Stat(r.dir)
	if err != nil {
		return fmt.Errorf("replay directory %s: %w", r.dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("replay path %s is not a directory", r.dir)
	}
	return nil
}

// Calibration is nil: replayed captures were already undistorted when they
// were recorded.
func (r *ReplayInfrastructure) Calibration() *slbench.Calibration { return nil }

func (r *ReplayInfrastructure) ProjectAndCapture(rc *slbench.RunContext, pattern *slbench.Frame) (*slbench.Frame, error) {
	path := filepath.Join(r.dir, fmt.Sprintf("capture_%d.pgm", rc.Iteration()))
	capture, err := slbench.ReadPGM(path)
	if err != nil {
		return nil, fmt.Errorf("replay capture %d: %w", rc.Iteration(), err)
	}
	return capture, nil
}
