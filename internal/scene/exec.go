package scene

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/banshee-data/slbench/internal/slbench"
)

// ExecInfrastructure delegates rendering to an external renderer process.
// For each capture it writes the pattern to a temp PGM file, invokes the
// renderer with the pattern path, the capture output path and the numeric
// setup, and reads the capture back. A renderer that cannot be launched or
// exits non-zero is fatal to the experiment.
//
// Renderer contract:
//
//	<command> [args...] <patternPath> <capturePath> \
//	    <cameraWidth> <cameraHeight> <cameraHFov> <projectorHFov> <separation>
type ExecInfrastructure struct {
	name    string
	setup   slbench.InfrastructureSetup
	command string
	args    []string
	cal     *slbench.Calibration
	calDir  string
	workDir string
}

// NewExecInfrastructure builds an infrastructure shelling out to the given
// renderer command. calDir is the calibration cache directory; an existing
// calibration for this setup is applied to every capture.
func NewExecInfrastructure(setup slbench.InfrastructureSetup, command string, args []string, calDir string) *ExecInfrastructure {
	return &ExecInfrastructure{
		name:    "Exec",
		setup:   setup,
		command: command,
		args:    args,
		calDir:  calDir,
	}
}

func (x *ExecInfrastructure) Name() string { return x.name }

func (x *ExecInfrastructure) Setup() slbench.InfrastructureSetup { return x.setup }

func (x *ExecInfrastructure) Init(rc *slbench.RunContext) error {
	if _, err := exec.LookPath(x.command); err != nil {
		return fmt.Errorf("renderer %q not found in path: %w", x.command, err)
	}

	dir, err := os.MkdirTemp("", "slbench-exec-")
	if err != nil {
		return fmt.Errorf("create renderer work directory: %w", err)
	}
	x.workDir = dir

	if x.calDir == "" {
		return nil
	}
	cal, err := slbench.LoadCalibration(x.calDir, slbench.SetupID(x.name, x.setup))
	if err != nil {
		return fmt.Errorf("infrastructure %s: %w", x.name, err)
	}
	x.cal = cal
	return nil
}

func (x *ExecInfrastructure) Calibration() *slbench.Calibration { return x.cal }

// Close removes the renderer work directory created by Init.
func (x *ExecInfrastructure) Close() error {
	if x.workDir == "" {
		return nil
	}
	dir := x.workDir
	x.workDir = ""
	return os.RemoveAll(dir)
}

func (x *ExecInfrastructure) ProjectAndCapture(rc *slbench.RunContext, pattern *slbench.Frame) (*slbench.Frame, error) {
	patternPath := filepath.Join(x.workDir, fmt.Sprintf("pattern_%d.pgm", rc.Iteration()))
	capturePath := filepath.Join(x.workDir, fmt.Sprintf("capture_%d.pgm", rc.Iteration()))
	defer os.Remove(patternPath)
	defer os.Remove(capturePath)

	if err := pattern.WritePGM(patternPath); err != nil {
		return nil, err
	}

	cam := x.setup.Camera
	args := append(append([]string{}, x.args...),
		patternPath,
		capturePath,
		strconv.Itoa(cam.Resolution.Width),
		strconv.Itoa(cam.Resolution.Height),
		strconv.FormatFloat(float64(cam.HorizontalFOV), 'g', -1, 64),
		strconv.FormatFloat(float64(x.setup.Projector.HorizontalFOV), 'g', -1, 64),
		strconv.FormatFloat(x.setup.CameraProjectorSeparation, 'g', -1, 64),
	)

	cmd := exec.Command(x.command, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("renderer %q failed: %w (output: %s)", x.command, err, out)
	}

	capture, err := slbench.ReadPGM(capturePath)
	if err != nil {
		return nil, fmt.Errorf("read renderer output: %w", err)
	}
	return capture, nil
}
