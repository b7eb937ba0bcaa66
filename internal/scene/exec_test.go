package scene

import (
	"os"
	"os/exec"
	"testing"

	"github.com/banshee-data/slbench/internal/slbench"
)

func TestExecInitRejectsMissingRenderer(t *testing.T) {
	x := NewExecInfrastructure(virtualSetup(), "slbench-no-such-renderer", nil, "")
	if err := x.Init(nil); err == nil {
		t.Fatal("missing renderer command accepted")
	}
}

func TestExecInitRequiresCalibrationWhenConfigured(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true not available")
	}
	// calibration dir configured but empty: Init must refuse to run
	// uncalibrated
	x := NewExecInfrastructure(virtualSetup(), "true", nil, t.TempDir())
	if err := x.Init(nil); err == nil {
		t.Fatal("missing calibration accepted")
	}
}

// The renderer contract passes the pattern and capture paths first after the
// configured args; a renderer that copies its input back verifies the
// round trip.
func TestExecRoundTripThroughRenderer(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	setup := virtualSetup()
	x := NewExecInfrastructure(setup, "sh", []string{"-c", `cp "$1" "$2"`, "renderer"}, "")
	if err := x.Init(nil); err != nil {
		t.Fatal(err)
	}

	proj := setup.Projector.Resolution
	pattern := slbench.NewFrame(proj.Width, proj.Height)
	for i := range pattern.Pix {
		pattern.Pix[i] = uint8(i % 17)
	}

	got, err := x.ProjectAndCapture(&slbench.RunContext{}, pattern)
	if err != nil {
		t.Fatal(err)
	}
	if got.Width != pattern.Width || got.Height != pattern.Height {
		t.Fatalf("capture is %dx%d, want %dx%d", got.Width, got.Height, pattern.Width, pattern.Height)
	}
}

func TestExecCloseRemovesWorkDirectory(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true not available")
	}

	x := NewExecInfrastructure(virtualSetup(), "true", nil, "")
	if err := x.Init(nil); err != nil {
		t.Fatal(err)
	}
	dir := x.workDir
	if dir == "" {
		t.Fatal("Init created no work directory")
	}

	if err := x.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("work directory %s still present after Close (stat err %v)", dir, err)
	}
	// closing twice is a no-op
	if err := x.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestExecRendererFailureIsFatal(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	x := NewExecInfrastructure(virtualSetup(), "sh", []string{"-c", "exit 3", "renderer"}, "")
	if err := x.Init(nil); err != nil {
		t.Fatal(err)
	}
	pattern := slbench.NewFrame(4, 4)
	if _, err := x.ProjectAndCapture(&slbench.RunContext{}, pattern); err == nil {
		t.Fatal("failing renderer accepted")
	}
}
