package scene

import (
	"math"

	"github.com/banshee-data/slbench/internal/slbench"
)

// ReferenceImplementation is the benchmark's ground-truth algorithm: instead
// of decoding patterns it reads correspondences straight off the virtual
// scene's geometry. Running it through the ordinary experiment lifecycle
// (one all-white iteration, then the geometric correspondence solve) yields
// the reference depth grid every candidate algorithm is compared against.
type ReferenceImplementation struct {
	infra *VirtualInfrastructure

	width  int
	height int
	sums   []float64
	counts []int
}

// NewReferenceImplementation builds the ground-truth reference over the
// given virtual infrastructure.
func NewReferenceImplementation(infra *VirtualInfrastructure) *ReferenceImplementation {
	setup := infra.Setup()
	return &ReferenceImplementation{
		infra:  infra,
		width:  setup.Projector.Resolution.Width,
		height: setup.Camera.Resolution.Height,
	}
}

func (r *ReferenceImplementation) Identifier() string { return "Raycast" }

// PatternWidth is the projector width: the ground truth distinguishes every
// projector column.
func (r *ReferenceImplementation) PatternWidth() int { return r.width }

// HasMoreIterations runs a single iteration; the all-white projection keeps
// the capture path (and its timing) exercised even though decoding needs no
// patterns.
func (r *ReferenceImplementation) HasMoreIterations(rc *slbench.RunContext) bool {
	return rc.Iteration() == 0
}

func (r *ReferenceImplementation) GeneratePattern(rc *slbench.RunContext) (*slbench.Frame, error) {
	proj := rc.Setup().Projector.Resolution
	pattern := slbench.NewFrame(proj.Width, proj.Height)
	pattern.Fill(255)
	return pattern, nil
}

func (r *ReferenceImplementation) ProcessCapture(rc *slbench.RunContext, capture *slbench.Frame) error {
	rc.StoreCapture(capture)
	return nil
}

// PostIterationsProcess builds the correspondence table from the scene
// geometry: every camera pixel contributes its column to the projector
// column lighting its hit point.
func (r *ReferenceImplementation) PostIterationsProcess(rc *slbench.RunContext) error {
	cam := rc.Setup().Camera.Resolution

	r.sums = make([]float64, r.width*r.height)
	r.counts = make([]int, r.width*r.height)

	for cy := 0; cy < cam.Height; cy++ {
		for cx := 0; cx < cam.Width; cx++ {
			u, ok := r.infra.CorrespondenceTruth(cx, cy)
			if !ok {
				continue
			}
			column := int(u)
			if column < 0 || column >= r.width {
				continue
			}
			i := cy*r.width + column
			r.sums[i] += float64(cx) + 0.5
			r.counts[i]++
		}
	}
	return nil
}

// SolveCorrespondence returns the mean camera column observed for the
// pattern column on the given row, or NaN when the column was never seen.
func (r *ReferenceImplementation) SolveCorrespondence(patternColumn, cameraRow int) float64 {
	if patternColumn < 0 || patternColumn >= r.width || cameraRow < 0 || cameraRow >= r.height {
		return math.NaN()
	}
	i := cameraRow*r.width + patternColumn
	if r.counts[i] == 0 {
		return math.NaN()
	}
	return r.sums[i] / float64(r.counts[i])
}

func (r *ReferenceImplementation) PreExperimentRun(rc *slbench.RunContext) error { return nil }

func (r *ReferenceImplementation) PostExperimentRun(rc *slbench.RunContext) error { return nil }
