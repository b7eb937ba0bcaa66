package slbench

import (
	"errors"
	"fmt"
	"strings"
)

// Capability identifies the optional experiment capabilities a metric needs.
// The benchmark checks capabilities once at registration; metrics never
// inspect concrete experiment kinds at comparison time.
type Capability uint8

const (
	// CapDepth marks an experiment carrying a depth grid.
	CapDepth Capability = 1 << iota
	// CapTiming marks an experiment carrying a phase timer.
	CapTiming
)

// Has reports whether c includes every capability in want.
func (c Capability) Has(want Capability) bool {
	return c&want == want
}

func (c Capability) String() string {
	var parts []string
	if c.Has(CapDepth) {
		parts = append(parts, "depth")
	}
	if c.Has(CapTiming) {
		parts = append(parts, "timing")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}

// ErrIncompatibleExperiments is returned when two experiments cannot be
// compared because their infrastructures disagree on the shared index space
// (projector width and camera height).
var ErrIncompatibleExperiments = errors.New("experiments have incompatible dimensions")

// ErrNoComparableCells is returned by the accuracy metric when no cell is
// valued on both sides.
var ErrNoComparableCells = errors.New("no cells valued in both experiments")

// MetricResult is the outcome of comparing one candidate experiment against
// the reference under one metric.
type MetricResult struct {
	Metric     string
	Reference  string
	Candidate  string
	Value      float64
	Unit       string
	ReportPath string
}

// Metric compares a completed candidate experiment against the completed
// reference experiment. Metrics are pure with respect to the benchmark: no
// state is shared between comparisons.
type Metric interface {
	Name() string

	// Requires declares the capabilities both experiments must carry.
	Requires() Capability

	// Compare produces the metric result for reference vs candidate.
	// Precondition violations (dimension mismatches, empty overlap) are
	// returned as errors and never abort the enclosing benchmark.
	Compare(reference, candidate *Experiment) (MetricResult, error)
}

// compatibleDepthDimensions checks the shared comparison contract of the
// depth metrics: comparison runs over the projector width and camera height,
// so both infrastructures must agree on them.
func compatibleDepthDimensions(reference, candidate *Experiment) (projectorWidth, cameraHeight int, err error) {
	refSetup := reference.Infrastructure().Setup()
	candSetup := candidate.Infrastructure().Setup()

	if refSetup.Projector.Resolution.Width != candSetup.Projector.Resolution.Width ||
		refSetup.Camera.Resolution.Height != candSetup.Camera.Resolution.Height {
		return 0, 0, fmt.Errorf("%w: both experiments need the same projector width and camera height",
			ErrIncompatibleExperiments)
	}
	return refSetup.Projector.Resolution.Width, refSetup.Camera.Resolution.Height, nil
}
