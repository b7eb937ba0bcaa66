package slbench

import (
	"fmt"
	"math"
	"path/filepath"
)

// RunContext carries the per-run state collaborators need while an
// experiment drives them: the iteration index, the run directory and the
// capture history. It is passed explicitly into every collaborator call for
// the duration of one run, so neither the infrastructure nor the
// implementation ever holds a back-reference to "the current experiment".
type RunContext struct {
	exp       *Experiment
	iteration int
	dir       string
}

// Iteration returns the zero-based index of the current iteration.
func (rc *RunContext) Iteration() int { return rc.iteration }

// Dir returns the experiment run directory, or "" when the experiment runs
// without a session.
func (rc *RunContext) Dir() string { return rc.dir }

// Infrastructure returns the infrastructure the experiment runs against.
func (rc *RunContext) Infrastructure() Infrastructure { return rc.exp.infra }

// Implementation returns the algorithm under test.
func (rc *RunContext) Implementation() Implementation { return rc.exp.impl }

// Setup returns the infrastructure's physical parameters.
func (rc *RunContext) Setup() InfrastructureSetup { return rc.exp.infra.Setup() }

// StoreCapture appends a capture to the experiment's capture history.
// Implementations that decode across iterations use this to keep frames
// until PostIterationsProcess.
func (rc *RunContext) StoreCapture(f *Frame) { rc.exp.captures = append(rc.exp.captures, f) }

// CaptureCount returns the number of stored captures.
func (rc *RunContext) CaptureCount() int { return len(rc.exp.captures) }

// CaptureAt returns the stored capture at index i.
func (rc *RunContext) CaptureAt(i int) *Frame { return rc.exp.captures[i] }

// LastCapture returns the most recently stored capture, or nil.
func (rc *RunContext) LastCapture() *Frame {
	if len(rc.exp.captures) == 0 {
		return nil
	}
	return rc.exp.captures[len(rc.exp.captures)-1]
}

// Experiment runs one algorithm against one infrastructure through the full
// pattern → capture → process → reconstruct lifecycle. Capabilities are
// attached by composition: WithDepth adds a depth grid and the
// post-iterations reconstruction pass, WithTiming adds phase timing.
// Experiments are single-use and strictly synchronous.
type Experiment struct {
	infra   Infrastructure
	impl    Implementation
	session *Session

	hooks     []Hooks
	timer     *PhaseTimer
	depth     *DepthGrid
	wantDepth bool

	iteration int
	dir       string
	captures  []*Frame
	completed bool
}

// ExperimentOption configures an Experiment at construction.
type ExperimentOption func(*Experiment)

// WithSession places the experiment's per-iteration artifacts (pattern and
// capture frames) under a session run directory.
func WithSession(s *Session) ExperimentOption {
	return func(e *Experiment) { e.session = s }
}

// WithTiming attaches a phase timer, making the experiment comparable by
// the speed metric.
func WithTiming() ExperimentOption {
	return func(e *Experiment) {
		e.timer = NewPhaseTimer()
		e.hooks = append(e.hooks, e.timer)
	}
}

// WithDepth attaches a depth grid, making the experiment depth-producing
// and comparable by the resolution and accuracy metrics.
func WithDepth() ExperimentOption {
	return func(e *Experiment) { e.wantDepth = true }
}

// WithHooks attaches additional instrumentation hooks.
func WithHooks(h Hooks) ExperimentOption {
	return func(e *Experiment) { e.hooks = append(e.hooks, h) }
}

// NewExperiment builds an experiment over the given collaborators. The
// depth grid, when requested, is sized to the projector width and camera
// height: reconstruction stores results at projector-space columns, and the
// metrics compare over the projector's index space.
func NewExperiment(infra Infrastructure, impl Implementation, opts ...ExperimentOption) (*Experiment, error) {
	setup := infra.Setup()
	if err := setup.Validate(); err != nil {
		return nil, fmt.Errorf("infrastructure %s: %w", infra.Name(), err)
	}
	if impl.PatternWidth() <= 0 {
		return nil, fmt.Errorf("implementation %s: pattern width %d must be positive", impl.Identifier(), impl.PatternWidth())
	}

	e := &Experiment{infra: infra, impl: impl}
	for _, opt := range opts {
		opt(e)
	}

	if e.wantDepth {
		grid, err := NewDepthGrid(setup.Projector.Resolution.Width, setup.Camera.Resolution.Height)
		if err != nil {
			return nil, err
		}
		e.depth = grid
	}
	return e, nil
}

// Identifier names the experiment after its infrastructure and algorithm.
func (e *Experiment) Identifier() string {
	return e.infra.Name() + e.impl.Identifier()
}

// Infrastructure returns the infrastructure the experiment runs against.
func (e *Experiment) Infrastructure() Infrastructure { return e.infra }

// Implementation returns the algorithm under test.
func (e *Experiment) Implementation() Implementation { return e.impl }

// Depth returns the depth grid, or nil for non-depth experiments.
func (e *Experiment) Depth() *DepthGrid { return e.depth }

// Timer returns the phase timer, or nil for untimed experiments.
func (e *Experiment) Timer() *PhaseTimer { return e.timer }

// IterationCount returns the number of completed iterations.
func (e *Experiment) IterationCount() int { return e.iteration }

// RunDir returns the experiment's run directory, or "" when the experiment
// ran without a session.
func (e *Experiment) RunDir() string { return e.dir }

// Completed reports whether Run finished without error.
func (e *Experiment) Completed() bool { return e.completed }

// Capabilities reports which optional capabilities the experiment carries.
func (e *Experiment) Capabilities() Capability {
	var c Capability
	if e.depth != nil {
		c |= CapDepth
	}
	if e.timer != nil {
		c |= CapTiming
	}
	return c
}

func (e *Experiment) fire(f func(Hooks)) {
	for _, h := range e.hooks {
		f(h)
	}
}

// Run executes the full lifecycle once. Infrastructure failures (init,
// capture) abort the run; per-cell numeric edge cases during depth
// reconstruction are absorbed and surface only as grid sparsity.
func (e *Experiment) Run() error {
	Logf("experiment %s: starting run (infrastructure %s, implementation %s)",
		e.Identifier(), e.infra.Name(), e.impl.Identifier())

	if e.session != nil && e.dir == "" {
		dir, err := e.session.ExperimentDir(e.Identifier())
		if err != nil {
			return err
		}
		e.dir = dir
	}

	rc := &RunContext{exp: e, dir: e.dir}

	if err := e.infra.Init(rc); err != nil {
		return fmt.Errorf("experiment %s: init infrastructure: %w", e.Identifier(), err)
	}
	if err := e.impl.PreExperimentRun(rc); err != nil {
		return fmt.Errorf("experiment %s: pre-run: %w", e.Identifier(), err)
	}

	e.iteration = 0
	e.fire(Hooks.OnPreIterations)

	for e.impl.HasMoreIterations(rc) {
		e.fire(Hooks.OnPreIteration)

		e.fire(Hooks.OnPrePatternGeneration)
		pattern, err := e.impl.GeneratePattern(rc)
		e.fire(Hooks.OnPostPatternGeneration)
		if err != nil {
			return fmt.Errorf("experiment %s: generate pattern (iteration %d): %w", e.Identifier(), e.iteration, err)
		}
		e.saveArtifact("patterns", "pattern", pattern)

		e.fire(Hooks.OnPreCapture)
		raw, err := e.infra.ProjectAndCapture(rc, pattern)
		e.fire(Hooks.OnPostCapture)
		if err != nil {
			return fmt.Errorf("experiment %s: project and capture (iteration %d): %w", e.Identifier(), e.iteration, err)
		}

		undistorted := e.infra.Calibration().Undistort(raw)
		e.saveArtifact("captures", "capture", undistorted)

		e.fire(Hooks.OnPreProcessCapture)
		err = e.impl.ProcessCapture(rc, undistorted)
		e.fire(Hooks.OnPostProcessCapture)
		if err != nil {
			return fmt.Errorf("experiment %s: process capture (iteration %d): %w", e.Identifier(), e.iteration, err)
		}

		e.fire(Hooks.OnPostIteration)
		e.iteration++
		rc.iteration = e.iteration
	}

	e.fire(Hooks.OnPostIterations)

	e.fire(Hooks.OnPrePostIterationsProcess)
	err := e.impl.PostIterationsProcess(rc)
	if err == nil && e.depth != nil {
		e.reconstructDepth()
	}
	e.fire(Hooks.OnPostPostIterationsProcess)
	if err != nil {
		return fmt.Errorf("experiment %s: post-iterations process: %w", e.Identifier(), err)
	}

	if err := e.impl.PostExperimentRun(rc); err != nil {
		return fmt.Errorf("experiment %s: post-run: %w", e.Identifier(), err)
	}

	e.completed = true
	Logf("experiment %s: run complete after %d iterations", e.Identifier(), e.iteration)
	return nil
}

// saveArtifact writes a per-iteration frame under the run directory. Saving
// is best-effort bookkeeping; a failed write is logged, never fatal.
func (e *Experiment) saveArtifact(subdir, prefix string, f *Frame) {
	if e.dir == "" || f == nil {
		return
	}
	path := filepath.Join(e.dir, subdir, fmt.Sprintf("%s_%d.pgm", prefix, e.iteration))
	if err := f.WritePGM(path); err != nil {
		Logf("experiment %s: save %s: %v", e.Identifier(), path, err)
	}
}

// reconstructDepth walks every camera row and pattern column, asks the
// implementation for the matching camera column and triangulates depth into
// the grid at the projector-space column. Sentinel or non-finite
// correspondences and non-finite depths are skipped silently: sparse
// coverage is expected and is itself measured by the resolution metric.
func (e *Experiment) reconstructDepth() {
	setup := e.infra.Setup()
	patternWidth := e.impl.PatternWidth()
	cameraWidth := setup.Camera.Resolution.Width
	cameraHeight := setup.Camera.Resolution.Height
	projectorWidth := setup.Projector.Resolution.Width

	for y := 0; y < cameraHeight; y++ {
		for xPattern := 0; xPattern < patternWidth; xPattern++ {
			xCamera := e.impl.SolveCorrespondence(xPattern, y)
			if math.IsNaN(xCamera) || xCamera == NoCorrespondence {
				continue
			}

			depth := Displacement(float64(xPattern), xCamera,
				float64(patternWidth), float64(cameraWidth),
				float64(setup.Camera.HorizontalFOV), float64(setup.Projector.HorizontalFOV),
				setup.CameraProjectorSeparation)
			if math.IsInf(depth, 0) || math.IsNaN(depth) {
				continue
			}

			xProjector := int(PatternXOffsetFactor(float64(xPattern), float64(patternWidth)) * float64(projectorWidth))
			if err := e.depth.StoreResult(xProjector, y, depth); err != nil {
				Logf("experiment %s: %v", e.Identifier(), err)
			}
		}
	}
}
