package slbench

// NoCorrespondence is the sentinel returned by SolveCorrespondence when a
// pattern column was never observed on a camera row. NaN is treated the
// same way.
const NoCorrespondence = -1

// Implementation is the structured-light algorithm under test. The
// experiment owns the loop; the implementation owns pattern generation,
// capture decoding, the termination condition and correspondence solving.
//
// HasMoreIterations is entirely the implementation's responsibility: the
// experiment imposes no maximum iteration count, so an implementation that
// never signals completion hangs its experiment.
type Implementation interface {
	// Identifier names the algorithm in reports and run directories.
	Identifier() string

	// PatternWidth is the number of distinguishable pattern columns.
	PatternWidth() int

	// HasMoreIterations reports whether another pattern/capture iteration
	// is needed.
	HasMoreIterations(rc *RunContext) bool

	// GeneratePattern produces the pattern frame for the current iteration.
	GeneratePattern(rc *RunContext) (*Frame, error)

	// ProcessCapture consumes the undistorted capture for the current
	// iteration.
	ProcessCapture(rc *RunContext, capture *Frame) error

	// SolveCorrespondence returns the camera column matching the given
	// pattern column on the given camera row, or NaN / NoCorrespondence
	// when no match was decoded. Only meaningful after all iterations have
	// been processed.
	SolveCorrespondence(patternColumn, cameraRow int) float64

	// PreExperimentRun and PostExperimentRun bracket the whole run.
	PreExperimentRun(rc *RunContext) error
	PostExperimentRun(rc *RunContext) error

	// PostIterationsProcess runs once after the last iteration, before
	// correspondences are solved (decoding, filtering and similar).
	PostIterationsProcess(rc *RunContext) error
}
