package slbench

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

type eventLog []string

func (l *eventLog) add(s string) { *l = append(*l, s) }

type fakeInfra struct {
	setup      InfrastructureSetup
	log        *eventLog
	initErr    error
	captureErr error
	cal        *Calibration
}

func (f *fakeInfra) Name() string               { return "Fake" }
func (f *fakeInfra) Setup() InfrastructureSetup { return f.setup }
func (f *fakeInfra) Calibration() *Calibration  { return f.cal }

func (f *fakeInfra) Init(rc *RunContext) error {
	if f.log != nil {
		f.log.add("init")
	}
	return f.initErr
}

func (f *fakeInfra) ProjectAndCapture(rc *RunContext, pattern *Frame) (*Frame, error) {
	if f.log != nil {
		f.log.add("capture")
	}
	if f.captureErr != nil {
		return nil, f.captureErr
	}
	cam := f.setup.Camera.Resolution
	out := NewFrame(cam.Width, cam.Height)
	out.Fill(pattern.At(0, 0))
	return out, nil
}

type fakeImpl struct {
	id            string
	width         int
	iterations    int
	log           *eventLog
	solve         func(patternColumn, cameraRow int) float64
	storeCaptures bool
	processErr    error
	postErr       error
}

func (m *fakeImpl) Identifier() string {
	if m.id != "" {
		return m.id
	}
	return "FakeImpl"
}
func (m *fakeImpl) PatternWidth() int { return m.width }

func (m *fakeImpl) HasMoreIterations(rc *RunContext) bool {
	return rc.Iteration() < m.iterations
}

func (m *fakeImpl) GeneratePattern(rc *RunContext) (*Frame, error) {
	if m.log != nil {
		m.log.add("generate")
	}
	proj := rc.Setup().Projector.Resolution
	p := NewFrame(proj.Width, proj.Height)
	p.Fill(255)
	return p, nil
}

func (m *fakeImpl) ProcessCapture(rc *RunContext, capture *Frame) error {
	if m.log != nil {
		m.log.add("process")
	}
	if m.storeCaptures {
		rc.StoreCapture(capture)
	}
	return m.processErr
}

func (m *fakeImpl) SolveCorrespondence(patternColumn, cameraRow int) float64 {
	if m.solve != nil {
		return m.solve(patternColumn, cameraRow)
	}
	return math.NaN()
}

func (m *fakeImpl) PreExperimentRun(rc *RunContext) error {
	if m.log != nil {
		m.log.add("pre-run")
	}
	return nil
}

func (m *fakeImpl) PostExperimentRun(rc *RunContext) error {
	if m.log != nil {
		m.log.add("post-run")
	}
	return nil
}

func (m *fakeImpl) PostIterationsProcess(rc *RunContext) error {
	if m.log != nil {
		m.log.add("post-process")
	}
	return m.postErr
}

// recordingHooks logs every instrumentation point into the shared event log.
type recordingHooks struct {
	log *eventLog
}

func (h recordingHooks) OnPreIterations()             { h.log.add("OnPreIterations") }
func (h recordingHooks) OnPreIteration()              { h.log.add("OnPreIteration") }
func (h recordingHooks) OnPrePatternGeneration()      { h.log.add("OnPrePatternGeneration") }
func (h recordingHooks) OnPostPatternGeneration()     { h.log.add("OnPostPatternGeneration") }
func (h recordingHooks) OnPreCapture()                { h.log.add("OnPreCapture") }
func (h recordingHooks) OnPostCapture()               { h.log.add("OnPostCapture") }
func (h recordingHooks) OnPreProcessCapture()         { h.log.add("OnPreProcessCapture") }
func (h recordingHooks) OnPostProcessCapture()        { h.log.add("OnPostProcessCapture") }
func (h recordingHooks) OnPostIteration()             { h.log.add("OnPostIteration") }
func (h recordingHooks) OnPostIterations()            { h.log.add("OnPostIterations") }
func (h recordingHooks) OnPrePostIterationsProcess()  { h.log.add("OnPrePostIterationsProcess") }
func (h recordingHooks) OnPostPostIterationsProcess() { h.log.add("OnPostPostIterationsProcess") }

func TestExperimentLifecycleOrder(t *testing.T) {
	var log eventLog
	infra := &fakeInfra{setup: testSetup(), log: &log}
	impl := &fakeImpl{width: 32, iterations: 2, log: &log}

	e, err := NewExperiment(infra, impl, WithHooks(recordingHooks{&log}))
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Run(); err != nil {
		t.Fatal(err)
	}

	iteration := []string{
		"OnPreIteration",
		"OnPrePatternGeneration", "generate", "OnPostPatternGeneration",
		"OnPreCapture", "capture", "OnPostCapture",
		"OnPreProcessCapture", "process", "OnPostProcessCapture",
		"OnPostIteration",
	}
	want := eventLog{"init", "pre-run", "OnPreIterations"}
	want = append(want, iteration...)
	want = append(want, iteration...)
	want = append(want,
		"OnPostIterations",
		"OnPrePostIterationsProcess", "post-process", "OnPostPostIterationsProcess",
		"post-run")

	if !reflect.DeepEqual(log, want) {
		t.Fatalf("lifecycle order\n got %v\nwant %v", log, want)
	}
	if !e.Completed() {
		t.Fatal("experiment not marked completed")
	}
	if e.IterationCount() != 2 {
		t.Fatalf("IterationCount = %d, want 2", e.IterationCount())
	}
}

func TestExperimentDepthReconstruction(t *testing.T) {
	infra := &fakeInfra{setup: testSetup()}
	impl := &fakeImpl{
		width:      32,
		iterations: 1,
		// even pattern columns decode to a fixed camera column, odd
		// columns were never observed
		solve: func(patternColumn, cameraRow int) float64 {
			if patternColumn%2 != 0 {
				return math.NaN()
			}
			return 10.0
		},
	}

	e, err := NewExperiment(infra, impl, WithDepth())
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Run(); err != nil {
		t.Fatal(err)
	}

	grid := e.Depth()
	if grid == nil {
		t.Fatal("depth experiment carries no grid")
	}
	if grid.Width() != 32 || grid.Height() != 48 {
		t.Fatalf("grid is %dx%d, want projector width x camera height 32x48", grid.Width(), grid.Height())
	}

	// 16 even pattern columns, all camera rows
	if n := grid.ValuedCount(); n != 16*48 {
		t.Fatalf("ValuedCount = %d, want %d", n, 16*48)
	}
	if !grid.IsValued(2, 0) {
		t.Fatal("even column not valued")
	}
	if grid.IsValued(1, 0) {
		t.Fatal("odd column valued despite NaN correspondence")
	}

	d, err := grid.Depth(2, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := Displacement(2, 10.0, 32, 64, 60, 60, 0.25)
	if math.Abs(d-want) > 1e-12 {
		t.Fatalf("Depth(2,0) = %v, want %v", d, want)
	}
}

func TestExperimentCapabilities(t *testing.T) {
	infra := &fakeInfra{setup: testSetup()}

	plain, err := NewExperiment(infra, &fakeImpl{width: 32, iterations: 1})
	if err != nil {
		t.Fatal(err)
	}
	if got := plain.Capabilities(); got != 0 {
		t.Fatalf("plain experiment capabilities = %v, want none", got)
	}

	full, err := NewExperiment(infra, &fakeImpl{width: 32, iterations: 1}, WithDepth(), WithTiming())
	if err != nil {
		t.Fatal(err)
	}
	if got := full.Capabilities(); !got.Has(CapDepth) || !got.Has(CapTiming) {
		t.Fatalf("capabilities = %v, want depth+timing", got)
	}
}

func TestNewExperimentValidation(t *testing.T) {
	bad := testSetup()
	bad.Camera.Resolution.Height = 0
	if _, err := NewExperiment(&fakeInfra{setup: bad}, &fakeImpl{width: 32, iterations: 1}); err == nil {
		t.Fatal("invalid setup accepted")
	}
	if _, err := NewExperiment(&fakeInfra{setup: testSetup()}, &fakeImpl{width: 0, iterations: 1}); err == nil {
		t.Fatal("zero pattern width accepted")
	}
}

func TestExperimentTimingCoversMeasuredPhases(t *testing.T) {
	infra := &fakeInfra{setup: testSetup()}
	impl := &fakeImpl{width: 32, iterations: 2}

	e, err := NewExperiment(infra, impl, WithTiming())
	if err != nil {
		t.Fatal(err)
	}
	e.timer.now = fakeClock(time.Millisecond)

	if err := e.Run(); err != nil {
		t.Fatal(err)
	}
	// three measured pairs per iteration plus one post-iterations pair
	if got := e.Timer().Total(); got != 7*time.Millisecond {
		t.Fatalf("Total = %v, want 7ms", got)
	}
}

func TestExperimentSavesArtifacts(t *testing.T) {
	session, err := NewSession(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	infra := &fakeInfra{setup: testSetup()}
	impl := &fakeImpl{width: 32, iterations: 2}

	e, err := NewExperiment(infra, impl, WithSession(session))
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Run(); err != nil {
		t.Fatal(err)
	}
	if e.RunDir() == "" {
		t.Fatal("session experiment has no run directory")
	}

	for i := 0; i < 2; i++ {
		for _, name := range []string{
			filepath.Join("patterns", fmt.Sprintf("pattern_%d.pgm", i)),
			filepath.Join("captures", fmt.Sprintf("capture_%d.pgm", i)),
		} {
			path := filepath.Join(e.RunDir(), name)
			if _, err := os.Stat(path); err != nil {
				t.Errorf("artifact %s: %v", path, err)
			}
		}
	}
}

func TestExperimentCaptureErrorAborts(t *testing.T) {
	captureErr := errors.New("camera unplugged")
	infra := &fakeInfra{setup: testSetup(), captureErr: captureErr}
	impl := &fakeImpl{width: 32, iterations: 1}

	e, err := NewExperiment(infra, impl)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Run(); !errors.Is(err, captureErr) {
		t.Fatalf("Run = %v, want wrapped capture error", err)
	}
	if e.Completed() {
		t.Fatal("failed run marked completed")
	}
}

func TestRunContextCaptureHistory(t *testing.T) {
	infra := &fakeInfra{setup: testSetup()}
	impl := &fakeImpl{width: 32, iterations: 3, storeCaptures: true}

	e, err := NewExperiment(infra, impl)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Run(); err != nil {
		t.Fatal(err)
	}

	rc := &RunContext{exp: e}
	if got := rc.CaptureCount(); got != 3 {
		t.Fatalf("CaptureCount = %d, want 3", got)
	}
	if rc.LastCapture() != rc.CaptureAt(2) {
		t.Fatal("LastCapture is not the final stored capture")
	}
}
