package slbench

import "time"

// PhaseTimer accumulates wall time across the measured lifecycle phases:
// pattern generation, projection/capture, capture processing and the
// post-iterations processing pass. It implements Hooks and is attached to an
// experiment with WithTiming.
type PhaseTimer struct {
	BaseHooks

	started time.Time
	total   time.Duration

	now func() time.Time
}

// NewPhaseTimer returns a timer using the wall clock.
func NewPhaseTimer() *PhaseTimer {
	return &PhaseTimer{now: time.Now}
}

func (t *PhaseTimer) start() {
	t.started = t.now()
}

func (t *PhaseTimer) stop() {
	t.total += t.now().Sub(t.started)
}

func (t *PhaseTimer) OnPrePatternGeneration()      { t.start() }
func (t *PhaseTimer) OnPostPatternGeneration()     { t.stop() }
func (t *PhaseTimer) OnPreCapture()                { t.start() }
func (t *PhaseTimer) OnPostCapture()               { t.stop() }
func (t *PhaseTimer) OnPreProcessCapture()         { t.start() }
func (t *PhaseTimer) OnPostProcessCapture()        { t.stop() }
func (t *PhaseTimer) OnPrePostIterationsProcess()  { t.start() }
func (t *PhaseTimer) OnPostPostIterationsProcess() { t.stop() }

// Total returns the accumulated time across all measured phases.
func (t *PhaseTimer) Total() time.Duration {
	return t.total
}
