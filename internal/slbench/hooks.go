package slbench

// Hooks exposes the fixed instrumentation points of the experiment loop.
// Every method has a no-op default via BaseHooks; instrumentation variants
// implement only the pairs they need. The call sites in Experiment.Run are
// fixed: hooks observe the loop, they never alter it. Timing-derived
// metrics depend on the bracketing matching the measured work exactly.
type Hooks interface {
	OnPreIterations()
	OnPreIteration()
	OnPrePatternGeneration()
	OnPostPatternGeneration()
	OnPreCapture()
	OnPostCapture()
	OnPreProcessCapture()
	OnPostProcessCapture()
	OnPostIteration()
	OnPostIterations()
	OnPrePostIterationsProcess()
	OnPostPostIterationsProcess()
}

// BaseHooks is the no-op Hooks implementation, intended for embedding.
type BaseHooks struct{}

func (BaseHooks) OnPreIterations()             {}
func (BaseHooks) OnPreIteration()              {}
func (BaseHooks) OnPrePatternGeneration()      {}
func (BaseHooks) OnPostPatternGeneration()     {}
func (BaseHooks) OnPreCapture()                {}
func (BaseHooks) OnPostCapture()               {}
func (BaseHooks) OnPreProcessCapture()         {}
func (BaseHooks) OnPostProcessCapture()        {}
func (BaseHooks) OnPostIteration()             {}
func (BaseHooks) OnPostIterations()            {}
func (BaseHooks) OnPrePostIterationsProcess()  {}
func (BaseHooks) OnPostPostIterationsProcess() {}
