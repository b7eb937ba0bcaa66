package slbench

import "fmt"

// Benchmark compares a set of candidate experiments against one fixed
// reference experiment under an ordered set of metrics. It never runs
// experiments; callers run every experiment to completion first.
type Benchmark struct {
	reference   *Experiment
	metrics     []Metric
	experiments []*Experiment
}

// NewBenchmark creates a benchmark around the given reference experiment.
func NewBenchmark(reference *Experiment) *Benchmark {
	return &Benchmark{reference: reference}
}

// Reference returns the fixed reference experiment.
func (b *Benchmark) Reference() *Experiment { return b.reference }

// AddMetric registers a metric. Capability requirements are checked here,
// once, against the reference and every already-registered experiment, so
// comparison never needs to inspect experiment kinds.
func (b *Benchmark) AddMetric(m Metric) error {
	if !b.reference.Capabilities().Has(m.Requires()) {
		return fmt.Errorf("metric %s requires %s but reference %s has %s",
			m.Name(), m.Requires(), b.reference.Identifier(), b.reference.Capabilities())
	}
	for _, e := range b.experiments {
		if !e.Capabilities().Has(m.Requires()) {
			return fmt.Errorf("metric %s requires %s but experiment %s has %s",
				m.Name(), m.Requires(), e.Identifier(), e.Capabilities())
		}
	}
	b.metrics = append(b.metrics, m)
	return nil
}

// AddExperiment registers a candidate experiment, checking it carries the
// capabilities of every registered metric.
func (b *Benchmark) AddExperiment(e *Experiment) error {
	for _, m := range b.metrics {
		if !e.Capabilities().Has(m.Requires()) {
			return fmt.Errorf("experiment %s has %s but metric %s requires %s",
				e.Identifier(), e.Capabilities(), m.Name(), m.Requires())
		}
	}
	b.experiments = append(b.experiments, e)
	return nil
}

// CompareExperiments applies every metric to every candidate against the
// reference, outer loop over metrics, inner over experiments. A failed
// comparison (for example mismatched grid dimensions) is logged and skipped;
// it never aborts the remaining comparisons.
func (b *Benchmark) CompareExperiments() []MetricResult {
	var results []MetricResult
	for _, m := range b.metrics {
		for _, e := range b.experiments {
			result, err := m.Compare(b.reference, e)
			if err != nil {
				Logf("benchmark: metric %s on %s vs %s: %v",
					m.Name(), b.reference.Identifier(), e.Identifier(), err)
				continue
			}
			results = append(results, result)
		}
	}
	return results
}
