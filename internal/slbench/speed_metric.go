package slbench

// SpeedMetric compares the accumulated phase time of two timed experiments.
// A positive value means the candidate was faster (the reference spent more
// time in the measured phases).
type SpeedMetric struct{}

func (SpeedMetric) Name() string { return "speed" }

func (SpeedMetric) Requires() Capability { return CapTiming }

func (SpeedMetric) Compare(reference, candidate *Experiment) (MetricResult, error) {
	delta := reference.Timer().Total() - candidate.Timer().Total()

	Logf("speed: %s total %v, %s total %v, difference %v",
		reference.Identifier(), reference.Timer().Total(),
		candidate.Identifier(), candidate.Timer().Total(), delta)

	return MetricResult{
		Metric:    "speed",
		Reference: reference.Identifier(),
		Candidate: candidate.Identifier(),
		Value:     delta.Seconds(),
		Unit:      "seconds",
	}, nil
}
