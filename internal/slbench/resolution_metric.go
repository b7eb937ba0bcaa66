package slbench

// ResolutionMetric compares how many depth grid cells each experiment
// managed to value, reporting referenceCount - candidateCount. It iterates
// the projector width x camera height index space, the projector's
// dimensions rather than the algorithm's own pattern width, so algorithms
// with different pattern widths remain comparable.
type ResolutionMetric struct{}

func (ResolutionMetric) Name() string { return "resolution" }

func (ResolutionMetric) Requires() Capability { return CapDepth }

func (ResolutionMetric) Compare(reference, candidate *Experiment) (MetricResult, error) {
	projectorWidth, cameraHeight, err := compatibleDepthDimensions(reference, candidate)
	if err != nil {
		return MetricResult{}, err
	}

	referenceValues := 0
	candidateValues := 0
	for x := 0; x < projectorWidth; x++ {
		for y := 0; y < cameraHeight; y++ {
			if reference.Depth().IsValued(x, y) {
				referenceValues++
			}
			if candidate.Depth().IsValued(x, y) {
				candidateValues++
			}
		}
	}

	difference := referenceValues - candidateValues
	Logf("resolution: %s valued %d, %s valued %d, difference %d",
		reference.Identifier(), referenceValues,
		candidate.Identifier(), candidateValues, difference)

	return MetricResult{
		Metric:    "resolution",
		Reference: reference.Identifier(),
		Candidate: candidate.Identifier(),
		Value:     float64(difference),
		Unit:      "cells",
	}, nil
}
