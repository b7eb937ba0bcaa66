package slbench

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/stat"
)

// DefaultAccuracyBucketWidth is the histogram bucket size for depth
// differences, in the same linear units as the baseline separation.
const DefaultAccuracyBucketWidth = 0.001

// AccuracyMetric histograms the signed per-cell depth differences
// (reference - candidate) over every cell valued on both sides, normalizes
// bucket counts into a probability mass function and writes the dense
// histogram as a two-column CSV report. The comparison runs over the
// projector width x camera height index space, like the resolution metric.
type AccuracyMetric struct {
	// Dir receives the histogram report files; defaults to the current
	// directory.
	Dir string

	// BucketWidth is the histogram bucket size; defaults to
	// DefaultAccuracyBucketWidth.
	BucketWidth float64
}

func (AccuracyMetric) Name() string { return "accuracy" }

func (AccuracyMetric) Requires() Capability { return CapDepth }

func (m AccuracyMetric) Compare(reference, candidate *Experiment) (MetricResult, error) {
	projectorWidth, cameraHeight, err := compatibleDepthDimensions(reference, candidate)
	if err != nil {
		return MetricResult{}, err
	}

	bucketWidth := m.BucketWidth
	if bucketWidth <= 0 {
		bucketWidth = DefaultAccuracyBucketWidth
	}

	var differences []float64
	minDifference := math.Inf(1)
	maxDifference := math.Inf(-1)

	for x := 0; x < projectorWidth; x++ {
		for y := 0; y < cameraHeight; y++ {
			if !reference.Depth().IsValued(x, y) || !candidate.Depth().IsValued(x, y) {
				continue
			}
			refDepth, _ := reference.Depth().Depth(x, y)
			candDepth, _ := candidate.Depth().Depth(x, y)

			d := refDepth - candDepth
			differences = append(differences, d)
			minDifference = math.Min(minDifference, d)
			maxDifference = math.Max(maxDifference, d)
		}
	}

	if len(differences) == 0 {
		return MetricResult{}, fmt.Errorf("%w: %s vs %s", ErrNoComparableCells,
			reference.Identifier(), candidate.Identifier())
	}

	// Dense histogram across the full observed range. A constant offset
	// collapses the range to a single bucket.
	bucketCount := int(math.Ceil((maxDifference - minDifference) / bucketWidth))
	if bucketCount < 1 {
		bucketCount = 1
	}
	histogram := make([]int, bucketCount)
	for _, d := range differences {
		i := int(math.Floor((d - minDifference) / bucketWidth))
		if i >= bucketCount {
			i = bucketCount - 1
		}
		histogram[i]++
	}

	reportPath := filepath.Join(m.Dir, fmt.Sprintf("%s_vs_%s_accuracy_histogram.csv",
		reference.Identifier(), candidate.Identifier()))
	if err := writeHistogramCSV(reportPath, histogram, minDifference, bucketWidth, len(differences)); err != nil {
		return MetricResult{}, err
	}

	mean := stat.Mean(differences, nil)
	Logf("accuracy: %s vs %s over %d cells, mean difference %g (stddev %g), range [%g, %g], report %s",
		reference.Identifier(), candidate.Identifier(), len(differences),
		mean, stat.StdDev(differences, nil), minDifference, maxDifference, reportPath)

	return MetricResult{
		Metric:     "accuracy",
		Reference:  reference.Identifier(),
		Candidate:  candidate.Identifier(),
		Value:      mean,
		Unit:       "mean depth difference",
		ReportPath: reportPath,
	}, nil
}

// writeHistogramCSV emits one `bucketLowerBound,normalizedFrequency` row per
// bucket in ascending bucket order, zero-count buckets included.
func writeHistogramCSV(path string, histogram []int, minDifference, bucketWidth float64, total int) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create histogram report: %w", err)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	for i, count := range histogram {
		lower := minDifference + float64(i)*bucketWidth
		fmt.Fprintf(w, "%g,%g\n", lower, float64(count)/float64(total))
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write histogram report: %w", err)
	}
	return nil
}
