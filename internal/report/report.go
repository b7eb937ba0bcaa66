// Package report renders accuracy histogram reports into human-friendly
// artifacts: a PNG plot and a standalone HTML chart. The CSV written by the
// accuracy metric stays the canonical report; these renderings are derived
// from it.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// HistogramBucket is one row of an accuracy histogram report.
type HistogramBucket struct {
	LowerBound float64
	Frequency  float64
}

// ReadHistogramCSV loads a `bucketLowerBound,normalizedFrequency` report.
func ReadHistogramCSV(path string) ([]HistogramBucket, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open histogram report: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse histogram report %s: %w", path, err)
	}

	buckets := make([]HistogramBucket, 0, len(rows))
	for i, row := range rows {
		if len(row) != 2 {
			return nil, fmt.Errorf("%s row %d: want 2 columns, got %d", path, i+1, len(row))
		}
		lower, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bucket lower bound: %w", path, i+1, err)
		}
		freq, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: frequency: %w", path, i+1, err)
		}
		buckets = append(buckets, HistogramBucket{LowerBound: lower, Frequency: freq})
	}
	return buckets, nil
}
