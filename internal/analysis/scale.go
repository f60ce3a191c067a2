package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Scaler rescales each column to zero mean and unit variance using statistics
// from the batch it was fitted on.
type Scaler struct {
	Mean  []float64
	Scale []float64
}

// imputeColumnMeans replaces NaN cells with the mean of the non-NaN cells of
// the same column, computed over the whole batch. A column with no finite
// cells is filled with 0. The input is not modified.
func imputeColumnMeans(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for i := range x {
		out[i] = append([]float64(nil), x[i]...)
	}
	if len(x) == 0 {
		return out
	}
	for j := range x[0] {
		var present []float64
		missing := false
		for i := range x {
			if math.IsNaN(x[i][j]) {
				missing = true
				continue
			}
			present = append(present, x[i][j])
		}
		if !missing {
			continue
		}
		fill := 0.0
		if len(present) > 0 {
			fill = stat.Mean(present, nil)
		}
		for i := range out {
			if math.IsNaN(out[i][j]) {
				out[i][j] = fill
			}
		}
	}
	return out
}

// FitTransform fits the scaler on x and returns the standardized copy.
// Zero-variance columns keep a scale of 1 so they map to all zeros.
func (s *Scaler) FitTransform(x [][]float64) [][]float64 {
	if len(x) == 0 {
		s.Mean, s.Scale = nil, nil
		return nil
	}
	d := len(x[0])
	s.Mean = make([]float64, d)
	s.Scale = make([]float64, d)
	col := make([]float64, len(x))
	for j := 0; j < d; j++ {
		for i := range x {
			col[i] = x[i][j]
		}
		mean, std := stat.PopMeanStdDev(col, nil)
		if std == 0 || math.IsNaN(std) {
			std = 1
		}
		s.Mean[j] = mean
		s.Scale[j] = std
	}
	return s.Transform(x)
}

// Transform applies the fitted statistics to x.
func (s *Scaler) Transform(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for i, row := range x {
		r := make([]float64, len(row))
		for j, v := range row {
			r[j] = (v - s.Mean[j]) / s.Scale[j]
		}
		out[i] = r
	}
	return out
}
