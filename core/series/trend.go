package series

import (
	"math"

	"github.com/huangsam/macrodash/schema"
	"gonum.org/v1/gonum/stat"
)

// exactFitTolerance is the relative residual below which a fit counts as exact.
const exactFitTolerance = 1e-12

// FitLinearTrend fits an ordinary least squares line to (period, value).
// It returns nil when there are fewer than two observations.
//
// R² is 1 - SS_res/SS_tot. When every value is identical SS_tot is zero, and R²
// is 1 for a perfect fit or NaN otherwise.
func FitLinearTrend(s schema.Series) *schema.TrendModel {
	if len(s) < 2 {
		return nil
	}
	xs := make([]float64, len(s))
	ys := s.Values()
	for i, o := range s {
		xs[i] = float64(o.Year())
	}
	if stat.Variance(xs, nil) == 0 {
		return nil
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)

	predicted := make(map[string]float64, len(s))
	meanY := stat.Mean(ys, nil)
	var ssRes, ssTot, sumSq float64
	for i, o := range s {
		p := slope*xs[i] + intercept
		predicted[o.Period] = p
		ssRes += (ys[i] - p) * (ys[i] - p)
		ssTot += (ys[i] - meanY) * (ys[i] - meanY)
		sumSq += ys[i] * ys[i]
	}
	if constant(ys) {
		ssTot = 0
	}

	return &schema.TrendModel{
		Slope:     slope,
		Intercept: intercept,
		RSquared:  rSquared(ssRes, ssTot, sumSq),
		Predicted: predicted,
	}
}

// rSquared applies the zero-variance rule on top of 1 - SS_res/SS_tot.
func rSquared(ssRes, ssTot, scale float64) float64 {
	if ssTot == 0 {
		if ssRes <= exactFitTolerance*max(scale, 1) {
			return 1
		}
		return math.NaN()
	}
	return 1 - ssRes/ssTot
}

// constant reports whether every value is identical.
func constant(ys []float64) bool {
	for _, y := range ys[1:] {
		if y != ys[0] {
			return false
		}
	}
	return true
}
