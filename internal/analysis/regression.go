package analysis

import "math"

// Fit is a degree-1 least-squares fit y = Slope*x + Intercept.
type Fit struct {
	Slope     float64
	Intercept float64
	// R is the Pearson correlation; 0 when either series is constant.
	R float64
}

// FitIndex fits ys against their 0-based row index. Fewer than two points
// give a flat line through the only value (or zero).
func FitIndex(ys []float64) Fit {
	n := float64(len(ys))
	if len(ys) == 0 {
		return Fit{}
	}
	if len(ys) == 1 {
		return Fit{Intercept: ys[0]}
	}
	var sumX, sumY, sumXY, sumX2, sumY2 float64
	for i, y := range ys {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
		sumY2 += y * y
	}
	// a = (n*sum(xy) - sum(x)*sum(y)) / (n*sum(x^2) - sum(x)^2)
	den := n*sumX2 - sumX*sumX
	if math.Abs(den) < 1e-10 {
		return Fit{Intercept: sumY / n}
	}
	num := n*sumXY - sumX*sumY
	slope := num / den
	fit := Fit{Slope: slope, Intercept: (sumY - slope*sumX) / n}
	if rd := math.Sqrt(den * (n*sumY2 - sumY*sumY)); rd > 1e-10 {
		fit.R = num / rd
	}
	return fit
}
