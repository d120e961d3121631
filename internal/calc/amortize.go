package calc

import "math"

// MonthlyPayment computes the fixed monthly payment for a fully-amortizing
// loan using the standard formula M = P*r(1+r)^n / ((1+r)^n - 1), where r is
// the monthly rate and n the number of payments. A zero rate degenerates to
// straight-line principal repayment.
func MonthlyPayment(principal, annualRate float64, termYears int) float64 {
	if principal <= 0 || termYears <= 0 {
		return 0
	}

	n := float64(termYears * 12)
	if annualRate == 0 {
		return principal / n
	}

	r := annualRate / 12
	factor := math.Pow(1+r, n)
	return principal * r * factor / (factor - 1)
}

// roundCents rounds a currency amount to the nearest cent.
func roundCents(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100) / 100
}

// roundRate rounds a rate or ratio to four decimal places.
func roundRate(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*10000) / 10000
}
