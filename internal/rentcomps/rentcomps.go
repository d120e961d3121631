// Package rentcomps derives a monthly rent estimate from comparable rental
// listings when the data provider supplies comps instead of a point estimate.
package rentcomps

import (
	"math"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/yourorg/dealiq-engine/internal/model"
)

// Estimate is the aggregated rent estimate with its provenance.
type Estimate struct {
	MonthlyRent float64 `json:"monthly_rent"`
	CompCount   int     `json:"comp_count"`
	Method      string  `json:"method"`
	Confidence  float64 `json:"confidence"`
}

// Weighted computes a similarity-weighted average rent. Each comp's weight
// combines provider correlation with recency and distance decay, so a fresh
// same-street comp counts far more than a stale one across town.
func Weighted(comps []model.RentComp) Estimate {
	if len(comps) == 0 {
		return Estimate{Method: "weighted"}
	}

	var totalWeight, weightedRent float64
	valid := 0

	for _, c := range comps {
		if c.MonthlyRent <= 0 {
			continue
		}
		w := compWeight(c)
		totalWeight += w
		weightedRent += c.MonthlyRent * w
		valid++
	}

	if valid == 0 || totalWeight <= 0 || math.IsNaN(weightedRent) {
		return Estimate{Method: "weighted"}
	}

	return Estimate{
		MonthlyRent: math.Round(weightedRent/totalWeight*100) / 100,
		CompCount:   valid,
		Method:      "weighted",
		Confidence:  confidence(comps),
	}
}

// compWeight scores one comparable's reliability. Correlation is the
// provider's similarity score when present; otherwise distance and age decay
// stand in for it.
func compWeight(c model.RentComp) float64 {
	w := 1.0
	if c.Correlation > 0 {
		w = c.Correlation
	}

	// Halve the weight every 2 miles and every 180 days
	w *= math.Pow(0.5, c.DistanceMiles/2)
	w *= math.Pow(0.5, float64(c.DaysOld)/180)

	if w < 0.01 {
		w = 0.01
	}
	return w
}

// Median computes the median comp rent. Robust against a single bad comp,
// useful when provider correlation scores are unreliable.
func Median(comps []model.RentComp) Estimate {
	values := make([]float64, 0, len(comps))
	for _, c := range comps {
		if c.MonthlyRent > 0 {
			values = append(values, c.MonthlyRent)
		}
	}

	if len(values) == 0 {
		return Estimate{Method: "median"}
	}

	sort.Float64s(values)
	n := len(values)
	m := values[n/2]
	if n%2 == 0 {
		m = (values[n/2-1] + values[n/2]) / 2
	}

	return Estimate{
		MonthlyRent: math.Round(m*100) / 100,
		CompCount:   n,
		Method:      "median",
		Confidence:  confidence(comps),
	}
}

// TrimmedMean drops the given fraction of the highest and lowest rents
// before weighting. Falls back to the plain weighted average when the set is
// too small to trim.
func TrimmedMean(comps []model.RentComp, trimPercent float64) Estimate {
	if len(comps) < 3 || trimPercent <= 0 || trimPercent >= 0.5 {
		return Weighted(comps)
	}

	valid := make([]model.RentComp, 0, len(comps))
	for _, c := range comps {
		if c.MonthlyRent > 0 {
			valid = append(valid, c)
		}
	}
	if len(valid) < 3 {
		return Weighted(comps)
	}

	sort.Slice(valid, func(i, j int) bool {
		return valid[i].MonthlyRent < valid[j].MonthlyRent
	})

	trim := int(float64(len(valid)) * trimPercent)
	trimmed := valid[trim : len(valid)-trim]

	e := Weighted(trimmed)
	e.Method = "trimmed"
	return e
}

// FilterOutliers removes comps whose rent falls outside the IQR fences.
// Fewer than four comps pass through untouched; the fences are meaningless
// on tiny samples.
func FilterOutliers(comps []model.RentComp) []model.RentComp {
	if len(comps) < 4 {
		return comps
	}

	rents := make([]float64, 0, len(comps))
	for _, c := range comps {
		if c.MonthlyRent > 0 {
			rents = append(rents, c.MonthlyRent)
		}
	}
	if len(rents) < 4 {
		return comps
	}

	sort.Float64s(rents)
	n := len(rents)
	q1 := rents[n/4]
	q3 := rents[n*3/4]
	iqr := q3 - q1

	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr

	filtered := make([]model.RentComp, 0, len(comps))
	for _, c := range comps {
		if c.MonthlyRent >= lower && c.MonthlyRent <= upper {
			filtered = append(filtered, c)
		} else {
			logrus.WithFields(logrus.Fields{
				"provider": c.Provider,
				"rent":     c.MonthlyRent,
				"bounds":   []float64{lower, upper},
			}).Info("Filtered outlier rent comp")
		}
	}
	return filtered
}

// confidence measures comp agreement: 1 when every comp says the same rent,
// decaying toward 0 as dispersion grows relative to the mean.
func confidence(comps []model.RentComp) float64 {
	values := make([]float64, 0, len(comps))
	for _, c := range comps {
		if c.MonthlyRent > 0 {
			values = append(values, c.MonthlyRent)
		}
	}
	if len(values) < 2 {
		return 0.5
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	if mean == 0 {
		return 0
	}

	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values) - 1)

	cv := math.Sqrt(variance) / mean
	c := 1 / (1 + cv*5)
	return math.Round(c*10000) / 10000
}

// Aggregate applies outlier filtering then the configured aggregation mode:
// weighted, median, trimmed, or consensus (weighted over comps that agree
// with the pack).
func Aggregate(comps []model.RentComp, mode string) Estimate {
	filtered := FilterOutliers(comps)

	switch mode {
	case "median":
		return Median(filtered)
	case "trimmed":
		return TrimmedMean(filtered, 0.1)
	case "consensus":
		return consensusEstimate(filtered)
	default:
		return Weighted(filtered)
	}
}

// consensusEstimate keeps only comps within 15% of the median before
// weighting, falling back to the full set when that leaves too few.
func consensusEstimate(comps []model.RentComp) Estimate {
	med := Median(comps)
	if med.MonthlyRent == 0 {
		return Estimate{Method: "consensus"}
	}

	var agreeing []model.RentComp
	for _, c := range comps {
		if math.Abs(c.MonthlyRent-med.MonthlyRent)/med.MonthlyRent <= 0.15 {
			agreeing = append(agreeing, c)
		}
	}
	if len(agreeing) < 2 {
		agreeing = comps
	}

	e := Weighted(agreeing)
	e.Method = "consensus"
	return e
}
