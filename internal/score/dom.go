package score

// DOMScore is the contextual days-on-market assessment: the same DOM means
// different negotiating leverage depending on how large a discount the deal
// already requires.
type DOMScore struct {
	Score    int    `json:"score"`
	Leverage string `json:"leverage"`
}

// Leverage labels for the DOM lattice
const (
	LeverageMinimal  = "minimal"
	LeverageModerate = "moderate"
	LeverageStrong   = "strong"
)

// domLattice maps (deal-gap bucket, DOM bucket) to a 0-100 score. Rows are
// deal-gap buckets: <10%, 10-25%, >=25%. Columns are DOM buckets: <30,
// 30-60, 60-120, >=120 days. A stale listing matters most when the required
// discount is large: the seller has had time to absorb reality.
var domLattice = [3][4]int{
	{20, 35, 50, 60}, // gap < 10%: small ask, DOM helps a little
	{15, 40, 65, 80}, // gap 10-25%: DOM is real leverage
	{10, 30, 70, 90}, // gap >= 25%: only a worn-down seller closes this
}

// CalculateDOMScore maps days on market against the required deal gap
// through the 3x4 threshold lattice.
func CalculateDOMScore(daysOnMarket int, dealGapPercent float64) DOMScore {
	row := 0
	switch {
	case dealGapPercent >= 25:
		row = 2
	case dealGapPercent >= 10:
		row = 1
	}

	col := 0
	switch {
	case daysOnMarket >= 120:
		col = 3
	case daysOnMarket >= 60:
		col = 2
	case daysOnMarket >= 30:
		col = 1
	}

	s := domLattice[row][col]
	return DOMScore{Score: s, Leverage: leverageLabel(s)}
}

// leverageLabel buckets a DOM score into a leverage description.
func leverageLabel(score int) string {
	switch {
	case score >= 65:
		return LeverageStrong
	case score >= 35:
		return LeverageModerate
	default:
		return LeverageMinimal
	}
}

// domBonus is the motivation bonus earned purely by time on market,
// independent of deal gap: 0/5/10/15/20 at the 60/90/120/180-day thresholds.
func domBonus(daysOnMarket int) int {
	switch {
	case daysOnMarket >= 180:
		return 20
	case daysOnMarket >= 120:
		return 15
	case daysOnMarket >= 90:
		return 10
	case daysOnMarket >= 60:
		return 5
	default:
		return 0
	}
}
