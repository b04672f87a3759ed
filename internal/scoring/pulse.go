package scoring

import "github.com/newthinker/insiderlog/internal/core"

// Band thresholds on the qualifying-insider count. Bands are mutually
// exclusive: muted < selective < broad < accelerating.
const (
	selectiveMin    = 1
	broadMin        = 4
	acceleratingMin = 8
)

// Pulse computes the run-wide meta-aggregates over every qualifying
// transaction, clustered or not. analystTickers is the set of tickers
// with at least one qualifying analyst signal. Empty inputs are a valid
// state and resolve to the lowest band, never an error.
func (e *Engine) Pulse(clusters []core.IssuerCluster, unclustered []core.InsiderTransaction, analystTickers map[string]bool) core.MarketPulse {
	pulse := core.MarketPulse{
		SectorCounts: make(map[string]int),
	}

	for _, c := range clusters {
		pulse.InsiderCount += c.MemberCount()
		pulse.TotalDollars += c.TotalDollars()
		pulse.SectorCounts[e.sectors.Sector(c.Ticker)] += c.MemberCount()
		if c.Corroborated() && analystTickers[c.Ticker] {
			pulse.AnalystCoverage++
		}
	}
	for _, tx := range unclustered {
		pulse.InsiderCount++
		pulse.TotalDollars += tx.DollarValue
		pulse.SectorCounts[SectorUnknown]++
	}

	pulse.DominantSector = dominantSector(pulse.SectorCounts)
	pulse.Band = band(pulse.InsiderCount)
	return pulse
}

// dominantSector returns the most-populated sector, or "" when there is
// no meaningful dominant bucket: no activity, a tie for the lead, or the
// leader being the unknown bucket.
func dominantSector(counts map[string]int) string {
	best, bestCount, tied := "", 0, false
	for sector, n := range counts {
		switch {
		case n > bestCount:
			best, bestCount, tied = sector, n, false
		case n == bestCount && n > 0:
			tied = true
		}
	}
	if bestCount == 0 || tied || best == SectorUnknown {
		return ""
	}
	return best
}

func band(insiders int) core.ActivityBand {
	switch {
	case insiders >= acceleratingMin:
		return core.BandAccelerating
	case insiders >= broadMin:
		return core.BandBroad
	case insiders >= selectiveMin:
		return core.BandSelective
	default:
		return core.BandMuted
	}
}
