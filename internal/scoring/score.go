// Package scoring assigns bounded conviction scores to issuer clusters and
// computes the run-wide market pulse.
package scoring

import "github.com/newthinker/insiderlog/internal/core"

// Params holds the score weights and caps. The contract is the shape:
// each component saturates and is clamped on its own before summing, and
// the sum is clamped again to MaxScore. Clamping once at the end would let
// one dominant component mask a cap violation in another.
type Params struct {
	MaxScore          float64
	BreadthCap        float64
	BreadthSaturation int // member count at which breadth saturates
	DollarCap         float64
	DollarSaturation  float64 // total dollars at which the dollar score saturates
	AnalystBonus      float64
	SeniorityCap      float64
}

// DefaultParams returns the standard scoring profile: components capped at
// 3/3/3 with a +1 analyst bonus on a 10-point scale.
func DefaultParams() Params {
	return Params{
		MaxScore:          10,
		BreadthCap:        3,
		BreadthSaturation: 3,
		DollarCap:         3,
		DollarSaturation:  1_000_000,
		AnalystBonus:      1,
		SeniorityCap:      3,
	}
}

// Engine scores clusters against a fixed parameter set and sector lookup.
type Engine struct {
	params  Params
	sectors SectorLookup
}

// NewEngine creates a scoring engine. A nil lookup classifies every ticker
// as unknown.
func NewEngine(params Params, sectors SectorLookup) *Engine {
	if sectors == nil {
		sectors = StaticSectors(nil)
	}
	return &Engine{params: params, sectors: sectors}
}

// Score computes the conviction score for one cluster. hasAnalyst reports
// whether at least one qualifying analyst signal shares the cluster's
// ticker. Scoring is pure: identical inputs always produce the identical
// score, and the total is always within [0, MaxScore].
func (e *Engine) Score(cluster core.IssuerCluster, hasAnalyst bool) core.ConvictionScore {
	p := e.params

	breadth := clamp(e.breadth(cluster.MemberCount()), 0, p.BreadthCap)
	dollars := clamp(e.dollars(cluster.TotalDollars()), 0, p.DollarCap)
	seniority := clamp(e.seniority(cluster), 0, p.SeniorityCap)

	bonus := 0.0
	if hasAnalyst {
		bonus = p.AnalystBonus
	}

	return core.ConvictionScore{
		Breadth:   breadth,
		Dollars:   dollars,
		Seniority: seniority,
		Bonus:     bonus,
		Total:     clamp(breadth+dollars+seniority+bonus, 0, p.MaxScore),
	}
}

// breadth grows linearly with member count and saturates once the count
// reaches the configured saturation point.
func (e *Engine) breadth(members int) float64 {
	sat := e.params.BreadthSaturation
	if sat < 1 {
		sat = 1
	}
	if members >= sat {
		return e.params.BreadthCap
	}
	return e.params.BreadthCap * float64(members) / float64(sat)
}

// dollars grows linearly with total dollar value and saturates at the
// configured threshold.
func (e *Engine) dollars(total float64) float64 {
	if total <= 0 {
		return 0
	}
	if total >= e.params.DollarSaturation {
		return e.params.DollarCap
	}
	return e.params.DollarCap * total / e.params.DollarSaturation
}

// seniority maps the single highest tier among member roles to points.
func (e *Engine) seniority(cluster core.IssuerCluster) float64 {
	limit := e.params.SeniorityCap
	switch TopTier(cluster) {
	case core.TierCEO:
		return limit
	case core.TierCFO:
		return limit * 5 / 6
	case core.TierPresident:
		return limit * 2 / 3
	case core.TierDirector:
		return limit / 2
	default:
		return limit / 6
	}
}

// TopTier returns the highest seniority tier among a cluster's members.
func TopTier(cluster core.IssuerCluster) core.SeniorityTier {
	top := core.TierInsider
	for _, m := range cluster.Members {
		if tier := ClassifyRole(m.OwnerRole); tier > top {
			top = tier
		}
	}
	return top
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
