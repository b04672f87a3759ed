package scoring

import (
	"testing"

	"github.com/newthinker/insiderlog/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clusterOf(dollars float64, roles ...string) core.IssuerCluster {
	c := core.IssuerCluster{Ticker: "ABCD"}
	per := dollars / float64(len(roles))
	for i, r := range roles {
		c.Members = append(c.Members, core.InsiderTransaction{
			Ticker:      "ABCD",
			OwnerName:   string(rune('A' + i)),
			OwnerRole:   r,
			DollarValue: per,
		})
	}
	return c
}

func TestScore_Bounded(t *testing.T) {
	e := NewEngine(DefaultParams(), nil)

	clusters := []core.IssuerCluster{
		{},
		clusterOf(1, "Insider"),
		clusterOf(70_000, "CEO", "CFO"),
		clusterOf(50_000_000, "CEO", "CFO", "President", "Director", "Insider", "CEO"),
	}
	for _, c := range clusters {
		for _, hasAnalyst := range []bool{false, true} {
			s := e.Score(c, hasAnalyst)
			assert.GreaterOrEqual(t, s.Total, 0.0)
			assert.LessOrEqual(t, s.Total, e.params.MaxScore)
			assert.LessOrEqual(t, s.Breadth, e.params.BreadthCap)
			assert.LessOrEqual(t, s.Dollars, e.params.DollarCap)
			assert.LessOrEqual(t, s.Seniority, e.params.SeniorityCap)
		}
	}
}

func TestScore_Idempotent(t *testing.T) {
	e := NewEngine(DefaultParams(), nil)
	c := clusterOf(400_000, "CEO", "Director")

	first := e.Score(c, true)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, e.Score(c, true), "re-scoring identical input must be stable")
	}
}

func TestScore_ComponentsClampedBeforeSum(t *testing.T) {
	// A huge dollar value must not push the total past what the dollar
	// cap permits; saturation happens per component.
	p := DefaultParams()
	e := NewEngine(p, nil)

	small := e.Score(clusterOf(p.DollarSaturation, "Insider"), false)
	huge := e.Score(clusterOf(p.DollarSaturation*100, "Insider"), false)
	assert.Equal(t, small.Dollars, huge.Dollars, "dollar component saturates at the cap")
	assert.Equal(t, small.Total, huge.Total)
}

func TestScore_BreadthSaturates(t *testing.T) {
	e := NewEngine(DefaultParams(), nil)

	three := e.Score(clusterOf(300, "Insider", "Insider", "Insider"), false)
	six := e.Score(clusterOf(300, "Insider", "Insider", "Insider", "Insider", "Insider", "Insider"), false)
	assert.Equal(t, e.params.BreadthCap, three.Breadth)
	assert.Equal(t, three.Breadth, six.Breadth, "breadth is flat past the saturation point")

	one := e.Score(clusterOf(300, "Insider"), false)
	two := e.Score(clusterOf(300, "Insider", "Insider"), false)
	assert.Less(t, one.Breadth, two.Breadth, "breadth is monotonic below saturation")
	assert.Less(t, two.Breadth, three.Breadth)
}

func TestScore_AnalystBonus(t *testing.T) {
	e := NewEngine(DefaultParams(), nil)
	c := clusterOf(60_000, "Director", "Director")

	without := e.Score(c, false)
	with := e.Score(c, true)
	assert.Equal(t, 0.0, without.Bonus)
	assert.Equal(t, e.params.AnalystBonus, with.Bonus)
	assert.Equal(t, without.Total+e.params.AnalystBonus, with.Total)
}

func TestScore_SeniorityUsesHighestTier(t *testing.T) {
	e := NewEngine(DefaultParams(), nil)

	ceoLed := e.Score(clusterOf(60_000, "Insider", "Chief Executive Officer"), false)
	insiders := e.Score(clusterOf(60_000, "Insider", "Insider"), false)
	assert.Greater(t, ceoLed.Seniority, insiders.Seniority)
	assert.Equal(t, core.TierCEO, TopTier(clusterOf(1000, "Director", "CEO", "Insider")))
}

func TestClassifyRole(t *testing.T) {
	cases := []struct {
		role string
		want core.SeniorityTier
	}{
		{"CEO", core.TierCEO},
		{"Chief Executive Officer", core.TierCEO},
		{"CEO/Chairman", core.TierCEO},
		{"Chief Financial Officer", core.TierCFO},
		{"CFO", core.TierCFO},
		{"President", core.TierPresident},
		{"President & COO", core.TierPresident},
		{"Vice President", core.TierInsider},
		{"Senior Vice President, Sales", core.TierInsider},
		{"Director", core.TierDirector},
		{"Chairman of the Board", core.TierDirector},
		{"Insider", core.TierInsider},
		{"", core.TierInsider},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyRole(tc.role), "role %q", tc.role)
	}
}

func TestPulse_BandsAndSectors(t *testing.T) {
	lookup := StaticSectors{"ABCD": "Technology", "EFGH": "Healthcare"}
	e := NewEngine(DefaultParams(), lookup)

	clusters := []core.IssuerCluster{
		clusterOf(100_000, "CEO", "CFO"), // ABCD, 2 insiders
		{Ticker: "EFGH", Members: []core.InsiderTransaction{
			{Ticker: "EFGH", OwnerRole: "Director", DollarValue: 50_000},
		}},
	}

	pulse := e.Pulse(clusters, nil, map[string]bool{"ABCD": true})

	require.Equal(t, 3, pulse.InsiderCount)
	assert.Equal(t, 150_000.0, pulse.TotalDollars)
	assert.Equal(t, "Technology", pulse.DominantSector)
	assert.Equal(t, core.BandSelective, pulse.Band)
	assert.Equal(t, 1, pulse.AnalystCoverage)
}

func TestPulse_EmptyRunIsValid(t *testing.T) {
	e := NewEngine(DefaultParams(), nil)
	pulse := e.Pulse(nil, nil, nil)

	assert.Equal(t, 0, pulse.InsiderCount)
	assert.Equal(t, core.BandMuted, pulse.Band)
	assert.Empty(t, pulse.DominantSector)
}

func TestPulse_UnknownDominantExcluded(t *testing.T) {
	// When the leading bucket is the unknown sector, there is no
	// meaningful dominant sector to report.
	e := NewEngine(DefaultParams(), StaticSectors{})
	clusters := []core.IssuerCluster{clusterOf(80_000, "CEO", "CFO", "Director")}

	pulse := e.Pulse(clusters, nil, nil)
	assert.Equal(t, 3, pulse.SectorCounts[SectorUnknown])
	assert.Empty(t, pulse.DominantSector)
}

func TestPulse_Bands(t *testing.T) {
	e := NewEngine(DefaultParams(), nil)

	bandFor := func(insiders int) core.ActivityBand {
		var unclustered []core.InsiderTransaction
		for i := 0; i < insiders; i++ {
			unclustered = append(unclustered, core.InsiderTransaction{DollarValue: 1})
		}
		return e.Pulse(nil, unclustered, nil).Band
	}

	assert.Equal(t, core.BandMuted, bandFor(0))
	assert.Equal(t, core.BandSelective, bandFor(1))
	assert.Equal(t, core.BandSelective, bandFor(3))
	assert.Equal(t, core.BandBroad, bandFor(4))
	assert.Equal(t, core.BandAccelerating, bandFor(8))
}
