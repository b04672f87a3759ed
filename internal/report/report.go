// Package report assembles the typed run report from pipeline output.
package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/newthinker/insiderlog/internal/core"
	"github.com/newthinker/insiderlog/internal/pipeline"
	"github.com/newthinker/insiderlog/internal/scoring"
)

// Builder turns one run's pipeline results into a core.Report.
type Builder struct {
	engine        *scoring.Engine
	lookbackHours int
}

// NewBuilder creates a report builder around a scoring engine.
func NewBuilder(engine *scoring.Engine, lookbackHours int) *Builder {
	return &Builder{engine: engine, lookbackHours: lookbackHours}
}

// Build assembles the report. Corroborated clusters get scored; single
// insider buys and blank-ticker buys are reported without a score. The
// analyst join is an exact ticker match: a cluster is analyst-backed only
// when a qualifying signal carries the identical ticker string.
func (b *Builder) Build(p pipeline.Partition, signals []core.AnalystSignal, quietStreak int) core.Report {
	analystTickers := make(map[string]bool, len(signals))
	for _, s := range signals {
		analystTickers[s.Ticker] = true
	}

	var scored []core.ScoredCluster
	for _, c := range p.Corroborated() {
		scored = append(scored, core.ScoredCluster{
			Cluster: c,
			Score:   b.engine.Score(c, analystTickers[c.Ticker]),
			TopTier: scoring.TopTier(c),
		})
	}

	var notable []core.InsiderTransaction
	for _, c := range p.Standalone() {
		notable = append(notable, c.Members...)
	}

	return core.Report{
		RunID:          uuid.New().String(),
		GeneratedAt:    time.Now().UTC(),
		LookbackHours:  b.lookbackHours,
		NotableBuys:    notable,
		Unclustered:    p.Unclustered,
		Clusters:       scored,
		AnalystSignals: signals,
		QuietStreak:    quietStreak,
		Pulse:          b.engine.Pulse(p.Clusters, p.Unclustered, analystTickers),
	}
}
