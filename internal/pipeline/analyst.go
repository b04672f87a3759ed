package pipeline

import (
	"sort"
	"strings"

	"github.com/newthinker/insiderlog/internal/core"
)

// AnalystOptions gates which price-target revisions qualify as signals.
type AnalystOptions struct {
	// MinRaisePct is the minimum relative target increase, e.g. 0.10.
	MinRaisePct float64
	// MaxSignals caps how many signals are surfaced. Zero means no cap.
	MaxSignals int
	// RequireRatingChange rejects reiterations: the prior and current
	// rating must differ for the revision to count as an upgrade.
	RequireRatingChange bool
}

// QualifyRevisions filters raw target revisions down to qualifying analyst
// signals. A revision qualifies when the prior target is known and positive,
// the new target exceeds it, and the relative increase meets the threshold.
// Results are sorted by percent increase descending (ticker as tie-break,
// since upstream order carries no meaning) and truncated to MaxSignals.
func QualifyRevisions(revs []core.TargetRevision, opts AnalystOptions) []core.AnalystSignal {
	signals := make([]core.AnalystSignal, 0, len(revs))

	for _, r := range revs {
		// A missing or zero prior target invalidates the signal.
		if r.TargetPrior <= 0 {
			continue
		}
		if r.Target <= r.TargetPrior {
			continue
		}
		if opts.RequireRatingChange && sameRating(r.RatingPrior, r.RatingCurrent) {
			continue
		}

		pct := (r.Target - r.TargetPrior) / r.TargetPrior
		if pct < opts.MinRaisePct {
			continue
		}

		signals = append(signals, core.AnalystSignal{
			Ticker:        r.Ticker,
			Analyst:       r.Analyst,
			RatingPrior:   r.RatingPrior,
			RatingCurrent: r.RatingCurrent,
			OldTarget:     r.TargetPrior,
			NewTarget:     r.Target,
			PctIncrease:   pct,
			PublishedDate: r.PublishedDate,
		})
	}

	sort.SliceStable(signals, func(i, j int) bool {
		if signals[i].PctIncrease != signals[j].PctIncrease {
			return signals[i].PctIncrease > signals[j].PctIncrease
		}
		return signals[i].Ticker < signals[j].Ticker
	})

	if opts.MaxSignals > 0 && len(signals) > opts.MaxSignals {
		signals = signals[:opts.MaxSignals]
	}

	return signals
}

// sameRating compares ratings case-insensitively so "Buy" and "buy" count
// as the same rating. Two blank ratings also compare equal, which rejects
// revisions that carry no rating data at all when strictness is on.
func sameRating(prior, current string) bool {
	return strings.EqualFold(strings.TrimSpace(prior), strings.TrimSpace(current))
}
