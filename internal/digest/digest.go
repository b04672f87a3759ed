// Package digest writes the plain-English commentary paragraph for a
// run report, using an LLM when one is configured.
package digest

import (
	"context"
	"fmt"
	"strings"

	"github.com/newthinker/insiderlog/internal/core"
	"github.com/newthinker/insiderlog/internal/llm"
	"go.uber.org/zap"
)

const systemPrompt = "You summarize insider trading activity for retail readers. " +
	"Write one short paragraph in plain English. No hype, no advice, no predictions. " +
	"Mention clusters of insider buying first, then analyst support if any."

// Writer produces report commentary. A nil provider is valid; the writer
// then always uses the deterministic fallback, and commentary failures
// never fail a run.
type Writer struct {
	provider llm.Provider
	logger   *zap.Logger
}

// NewWriter creates a commentary writer.
func NewWriter(provider llm.Provider, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{provider: provider, logger: logger}
}

// Commentary returns the paragraph for a report. The LLM path is best
// effort: any provider failure falls back to a deterministic summary.
func (w *Writer) Commentary(ctx context.Context, report core.Report) string {
	if w.provider == nil {
		return fallback(report)
	}

	resp, err := w.provider.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: systemPrompt,
		Prompt:       buildPrompt(report),
		MaxTokens:    300,
	})
	if err != nil {
		w.logger.Warn("commentary generation failed, using fallback",
			zap.String("provider", w.provider.Name()),
			zap.Error(err))
		return fallback(report)
	}

	content := strings.TrimSpace(resp.Content)
	if content == "" {
		return fallback(report)
	}
	return content
}

// buildPrompt flattens the report into a factual briefing for the model.
func buildPrompt(report core.Report) string {
	var sb strings.Builder

	if report.Empty() {
		fmt.Fprintf(&sb, "No qualifying insider purchases in the last %d hours.\n", report.LookbackHours)
		if report.QuietStreak > 1 {
			fmt.Fprintf(&sb, "This is the %dth quiet run in a row.\n", report.QuietStreak)
		}
		return sb.String()
	}

	fmt.Fprintf(&sb, "Insider activity in the last %d hours: %d insider(s), $%.0f total. Band: %s.\n",
		report.LookbackHours, report.Pulse.InsiderCount, report.Pulse.TotalDollars, report.Pulse.Band)
	if report.Pulse.DominantSector != "" {
		fmt.Fprintf(&sb, "Activity concentrated in %s.\n", report.Pulse.DominantSector)
	}

	for _, sc := range report.Clusters {
		fmt.Fprintf(&sb, "Cluster %s: %d insiders bought $%.0f total, top role %s, conviction %.1f/10",
			sc.Cluster.Ticker, sc.Cluster.MemberCount(), sc.Cluster.TotalDollars(),
			sc.TopTier, sc.Score.Total)
		if sc.Score.Bonus > 0 {
			sb.WriteString(", with analyst backing")
		}
		sb.WriteString(".\n")
	}
	for _, tx := range report.NotableBuys {
		fmt.Fprintf(&sb, "Single buy: %s %s bought $%.0f of %s.\n",
			tx.OwnerRole, tx.OwnerName, tx.DollarValue, tx.Ticker)
	}
	for _, s := range report.AnalystSignals {
		fmt.Fprintf(&sb, "Analyst %s raised %s target %.0f -> %.0f (+%.1f%%).\n",
			s.Analyst, s.Ticker, s.OldTarget, s.NewTarget, s.PctIncrease*100)
	}

	return sb.String()
}

// fallback is the deterministic commentary used when no LLM is available.
func fallback(report core.Report) string {
	if report.Empty() {
		if report.QuietStreak > 1 {
			return fmt.Sprintf("No qualifying insider purchases in the last %d hours. That makes %d quiet runs in a row.",
				report.LookbackHours, report.QuietStreak)
		}
		return fmt.Sprintf("No qualifying insider purchases in the last %d hours.", report.LookbackHours)
	}

	parts := []string{
		fmt.Sprintf("%d insider purchase(s) totaling $%.0f in the last %d hours.",
			report.Pulse.InsiderCount, report.Pulse.TotalDollars, report.LookbackHours),
	}
	if n := len(report.Clusters); n > 0 {
		tickers := make([]string, 0, n)
		for _, sc := range report.Clusters {
			tickers = append(tickers, sc.Cluster.Ticker)
		}
		parts = append(parts, fmt.Sprintf("Clustered buying in %s.", strings.Join(tickers, ", ")))
	}
	if n := len(report.AnalystSignals); n > 0 {
		parts = append(parts, fmt.Sprintf("%d analyst target raise(s) qualified.", n))
	}
	return strings.Join(parts, " ")
}
