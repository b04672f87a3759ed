// Package pipeline turns raw filing documents and analyst revisions into
// the deduplicated, filtered populations the scoring engine consumes.
package pipeline

import "github.com/newthinker/insiderlog/internal/core"

// Normalize summarizes the open-market purchase entries of one filing into
// a single InsiderTransaction. It returns nil when the document carries no
// qualifying purchase: missing transaction table, no purchase-coded entries,
// or an aggregate dollar value of zero or less. Malformed documents are
// never an error; they simply produce nothing.
func Normalize(doc core.FilingDocument) *core.InsiderTransaction {
	if !doc.HasTransactions() {
		return nil
	}

	var (
		shares  float64
		dollars float64
		latest  string
	)
	for _, e := range doc.Entries {
		if e.Code != core.CodePurchase {
			continue
		}
		// Dollar value is recomputed per entry, never trusted upstream.
		value := e.Shares * e.Price
		if value < 0 {
			continue
		}
		shares += e.Shares
		dollars += value
		// ISO date strings order lexicographically; the record exposes
		// the latest purchase date, not the first in document order.
		if e.Date > latest {
			latest = e.Date
		}
	}

	if dollars <= 0 {
		return nil
	}

	avg := 0.0
	if shares > 0 {
		avg = dollars / shares
	}

	return &core.InsiderTransaction{
		Ticker:      doc.Ticker,
		IssuerName:  doc.IssuerName,
		OwnerName:   doc.OwnerName,
		OwnerRole:   resolveRole(doc),
		Date:        latest,
		Shares:      shares,
		AvgPrice:    avg,
		DollarValue: dollars,
		SourceURL:   doc.SourceURL,
	}
}

// resolveRole prefers the explicit officer title. The officer and
// ten-percent-owner flags are informational only and never override or
// substitute for a title; a blank title always resolves to "Insider".
func resolveRole(doc core.FilingDocument) string {
	if doc.OwnerTitle != "" {
		return doc.OwnerTitle
	}
	return "Insider"
}
