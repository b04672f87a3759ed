package pipeline

import "github.com/newthinker/insiderlog/internal/core"

// Material reports whether a transaction meets the minimum dollar
// threshold. A transaction exactly at the threshold passes.
func Material(tx core.InsiderTransaction, minDollars float64) bool {
	return tx.DollarValue >= minDollars
}

// FilterMaterial returns the transactions at or above the threshold,
// preserving input order.
func FilterMaterial(txs []core.InsiderTransaction, minDollars float64) []core.InsiderTransaction {
	result := make([]core.InsiderTransaction, 0, len(txs))
	for _, tx := range txs {
		if Material(tx, minDollars) {
			result = append(result, tx)
		}
	}
	return result
}
