package pipeline

import "github.com/newthinker/insiderlog/internal/core"

// Partition is the result of grouping filtered transactions by issuer.
// Clusters keep first-seen ticker order; members keep discovery order.
// Blank-ticker transactions cannot be grouped meaningfully, so they are
// carried separately rather than silently dropped.
type Partition struct {
	Clusters    []core.IssuerCluster
	Unclustered []core.InsiderTransaction
}

// Cluster partitions transactions by non-empty ticker. Every input
// transaction lands in exactly one place: its ticker's cluster, or the
// unclustered list.
func Cluster(txs []core.InsiderTransaction) Partition {
	var p Partition
	index := make(map[string]int)

	for _, tx := range txs {
		if tx.Ticker == "" {
			p.Unclustered = append(p.Unclustered, tx)
			continue
		}
		i, seen := index[tx.Ticker]
		if !seen {
			index[tx.Ticker] = len(p.Clusters)
			p.Clusters = append(p.Clusters, core.IssuerCluster{Ticker: tx.Ticker})
			i = len(p.Clusters) - 1
		}
		p.Clusters[i].Members = append(p.Clusters[i].Members, tx)
	}

	return p
}

// Corroborated returns the clusters with two or more independent insiders.
func (p Partition) Corroborated() []core.IssuerCluster {
	var result []core.IssuerCluster
	for _, c := range p.Clusters {
		if c.Corroborated() {
			result = append(result, c)
		}
	}
	return result
}

// Standalone returns the single-member clusters, the notable buys that
// did not reach cluster status.
func (p Partition) Standalone() []core.IssuerCluster {
	var result []core.IssuerCluster
	for _, c := range p.Clusters {
		if !c.Corroborated() {
			result = append(result, c)
		}
	}
	return result
}

// HadActivity reports whether the partition holds any qualifying
// transaction at all, clustered or not.
func (p Partition) HadActivity() bool {
	return len(p.Clusters) > 0 || len(p.Unclustered) > 0
}
