package core

import "time"

// TransactionCode classifies a Form 4 transaction line.
type TransactionCode string

const (
	// CodePurchase is an open-market or private purchase.
	CodePurchase TransactionCode = "P"
	// CodeSale is an open-market or private sale.
	CodeSale TransactionCode = "S"
	// CodeGrant is an award or grant from the issuer.
	CodeGrant TransactionCode = "A"
)

// TransactionEntry is one line item inside a filing's transaction table.
type TransactionEntry struct {
	Code   TransactionCode
	Date   string // ISO date string, may be empty
	Shares float64
	Price  float64
}

// FilingDocument is one parsed insider-ownership disclosure.
// Feed clients produce these; the pipeline consumes them.
type FilingDocument struct {
	IssuerName        string
	Ticker            string
	OwnerName         string
	OwnerTitle        string
	IsOfficer         bool
	IsTenPercentOwner bool
	Entries           []TransactionEntry
	SourceURL         string
}

// HasTransactions reports whether the document carried a transaction table.
func (d FilingDocument) HasTransactions() bool {
	return len(d.Entries) > 0
}

// InsiderTransaction is the aggregate open-market purchase extracted from
// one filing. DollarValue is always recomputed from shares and price,
// never trusted from upstream.
type InsiderTransaction struct {
	Ticker      string
	IssuerName  string
	OwnerName   string
	OwnerRole   string
	Date        string // latest ISO date among qualifying entries
	Shares      float64
	AvgPrice    float64
	DollarValue float64
	SourceURL   string
}

// IssuerCluster groups same-ticker purchases discovered in one run.
// Members keep discovery order. Clusters are rebuilt every run.
type IssuerCluster struct {
	Ticker  string
	Members []InsiderTransaction
}

// MemberCount returns the number of member transactions.
func (c IssuerCluster) MemberCount() int {
	return len(c.Members)
}

// TotalDollars sums the member dollar values.
func (c IssuerCluster) TotalDollars() float64 {
	var total float64
	for _, m := range c.Members {
		total += m.DollarValue
	}
	return total
}

// Corroborated reports whether at least two insiders bought independently.
func (c IssuerCluster) Corroborated() bool {
	return len(c.Members) >= 2
}

// TargetRevision is one raw analyst price-target record as fetched.
type TargetRevision struct {
	Ticker        string
	Analyst       string
	RatingPrior   string
	RatingCurrent string
	TargetPrior   float64
	Target        float64
	PublishedDate string
}

// AnalystSignal is a qualifying price-target raise.
type AnalystSignal struct {
	Ticker        string
	Analyst       string
	RatingPrior   string
	RatingCurrent string
	OldTarget     float64
	NewTarget     float64
	PctIncrease   float64 // (new - old) / old
	PublishedDate string
}

// SeniorityTier orders insider roles for scoring.
type SeniorityTier int

const (
	TierInsider SeniorityTier = iota
	TierDirector
	TierPresident
	TierCFO
	TierCEO
)

// String returns the display label for the tier.
func (t SeniorityTier) String() string {
	switch t {
	case TierCEO:
		return "CEO"
	case TierCFO:
		return "CFO"
	case TierPresident:
		return "President"
	case TierDirector:
		return "Director"
	default:
		return "Insider"
	}
}

// ConvictionScore is the bounded composite score for a cluster.
// Each component is clamped before summing; Total is clamped again.
type ConvictionScore struct {
	Breadth   float64
	Dollars   float64
	Seniority float64
	Bonus     float64
	Total     float64
}

// ScoredCluster pairs a cluster with its score and top seniority.
type ScoredCluster struct {
	Cluster IssuerCluster
	Score   ConvictionScore
	TopTier SeniorityTier
}

// ActivityBand is the qualitative market-wide narrative band.
type ActivityBand string

const (
	BandMuted        ActivityBand = "muted"
	BandSelective    ActivityBand = "selective"
	BandBroad        ActivityBand = "broad"
	BandAccelerating ActivityBand = "accelerating"
)

// MarketPulse holds run-wide meta-aggregates.
type MarketPulse struct {
	InsiderCount    int
	TotalDollars    float64
	SectorCounts    map[string]int
	DominantSector  string // empty when no meaningful dominant sector
	Band            ActivityBand
	AnalystCoverage int // corroborated clusters with analyst backing
}

// Report is the typed result of one run, handed to rendering and delivery.
type Report struct {
	RunID          string
	GeneratedAt    time.Time
	LookbackHours  int
	NotableBuys    []InsiderTransaction // single-insider qualifying buys
	Unclustered    []InsiderTransaction // qualifying buys with blank tickers
	Clusters       []ScoredCluster      // corroborated, high-conviction
	AnalystSignals []AnalystSignal
	QuietStreak    int
	Pulse          MarketPulse
	Commentary     string
}

// Empty reports whether the run found no qualifying activity at all.
func (r Report) Empty() bool {
	return len(r.NotableBuys) == 0 && len(r.Unclustered) == 0 &&
		len(r.Clusters) == 0 && len(r.AnalystSignals) == 0
}
