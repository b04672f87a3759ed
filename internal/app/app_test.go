package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/newthinker/insiderlog/internal/config"
	"github.com/newthinker/insiderlog/internal/core"
	"github.com/newthinker/insiderlog/internal/digest"
	"github.com/newthinker/insiderlog/internal/metrics"
	"github.com/newthinker/insiderlog/internal/render"
	"github.com/newthinker/insiderlog/internal/report"
	"github.com/newthinker/insiderlog/internal/scoring"
	"github.com/newthinker/insiderlog/internal/storage/archive"
	"github.com/newthinker/insiderlog/internal/streak"
)

type fakeFilings struct {
	docs []core.FilingDocument
	err  error
}

func (f *fakeFilings) RecentFilings(context.Context, time.Duration) ([]core.FilingDocument, error) {
	return f.docs, f.err
}

type fakeRevisions struct {
	revs []core.TargetRevision
	err  error
}

func (f *fakeRevisions) RecentRevisions(context.Context, time.Duration) ([]core.TargetRevision, error) {
	return f.revs, f.err
}

func purchaseFiling(ticker, owner, title string, shares, price float64) core.FilingDocument {
	return core.FilingDocument{
		IssuerName: ticker + " Inc",
		Ticker:     ticker,
		OwnerName:  owner,
		OwnerTitle: title,
		Entries: []core.TransactionEntry{
			{Code: core.CodePurchase, Date: "2026-08-29", Shares: shares, Price: price},
		},
	}
}

func newApp(t *testing.T, filings FilingSource, revisions RevisionSource) *App {
	t.Helper()

	cfg := config.Defaults()
	store, err := archive.NewLocalFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalFS: %v", err)
	}
	renderer, err := render.New(cfg.Report.Title, cfg.Report.Subtitle)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	engine := scoring.NewEngine(scoring.Params{
		MaxScore:          cfg.Scoring.MaxScore,
		BreadthCap:        cfg.Scoring.BreadthCap,
		BreadthSaturation: cfg.Scoring.BreadthSaturation,
		DollarCap:         cfg.Scoring.DollarCap,
		DollarSaturation:  cfg.Scoring.DollarSaturation,
		AnalystBonus:      cfg.Scoring.AnalystBonus,
		SeniorityCap:      cfg.Scoring.SeniorityCap,
	}, scoring.StaticSectors(cfg.Sectors))

	return New(cfg, Deps{
		Filings:   filings,
		Revisions: revisions,
		Store:     store,
		Streak:    streak.New(store, "", nil),
		Builder:   report.NewBuilder(engine, cfg.Scan.LookbackHours),
		Renderer:  renderer,
		Digest:    digest.NewWriter(nil, nil),
		Metrics:   metrics.NewRegistry(),
	})
}

// Two independent insiders buying the same ticker form a corroborated
// cluster; the run publishes a page naming it.
func TestRun_CorroboratedCluster(t *testing.T) {
	app := newApp(t, &fakeFilings{docs: []core.FilingDocument{
		purchaseFiling("ABCD", "Smith", "CEO", 4000, 50),      // $200k
		purchaseFiling("ABCD", "Jones", "Director", 2000, 50), // $100k
		purchaseFiling("WXYZ", "Lee", "", 1500, 40),           // $60k single buy
		purchaseFiling("TINY", "Poor", "CFO", 10, 5),          // $50, below threshold
	}}, &fakeRevisions{})
	ctx := context.Background()

	rep, err := app.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(rep.Clusters) != 1 || rep.Clusters[0].Cluster.Ticker != "ABCD" {
		t.Fatalf("expected one ABCD cluster, got %+v", rep.Clusters)
	}
	if got := rep.Clusters[0].Cluster.MemberCount(); got != 2 {
		t.Errorf("cluster members: got %d", got)
	}
	if rep.Clusters[0].TopTier != core.TierCEO {
		t.Errorf("top tier: got %v", rep.Clusters[0].TopTier)
	}
	if len(rep.NotableBuys) != 1 || rep.NotableBuys[0].Ticker != "WXYZ" {
		t.Errorf("notable buys: got %+v", rep.NotableBuys)
	}
	if rep.NotableBuys[0].OwnerRole != "Insider" {
		t.Errorf("blank title must resolve to Insider, got %q", rep.NotableBuys[0].OwnerRole)
	}
	if rep.QuietStreak != 0 {
		t.Errorf("active run must reset streak, got %d", rep.QuietStreak)
	}

	page, err := app.LatestPage(ctx)
	if err != nil {
		t.Fatalf("LatestPage: %v", err)
	}
	if !strings.Contains(string(page), "ABCD") {
		t.Error("published page should name the cluster ticker")
	}
}

// An analyst raise on the clustered ticker earns the bonus point.
func TestRun_AnalystBackedCluster(t *testing.T) {
	app := newApp(t, &fakeFilings{docs: []core.FilingDocument{
		purchaseFiling("ABCD", "Smith", "CEO", 4000, 50),
		purchaseFiling("ABCD", "Jones", "Director", 2000, 50),
	}}, &fakeRevisions{revs: []core.TargetRevision{
		{Ticker: "ABCD", Analyst: "Big Bank", TargetPrior: 100, Target: 120,
			RatingPrior: "Hold", RatingCurrent: "Buy"},
	}})

	rep, err := app.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(rep.AnalystSignals) != 1 {
		t.Fatalf("expected 1 analyst signal, got %d", len(rep.AnalystSignals))
	}
	if rep.Clusters[0].Score.Bonus != 1 {
		t.Errorf("expected analyst bonus, score %+v", rep.Clusters[0].Score)
	}
}

// A sub-threshold raise and a rating reiteration both fail to qualify.
func TestRun_AnalystSignalsGated(t *testing.T) {
	app := newApp(t, &fakeFilings{}, &fakeRevisions{revs: []core.TargetRevision{
		{Ticker: "SMLL", TargetPrior: 100, Target: 106, RatingPrior: "Hold", RatingCurrent: "Buy"},
		{Ticker: "SAME", TargetPrior: 100, Target: 150, RatingPrior: "Buy", RatingCurrent: "Buy"},
		{Ticker: "GOOD", TargetPrior: 100, Target: 112, RatingPrior: "Hold", RatingCurrent: "Buy"},
	}})

	rep, err := app.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rep.AnalystSignals) != 1 || rep.AnalystSignals[0].Ticker != "GOOD" {
		t.Errorf("expected only GOOD to qualify, got %+v", rep.AnalystSignals)
	}
}

// Quiet runs build the streak; the next active run resets it.
func TestRun_QuietStreakLifecycle(t *testing.T) {
	filings := &fakeFilings{}
	app := newApp(t, filings, &fakeRevisions{})
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		rep, err := app.Run(ctx)
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if !rep.Empty() {
			t.Fatal("expected empty report")
		}
		if rep.QuietStreak != want {
			t.Errorf("run %d: streak got %d", want, rep.QuietStreak)
		}
	}

	filings.docs = []core.FilingDocument{purchaseFiling("ABCD", "Smith", "CEO", 4000, 50)}
	rep, err := app.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.QuietStreak != 0 {
		t.Errorf("activity must reset the streak, got %d", rep.QuietStreak)
	}
}

// A dead feed degrades to an empty population instead of failing the run.
func TestRun_FeedFailureDegrades(t *testing.T) {
	app := newApp(t,
		&fakeFilings{err: errors.New("edgar down")},
		&fakeRevisions{err: errors.New("fmp down")})

	rep, err := app.Run(context.Background())
	if err != nil {
		t.Fatalf("Run must survive feed failures: %v", err)
	}
	if !rep.Empty() {
		t.Error("expected empty report when both feeds are down")
	}
	if rep.QuietStreak != 1 {
		t.Errorf("feed-down run still counts as quiet, got streak %d", rep.QuietStreak)
	}
}

// Blank-ticker purchases are reported, not dropped, and never cluster.
func TestRun_BlankTickerCarried(t *testing.T) {
	doc := purchaseFiling("", "Ghost", "Director", 2000, 40)
	app := newApp(t, &fakeFilings{docs: []core.FilingDocument{doc, doc}}, &fakeRevisions{})

	rep, err := app.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rep.Clusters) != 0 {
		t.Errorf("blank tickers must not cluster, got %+v", rep.Clusters)
	}
	if len(rep.Unclustered) != 2 {
		t.Errorf("expected 2 unclustered buys, got %d", len(rep.Unclustered))
	}
	if rep.QuietStreak != 0 {
		t.Error("unclustered activity still counts as activity")
	}
}
