// Package app wires the feeds, pipeline, scoring, state, and delivery
// layers into the end-to-end scan run.
package app

import (
	"context"
	"time"

	"github.com/newthinker/insiderlog/internal/config"
	"github.com/newthinker/insiderlog/internal/core"
	"github.com/newthinker/insiderlog/internal/digest"
	"github.com/newthinker/insiderlog/internal/metrics"
	"github.com/newthinker/insiderlog/internal/notifier"
	"github.com/newthinker/insiderlog/internal/pipeline"
	"github.com/newthinker/insiderlog/internal/render"
	"github.com/newthinker/insiderlog/internal/report"
	"github.com/newthinker/insiderlog/internal/storage/archive"
	"github.com/newthinker/insiderlog/internal/streak"
	"go.uber.org/zap"
)

// LatestPagePath is where the most recent rendered report lives under
// the archive root. Each run overwrites it; last writer wins.
const LatestPagePath = "reports/latest.html"

// FilingSource produces recent insider filings.
type FilingSource interface {
	RecentFilings(ctx context.Context, lookback time.Duration) ([]core.FilingDocument, error)
}

// RevisionSource produces recent analyst price-target revisions.
type RevisionSource interface {
	RecentRevisions(ctx context.Context, lookback time.Duration) ([]core.TargetRevision, error)
}

// Deps holds the collaborators a scan run needs.
type Deps struct {
	Filings   FilingSource
	Revisions RevisionSource
	Store     archive.Storage
	// Site, when set, receives a copy of the page as index.html for
	// static hosting.
	Site archive.Storage
	Streak    *streak.Tracker
	Builder   *report.Builder
	Renderer  *render.Renderer
	Digest    *digest.Writer
	Notifiers *notifier.Registry
	Metrics   *metrics.Registry
	Logger    *zap.Logger
}

// App runs the scan pipeline.
type App struct {
	cfg  *config.Config
	deps Deps
}

// New creates the application from validated configuration and deps.
func New(cfg *config.Config, deps Deps) *App {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &App{cfg: cfg, deps: deps}
}

// Run executes one complete scan: fetch both feeds, normalize and filter
// the filings, cluster, qualify analyst signals, score, update the quiet
// streak, render, archive, and deliver. A feed being down degrades that
// feed's population to empty rather than failing the run; the run itself
// only fails on rendering or archiving problems.
func (a *App) Run(ctx context.Context) (*core.Report, error) {
	start := time.Now()
	log := a.deps.Logger
	lookback := time.Duration(a.cfg.Scan.LookbackHours) * time.Hour

	// Both input populations are fully assembled before any aggregation
	// begins. Clustering over a partial population would misreport breadth.
	docs, err := a.deps.Filings.RecentFilings(ctx, lookback)
	if err != nil {
		log.Error("filing feed unavailable, treating as empty", zap.Error(err))
		docs = nil
	}
	a.deps.Metrics.RecordFilingsFetched(len(docs))

	var revisions []core.TargetRevision
	if a.deps.Revisions != nil {
		revisions, err = a.deps.Revisions.RecentRevisions(ctx, lookback)
		if err != nil {
			log.Error("price target feed unavailable, treating as empty", zap.Error(err))
			revisions = nil
		}
	}

	var normalized []core.InsiderTransaction
	for _, doc := range docs {
		tx := pipeline.Normalize(doc)
		if tx == nil {
			a.deps.Metrics.RecordFilingDropped("no_purchase")
			continue
		}
		normalized = append(normalized, *tx)
	}

	material := pipeline.FilterMaterial(normalized, a.cfg.Scan.MinPurchaseDollars)
	a.deps.Metrics.RecordQualifyingBuys(len(material))
	for i := 0; i < len(normalized)-len(material); i++ {
		a.deps.Metrics.RecordFilingDropped("below_threshold")
	}

	partition := pipeline.Cluster(material)
	signals := pipeline.QualifyRevisions(revisions, pipeline.AnalystOptions{
		MinRaisePct:         a.cfg.Scan.MinTargetRaisePct,
		MaxSignals:          a.cfg.Scan.MaxAnalystSignals,
		RequireRatingChange: a.cfg.Scan.RequireRatingChange,
	})

	a.deps.Metrics.RecordClusters("corroborated", len(partition.Corroborated()))
	a.deps.Metrics.RecordClusters("standalone", len(partition.Standalone()))
	a.deps.Metrics.RecordAnalystSignals(len(signals))

	quiet, err := a.deps.Streak.Update(ctx, partition.HadActivity())
	if err != nil {
		// The in-memory value is still correct for this run's report.
		log.Warn("quiet streak state write failed", zap.Error(err))
	}
	a.deps.Metrics.SetQuietStreak(quiet)

	rep := a.deps.Builder.Build(partition, signals, quiet)
	rep.Commentary = a.deps.Digest.Commentary(ctx, rep)

	log.Info("scan complete",
		zap.String("run_id", rep.RunID),
		zap.Int("filings", len(docs)),
		zap.Int("qualifying_buys", len(material)),
		zap.Int("clusters", len(rep.Clusters)),
		zap.Int("analyst_signals", len(signals)),
		zap.Int("quiet_streak", quiet),
		zap.String("band", string(rep.Pulse.Band)))

	page, err := a.deps.Renderer.Render(rep)
	if err != nil {
		return nil, err
	}
	if err := a.publish(ctx, rep, page); err != nil {
		return nil, err
	}

	if a.deps.Notifiers != nil {
		failures := a.deps.Notifiers.NotifyAll(rep, page)
		for name, nerr := range failures {
			log.Error("notifier delivery failed", zap.String("notifier", name), zap.Error(nerr))
		}
		for _, n := range a.deps.Notifiers.GetAll() {
			status := "ok"
			if _, failed := failures[n.Name()]; failed {
				status = "error"
			}
			a.deps.Metrics.RecordNotify(n.Name(), status)
		}
	}

	a.deps.Metrics.RecordScan(time.Since(start).Seconds())
	return &rep, nil
}

// publish writes the latest page and, when archiving is on, a dated copy.
func (a *App) publish(ctx context.Context, rep core.Report, page []byte) error {
	if err := a.deps.Store.Write(ctx, LatestPagePath, page); err != nil {
		return core.WrapError(core.ErrStateWrite, err)
	}
	if a.cfg.Report.Archive {
		dated := "reports/" + rep.GeneratedAt.Format("2006-01-02") + ".html"
		if err := a.deps.Store.Write(ctx, dated, page); err != nil {
			return core.WrapError(core.ErrStateWrite, err)
		}
	}
	if a.deps.Site != nil {
		if err := a.deps.Site.Write(ctx, "index.html", page); err != nil {
			return core.WrapError(core.ErrStateWrite, err)
		}
	}
	return nil
}

// LatestPage returns the most recently published report page.
func (a *App) LatestPage(ctx context.Context) ([]byte, error) {
	return a.deps.Store.Read(ctx, LatestPagePath)
}
