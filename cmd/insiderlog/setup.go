package main

import (
	"fmt"

	"github.com/newthinker/insiderlog/internal/app"
	"github.com/newthinker/insiderlog/internal/config"
	"github.com/newthinker/insiderlog/internal/digest"
	"github.com/newthinker/insiderlog/internal/feed/edgar"
	"github.com/newthinker/insiderlog/internal/feed/fmp"
	"github.com/newthinker/insiderlog/internal/llm"
	"github.com/newthinker/insiderlog/internal/llm/factory"
	"github.com/newthinker/insiderlog/internal/metrics"
	"github.com/newthinker/insiderlog/internal/notifier"
	"github.com/newthinker/insiderlog/internal/notifier/email"
	"github.com/newthinker/insiderlog/internal/notifier/webhook"
	"github.com/newthinker/insiderlog/internal/render"
	"github.com/newthinker/insiderlog/internal/report"
	"github.com/newthinker/insiderlog/internal/scoring"
	"github.com/newthinker/insiderlog/internal/storage/archive"
	"github.com/newthinker/insiderlog/internal/streak"
	"go.uber.org/zap"
)

// loadConfig loads and validates configuration, defaulting when no file
// was given.
func loadConfig(log *zap.Logger) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
		log.Warn("no config file specified, using defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// buildApp assembles the full pipeline from configuration.
func buildApp(cfg *config.Config, reg *metrics.Registry, log *zap.Logger) (*app.App, error) {
	store, err := newStore(cfg.State)
	if err != nil {
		return nil, fmt.Errorf("creating storage: %w", err)
	}

	renderer, err := render.New(cfg.Report.Title, cfg.Report.Subtitle)
	if err != nil {
		return nil, fmt.Errorf("creating renderer: %w", err)
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

	// The analyst feed is optional: without an API key the run proceeds
	// on insider filings alone.
	var revisions app.RevisionSource
	if cfg.Feeds.FMP.APIKey != "" {
		revisions = fmp.NewClient(cfg.Feeds.FMP, log)
	} else {
		log.Info("no price target feed configured, analyst signals disabled")
	}

	var provider llm.Provider
	if cfg.LLM.Provider != "" {
		provider, err = factory.New(cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("creating LLM provider: %w", err)
		}
	}

	notifiers, err := buildNotifiers(cfg, log)
	if err != nil {
		return nil, err
	}

	var site archive.Storage
	if cfg.Report.OutputDir != "" {
		site, err = archive.NewLocalFS(cfg.Report.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("creating site output dir: %w", err)
		}
	}

	return app.New(cfg, app.Deps{
		Filings:   edgar.NewClient(cfg.Feeds.Edgar, log),
		Revisions: revisions,
		Store:     store,
		Site:      site,
		Streak:    streak.New(store, "", log),
		Builder:   report.NewBuilder(engine, cfg.Scan.LookbackHours),
		Renderer:  renderer,
		Digest:    digest.NewWriter(provider, log),
		Notifiers: notifiers,
		Metrics:   reg,
		Logger:    log,
	}), nil
}

func newStore(cfg config.StateConfig) (archive.Storage, error) {
	switch cfg.Type {
	case "s3":
		return archive.NewS3(archive.S3Config{
			Bucket:    cfg.S3.Bucket,
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Prefix:    cfg.S3.Prefix,
		})
	default:
		return archive.NewLocalFS(cfg.Path)
	}
}

func buildNotifiers(cfg *config.Config, log *zap.Logger) (*notifier.Registry, error) {
	registry := notifier.NewRegistry()

	for name, ncfg := range cfg.Notifiers {
		if !ncfg.Enabled {
			continue
		}

		var n notifier.Notifier
		switch name {
		case "email":
			n = email.New()
		case "webhook":
			n = webhook.New()
		default:
			return nil, fmt.Errorf("unknown notifier: %s", name)
		}

		if err := n.Init(ncfg); err != nil {
			return nil, fmt.Errorf("initializing %s notifier: %w", name, err)
		}
		if err := registry.Register(n); err != nil {
			return nil, err
		}
		log.Info("notifier enabled", zap.String("notifier", name))
	}

	return registry, nil
}
