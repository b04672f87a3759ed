// Package webhook implements an HTTP webhook notifier
package webhook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/newthinker/insiderlog/internal/config"
	"github.com/newthinker/insiderlog/internal/core"
)

// Webhook implements the Notifier interface for HTTP webhooks
type Webhook struct {
	url     string
	headers map[string]string
	client  *http.Client
}

// New creates a new Webhook notifier
func New() *Webhook {
	return &Webhook{
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (w *Webhook) Name() string { return "webhook" }

func (w *Webhook) Init(cfg config.NotifierConfig) error {
	w.url = cfg.URL
	w.headers = cfg.Headers

	if w.url == "" {
		return fmt.Errorf("webhook: url is required")
	}
	if w.client == nil {
		w.client = &http.Client{Timeout: 30 * time.Second}
	}
	return nil
}

// Send posts a structured summary of the run. Receivers get machine
// readable fields, not the HTML page.
func (w *Webhook) Send(report core.Report, _ []byte) error {
	clusters := make([]map[string]any, 0, len(report.Clusters))
	for _, sc := range report.Clusters {
		clusters = append(clusters, map[string]any{
			"ticker":        sc.Cluster.Ticker,
			"insiders":      sc.Cluster.MemberCount(),
			"total_dollars": sc.Cluster.TotalDollars(),
			"top_role":      sc.TopTier.String(),
			"score":         sc.Score.Total,
			"analyst_bonus": sc.Score.Bonus > 0,
		})
	}

	payload := map[string]any{
		"type":           "daily_report",
		"run_id":         report.RunID,
		"generated_at":   report.GeneratedAt.Format(time.RFC3339),
		"lookback_hours": report.LookbackHours,
		"empty":          report.Empty(),
		"quiet_streak":   report.QuietStreak,
		"band":           report.Pulse.Band,
		"insider_count":  report.Pulse.InsiderCount,
		"total_dollars":  report.Pulse.TotalDollars,
		"clusters":       clusters,
		"notable_buys":   len(report.NotableBuys),
		"analyst_count":  len(report.AnalystSignals),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return core.WrapError(core.ErrNotifierFailed, err)
	}

	req, err := http.NewRequest(http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return core.WrapError(core.ErrNotifierFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range w.headers {
		req.Header.Set(k, v)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return core.WrapError(core.ErrNotifierFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return core.WrapError(core.ErrNotifierFailed,
			fmt.Errorf("webhook: server returned %d", resp.StatusCode))
	}
	return nil
}
