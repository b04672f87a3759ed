package webhook

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/newthinker/insiderlog/internal/config"
	"github.com/newthinker/insiderlog/internal/core"
)

func TestInit_RequiresURL(t *testing.T) {
	if err := New().Init(config.NotifierConfig{}); err == nil {
		t.Error("expected error without url")
	}
}

func TestSend_PostsStructuredSummary(t *testing.T) {
	var payload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("content type: %s", r.Header.Get("Content-Type"))
		}
		if r.Header.Get("X-Token") != "abc" {
			t.Errorf("custom header missing")
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Errorf("bad payload: %v", err)
		}
	}))
	defer srv.Close()

	w := New()
	if err := w.Init(config.NotifierConfig{URL: srv.URL, Headers: map[string]string{"X-Token": "abc"}}); err != nil {
		t.Fatalf("Init: %v", err)
	}

	report := core.Report{
		RunID:       "r1",
		QuietStreak: 0,
		Clusters: []core.ScoredCluster{{
			Cluster: core.IssuerCluster{Ticker: "ABCD", Members: []core.InsiderTransaction{
				{DollarValue: 100_000}, {DollarValue: 200_000},
			}},
			Score:   core.ConvictionScore{Total: 7.5, Bonus: 1},
			TopTier: core.TierCFO,
		}},
		Pulse: core.MarketPulse{InsiderCount: 2, Band: core.BandSelective},
	}
	if err := w.Send(report, nil); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if payload["run_id"] != "r1" {
		t.Errorf("run_id: %v", payload["run_id"])
	}
	clusters, ok := payload["clusters"].([]any)
	if !ok || len(clusters) != 1 {
		t.Fatalf("clusters: %v", payload["clusters"])
	}
	c := clusters[0].(map[string]any)
	if c["ticker"] != "ABCD" || c["top_role"] != "CFO" {
		t.Errorf("cluster payload: %v", c)
	}
}

func TestSend_ServerErrorFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	w := New()
	if err := w.Init(config.NotifierConfig{URL: srv.URL}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := w.Send(core.Report{}, nil); err == nil {
		t.Error("expected error on 5xx")
	}
}
