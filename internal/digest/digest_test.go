package digest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/newthinker/insiderlog/internal/core"
	"github.com/newthinker/insiderlog/internal/llm"
)

type fakeProvider struct {
	content string
	err     error
	prompt  string
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.prompt = req.Prompt
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{Content: f.content}, nil
}

func activeReport() core.Report {
	return core.Report{
		LookbackHours: 24,
		Clusters: []core.ScoredCluster{{
			Cluster: core.IssuerCluster{Ticker: "ABCD", Members: []core.InsiderTransaction{
				{DollarValue: 300_000}, {DollarValue: 200_000},
			}},
			Score:   core.ConvictionScore{Total: 8, Bonus: 1},
			TopTier: core.TierCEO,
		}},
		Pulse: core.MarketPulse{InsiderCount: 2, TotalDollars: 500_000, Band: core.BandSelective},
	}
}

func TestCommentary_UsesProvider(t *testing.T) {
	p := &fakeProvider{content: "Two insiders bought ABCD."}
	w := NewWriter(p, nil)

	got := w.Commentary(context.Background(), activeReport())
	if got != "Two insiders bought ABCD." {
		t.Errorf("got %q", got)
	}
	if !strings.Contains(p.prompt, "Cluster ABCD") {
		t.Errorf("prompt should describe the cluster, got:\n%s", p.prompt)
	}
	if !strings.Contains(p.prompt, "analyst backing") {
		t.Errorf("prompt should mention analyst backing, got:\n%s", p.prompt)
	}
}

func TestCommentary_FallsBackOnProviderError(t *testing.T) {
	w := NewWriter(&fakeProvider{err: errors.New("rate limited")}, nil)

	got := w.Commentary(context.Background(), activeReport())
	if !strings.Contains(got, "ABCD") {
		t.Errorf("fallback should name the cluster ticker, got %q", got)
	}
}

func TestCommentary_NilProviderUsesFallback(t *testing.T) {
	w := NewWriter(nil, nil)

	got := w.Commentary(context.Background(), activeReport())
	if !strings.Contains(got, "2 insider purchase(s)") {
		t.Errorf("unexpected fallback: %q", got)
	}
}

func TestCommentary_QuietRun(t *testing.T) {
	w := NewWriter(nil, nil)

	got := w.Commentary(context.Background(), core.Report{LookbackHours: 24, QuietStreak: 3})
	if !strings.Contains(got, "No qualifying insider purchases") {
		t.Errorf("got %q", got)
	}
	if !strings.Contains(got, "3 quiet runs") {
		t.Errorf("quiet streak missing from %q", got)
	}
}

func TestCommentary_BlankProviderOutputFallsBack(t *testing.T) {
	w := NewWriter(&fakeProvider{content: "   "}, nil)

	got := w.Commentary(context.Background(), activeReport())
	if strings.TrimSpace(got) == "" {
		t.Error("blank provider output must fall back, not propagate")
	}
}
