package pipeline

import (
	"testing"

	"github.com/newthinker/insiderlog/internal/core"
)

func TestMaterial_Boundary(t *testing.T) {
	cases := []struct {
		name     string
		value    float64
		min      float64
		expected bool
	}{
		{"exactly at threshold passes", 25000, 25000, true},
		{"a cent below fails", 24999.99, 25000, false},
		{"above passes", 50000, 25000, true},
		{"zero threshold accepts anything positive", 0.01, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := core.InsiderTransaction{DollarValue: tc.value}
			if got := Material(tx, tc.min); got != tc.expected {
				t.Errorf("Material(%f, %f) = %v, want %v", tc.value, tc.min, got, tc.expected)
			}
		})
	}
}

func TestFilterMaterial_PreservesOrder(t *testing.T) {
	txs := []core.InsiderTransaction{
		{Ticker: "AAA", DollarValue: 60000},
		{Ticker: "BBB", DollarValue: 10000},
		{Ticker: "CCC", DollarValue: 30000},
	}
	got := FilterMaterial(txs, 25000)
	if len(got) != 2 {
		t.Fatalf("expected 2 accepted, got %d", len(got))
	}
	if got[0].Ticker != "AAA" || got[1].Ticker != "CCC" {
		t.Errorf("expected input order preserved, got %s then %s", got[0].Ticker, got[1].Ticker)
	}
}
