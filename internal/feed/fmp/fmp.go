// Package fmp fetches analyst price-target revisions from the
// Financial Modeling Prep API.
package fmp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/newthinker/insiderlog/internal/config"
	"github.com/newthinker/insiderlog/internal/core"
	"go.uber.org/zap"
)

// revisionRecord mirrors the price-target-latest-news payload.
type revisionRecord struct {
	Symbol           string  `json:"symbol"`
	AnalystCompany   string  `json:"analystCompany"`
	PriceTarget      float64 `json:"priceTarget"`
	PriceWhenPosted  float64 `json:"priceWhenPosted"`
	PriceTargetPrior float64 `json:"priceTargetPrior"`
	NewGrade         string  `json:"newGrade"`
	PreviousGrade    string  `json:"previousGrade"`
	PublishedDate    string  `json:"publishedDate"`
}

// Client reads recent price-target revisions.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates an FMP client from configuration.
func NewClient(cfg config.FMPConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// RecentRevisions fetches price-target revisions published within the
// lookback window. Records with no published date are kept; only records
// dated before the cutoff are dropped.
func (c *Client) RecentRevisions(ctx context.Context, lookback time.Duration) ([]core.TargetRevision, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, core.WrapError(core.ErrFeedFailed, err)
	}
	q := u.Query()
	q.Set("apikey", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, core.WrapError(core.ErrFeedFailed, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, core.WrapError(core.ErrFeedFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, core.WrapError(core.ErrFeedFailed,
			fmt.Errorf("price target feed returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, core.WrapError(core.ErrFeedFailed, err)
	}

	var records []revisionRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, core.WrapError(core.ErrFeedMalformed, err)
	}

	cutoff := time.Now().UTC().Add(-lookback)
	revisions := make([]core.TargetRevision, 0, len(records))
	for _, r := range records {
		if r.PublishedDate != "" {
			published, err := parsePublished(r.PublishedDate)
			if err == nil && published.Before(cutoff) {
				continue
			}
		}
		revisions = append(revisions, core.TargetRevision{
			Ticker:        r.Symbol,
			Analyst:       r.AnalystCompany,
			RatingPrior:   r.PreviousGrade,
			RatingCurrent: r.NewGrade,
			TargetPrior:   r.PriceTargetPrior,
			Target:        r.PriceTarget,
			PublishedDate: r.PublishedDate,
		})
	}

	c.logger.Info("fetched price target revisions",
		zap.Int("total_records", len(records)),
		zap.Int("within_lookback", len(revisions)))
	return revisions, nil
}

func parsePublished(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
