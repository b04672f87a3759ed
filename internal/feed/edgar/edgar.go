// Package edgar fetches recent Form 4 filings from the SEC EDGAR
// full-text atom feed and parses each filing's ownership document.
package edgar

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/newthinker/insiderlog/internal/config"
	"github.com/newthinker/insiderlog/internal/core"
	"go.uber.org/zap"
)

// atomFeed is the subset of the EDGAR browse feed this client reads.
type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	Title   string `xml:"title"`
	Updated string `xml:"updated"`
	Link    struct {
		Href string `xml:"href,attr"`
	} `xml:"link"`
}

// Client pulls recent filings from EDGAR. All requests carry the
// configured User-Agent; the SEC rejects anonymous clients.
type Client struct {
	feedURL     string
	userAgent   string
	maxFilings  int
	concurrency int
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewClient creates an EDGAR client from configuration.
func NewClient(cfg config.EdgarConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &Client{
		feedURL:     cfg.FeedURL,
		userAgent:   cfg.UserAgent,
		maxFilings:  cfg.MaxFilings,
		concurrency: concurrency,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		logger:      logger,
	}
}

// RecentFilings fetches the feed, keeps entries updated within the
// lookback window, and fetches and parses each filing's Form 4 XML with
// bounded concurrency. Filings that fail to fetch or parse are logged
// and skipped; the feed itself failing is an error.
func (c *Client) RecentFilings(ctx context.Context, lookback time.Duration) ([]core.FilingDocument, error) {
	entries, err := c.fetchFeed(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().UTC().Add(-lookback)
	var recent []atomEntry
	for _, e := range entries {
		updated, err := time.Parse(time.RFC3339, e.Updated)
		if err != nil {
			c.logger.Debug("skipping entry with unparsable timestamp",
				zap.String("title", e.Title),
				zap.String("updated", e.Updated))
			continue
		}
		if updated.Before(cutoff) {
			continue
		}
		recent = append(recent, e)
	}
	if c.maxFilings > 0 && len(recent) > c.maxFilings {
		recent = recent[:c.maxFilings]
	}

	c.logger.Info("fetched filing feed",
		zap.Int("total_entries", len(entries)),
		zap.Int("within_lookback", len(recent)))

	// Fetch filings concurrently but keep feed order in the result so
	// downstream clustering sees issuers in discovery order.
	docs := make([]*core.FilingDocument, len(recent))
	sem := make(chan struct{}, c.concurrency)
	var wg sync.WaitGroup
	for i, entry := range recent {
		wg.Add(1)
		go func(i int, entry atomEntry) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			doc, err := c.fetchFiling(ctx, entry)
			if err != nil {
				c.logger.Warn("skipping filing",
					zap.String("title", entry.Title),
					zap.Error(err))
				return
			}
			docs[i] = doc
		}(i, entry)
	}
	wg.Wait()

	out := make([]core.FilingDocument, 0, len(recent))
	for _, d := range docs {
		if d != nil {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (c *Client) fetchFeed(ctx context.Context) ([]atomEntry, error) {
	body, err := c.get(ctx, c.feedURL)
	if err != nil {
		return nil, core.WrapError(core.ErrFeedFailed, err)
	}

	var feed atomFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, core.WrapError(core.ErrFeedMalformed, err)
	}
	return feed.Entries, nil
}

// fetchFiling resolves an entry's index page to its ownership document
// and parses it.
func (c *Client) fetchFiling(ctx context.Context, entry atomEntry) (*core.FilingDocument, error) {
	index, err := c.get(ctx, entry.Link.Href)
	if err != nil {
		return nil, err
	}

	docURL, err := findDocumentURL(index, entry.Link.Href)
	if err != nil {
		return nil, err
	}

	body, err := c.get(ctx, docURL)
	if err != nil {
		return nil, err
	}
	return ParseForm4(body, docURL)
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %d", rawURL, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

var xmlHrefPattern = regexp.MustCompile(`href="([^"]+\.xml)"`)

// findDocumentURL extracts the ownership document link from a filing
// index page. Index pages reference several XML files; the filing body
// is the one that is not itself an index.
func findDocumentURL(indexHTML []byte, indexURL string) (string, error) {
	base, err := url.Parse(indexURL)
	if err != nil {
		return "", core.WrapError(core.ErrDocumentAbsent, err)
	}

	for _, match := range xmlHrefPattern.FindAllStringSubmatch(string(indexHTML), -1) {
		href := match[1]
		if strings.Contains(strings.ToLower(href), "index") {
			continue
		}
		ref, err := url.Parse(href)
		if err != nil {
			continue
		}
		return base.ResolveReference(ref).String(), nil
	}
	return "", core.ErrDocumentAbsent
}
