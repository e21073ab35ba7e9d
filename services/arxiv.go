package services

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const arxivAPIURL = "http://export.arxiv.org/api/query"

// ArxivSearch queries the ArXiv Atom API for papers relevant to a query.
// It returns raw hits with their published dates; recency filtering is the
// caller's responsibility.
type ArxivSearch struct {
	client  *http.Client
	baseURL string
}

// NewArxivSearch creates an ArXiv client with a bounded timeout.
func NewArxivSearch() *ArxivSearch {
	return &ArxivSearch{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: arxivAPIURL,
	}
}

type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	Title     string `xml:"title"`
	Summary   string `xml:"summary"`
	Published string `xml:"published"`
}

// Search returns up to maxDocs papers matching the query.
func (s *ArxivSearch) Search(ctx context.Context, query string, maxDocs int) ([]Paper, error) {
	params := url.Values{}
	params.Set("search_query", "all:"+query)
	params.Set("max_results", strconv.Itoa(maxDocs))
	params.Set("sortBy", "relevance")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, NewError(FailureIO, "arxiv.request", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, NewError(FailureIO, "arxiv.transport", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, NewError(FailureRateLimit, "arxiv.transport",
			fmt.Errorf("rate limited: %s", resp.Status))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, NewError(FailureIO, "arxiv.transport",
			fmt.Errorf("unexpected status %s", resp.Status))
	}

	var feed atomFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, NewError(FailureIO, "arxiv.decode", err)
	}

	papers := make([]Paper, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		published, err := time.Parse(time.RFC3339, entry.Published)
		if err != nil {
			continue
		}
		papers = append(papers, Paper{
			Title:     collapseWhitespace(entry.Title),
			Abstract:  collapseWhitespace(entry.Summary),
			Published: published,
		})
	}

	return papers, nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
