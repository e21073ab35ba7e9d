package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const duckDuckGoURL = "https://api.duckduckgo.com/"

// DuckDuckGoSearch queries the DuckDuckGo instant-answer API and flattens
// the abstract plus related topics into one best-effort text blob. Empty
// string means no results.
type DuckDuckGoSearch struct {
	client  *http.Client
	baseURL string
}

// NewDuckDuckGoSearch creates a search client with a bounded timeout.
func NewDuckDuckGoSearch() *DuckDuckGoSearch {
	return &DuckDuckGoSearch{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: duckDuckGoURL,
	}
}

type instantAnswer struct {
	AbstractText  string `json:"AbstractText"`
	RelatedTopics []struct {
		Text   string `json:"Text"`
		Topics []struct {
			Text string `json:"Text"`
		} `json:"Topics"`
	} `json:"RelatedTopics"`
}

// Search returns a text blob for the query, or "" when nothing was found.
func (s *DuckDuckGoSearch) Search(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("no_html", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", NewError(FailureIO, "websearch.request", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", NewError(FailureIO, "websearch.transport", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", NewError(FailureRateLimit, "websearch.transport",
			fmt.Errorf("rate limited: %s", resp.Status))
	}
	if resp.StatusCode != http.StatusOK {
		return "", NewError(FailureIO, "websearch.transport",
			fmt.Errorf("unexpected status %s", resp.Status))
	}

	var answer instantAnswer
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return "", NewError(FailureIO, "websearch.decode", err)
	}

	var parts []string
	if answer.AbstractText != "" {
		parts = append(parts, answer.AbstractText)
	}
	for _, topic := range answer.RelatedTopics {
		if topic.Text != "" {
			parts = append(parts, topic.Text)
		}
		for _, sub := range topic.Topics {
			if sub.Text != "" {
				parts = append(parts, sub.Text)
			}
		}
	}

	return strings.Join(parts, "\n"), nil
}
