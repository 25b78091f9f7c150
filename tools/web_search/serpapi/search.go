package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/newsinsight/newsinsight/models"
	"github.com/newsinsight/newsinsight/utils"
)

const defaultEndpoint = "https://serpapi.com/search.json"

type Search struct {
	APIKey string
	// Endpoint overrides the public API URL; used by tests.
	Endpoint string
	Client   *http.Client
}

func (s Search) Search(ctx context.Context, query string, max int) ([]models.EvidenceItem, error) {
	endpoint := s.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	if max <= 0 {
		max = 6
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("engine", "google")
	params.Set("api_key", s.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serpapi search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("serpapi returned %s: %s", resp.Status, string(snippet))
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse serpapi response: %w", err)
	}

	// News results carry publication metadata; fall back to organic
	// results when the query produced none.
	items, ok := raw["news_results"].([]any)
	if !ok || len(items) == 0 {
		items, _ = raw["organic_results"].([]any)
	}

	var out []models.EvidenceItem
	for i, it := range items {
		if i >= max {
			break
		}
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, models.EvidenceItem{
			Title:       utils.Str(m["title"]),
			URL:         utils.Str(m["link"]),
			PublishedAt: utils.Str(m["date"]),
			Source:      utils.Str(m["source"]),
			Snippet:     utils.Str(m["snippet"]),
		})
	}
	return out, nil
}
