package tavily

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/newsinsight/newsinsight/models"
	"github.com/newsinsight/newsinsight/utils"
)

const defaultEndpoint = "https://api.tavily.com/search"

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

	payload := map[string]any{
		"api_key":     s.APIKey,
		"query":       query,
		"max_results": max,
	}
	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("tavily returned %s: %s", resp.Status, string(snippet))
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse tavily response: %w", err)
	}

	var out []models.EvidenceItem
	if items, ok := raw["results"].([]any); ok {
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
				URL:         utils.Str(m["url"]),
				PublishedAt: utils.Str(m["published_date"]),
				Source:      utils.Str(m["source"]),
				Snippet:     utils.Str(m["content"]),
			})
		}
	}
	return out, nil
}
