package core

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"

	"github.com/newsinsight/newsinsight/internal/agent/config"
	"github.com/newsinsight/newsinsight/models"
	"github.com/newsinsight/newsinsight/utils"
)

const enrichSnippetCap = 400

func newPipelineHTTPClient(cfg *config.Config) *http.Client {
	return utils.NewHTTPClient(cfg.General.ConnectTimeout, cfg.General.ReadTimeout)
}

// enrichSnippets fills empty evidence snippets by fetching the article
// and extracting its readable text, returning how many items it filled.
// Best effort: a fetch or parse failure leaves the item as the provider
// returned it.
func (a *Agent) enrichSnippets(ctx context.Context, items []models.EvidenceItem) ([]models.EvidenceItem, int) {
	enriched := 0
	for i := range items {
		if items[i].Snippet != "" || items[i].URL == "" {
			continue
		}
		text, err := a.fetchReadableText(ctx, items[i].URL)
		if err != nil {
			a.logger.Printf("snippet enrichment failed for %s: %v", items[i].URL, err)
			continue
		}
		if text == "" {
			continue
		}
		items[i].Snippet = text
		enriched++
	}
	return items, enriched
}

func (a *Agent) fetchReadableText(ctx context.Context, rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := a.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(article.TextContent)
	return shorten(text, enrichSnippetCap), nil
}
