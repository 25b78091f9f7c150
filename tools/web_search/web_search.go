package web_search

import (
	"context"
	"errors"
	"net/http"

	"github.com/newsinsight/newsinsight/models"
	"github.com/newsinsight/newsinsight/tools/web_search/serpapi"
	"github.com/newsinsight/newsinsight/tools/web_search/tavily"
)

// WebSearcher retrieves external evidence for a topic. Implementations
// normalize each backend's payload into models.EvidenceItem.
type WebSearcher interface {
	Search(ctx context.Context, query string, max int) ([]models.EvidenceItem, error)
}

type Provider string

const (
	TavilyProvider  Provider = "tavily"
	SerpAPIProvider Provider = "serpapi"
)

var (
	ErrUnsupportedProvider = errors.New("unsupported search provider")
	ErrMissingAPIKey       = errors.New("search provider api key is not configured")
)

func NewWebSearcher(provider Provider, apiKey string, client *http.Client) (WebSearcher, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	switch provider {
	case TavilyProvider:
		return tavily.Search{APIKey: apiKey, Client: client}, nil
	case SerpAPIProvider:
		return serpapi.Search{APIKey: apiKey, Client: client}, nil
	default:
		return nil, ErrUnsupportedProvider
	}
}
