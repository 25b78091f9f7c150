package core

import (
	"fmt"
	"log"

	"github.com/newsinsight/newsinsight/internal/agent/config"
	"github.com/newsinsight/newsinsight/internal/agent/telemetry"
	"github.com/newsinsight/newsinsight/internal/store"
	"github.com/newsinsight/newsinsight/provider"
	"github.com/newsinsight/newsinsight/tools/web_search"
	"github.com/newsinsight/newsinsight/utils"
)

// FromConfig assembles the pipeline from configuration: Postgres corpus,
// the configured model adapter, the configured search backend, and the
// selected trace store. A missing search key is non-fatal; that stage
// degrades per run.
func FromConfig(cfg *config.Config, logger *log.Logger) (*Agent, error) {
	st, err := store.New(cfg.Storage.Postgres)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus store: %w", err)
	}
	return FromConfigWithStore(cfg, logger, st)
}

// FromConfigWithStore is FromConfig with a caller-owned store handle,
// so the HTTP server can share one connection pool between the agent
// and its own repositories.
func FromConfigWithStore(cfg *config.Config, logger *log.Logger, st *store.Store) (*Agent, error) {
	if logger == nil {
		logger = log.New(log.Writer(), "[AGENT] ", log.LstdFlags)
	}

	model, err := provider.New(provider.Family(cfg.LLM.Family), provider.Options{
		Endpoint:       cfg.LLM.Endpoint,
		Model:          cfg.LLM.Model,
		APIKey:         cfg.LLM.APIKey,
		MaxTokens:      cfg.LLM.MaxTokens,
		Temperature:    cfg.LLM.Temperature,
		ConnectTimeout: cfg.General.ConnectTimeout,
		ReadTimeout:    cfg.General.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create model adapter: %w", err)
	}

	searcher, searchErr := web_search.NewWebSearcher(
		web_search.Provider(cfg.Search.Provider),
		cfg.Search.APIKey(),
		utils.NewHTTPClient(cfg.General.ConnectTimeout, cfg.General.ReadTimeout),
	)
	if searchErr != nil {
		logger.Printf("search provider unavailable, evidence stage will degrade: %v", searchErr)
	}

	var traces TraceStore
	switch cfg.Storage.TraceBackend {
	case "redis":
		rts, err := store.NewRedisTraceStore(cfg.Storage.Redis)
		if err != nil {
			logger.Printf("redis trace store unavailable, traces will be dropped: %v", err)
		} else {
			traces = rts
		}
	default:
		traces = st
	}

	var telem *telemetry.Telemetry
	if cfg.Telemetry.Enabled {
		telem = telemetry.New()
	}

	return New(cfg, logger, telem, Deps{
		Corpus:    st,
		Model:     model,
		Search:    searcher,
		Traces:    traces,
		SearchErr: searchErr,
	})
}
