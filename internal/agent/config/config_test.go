package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Family:   "anthropic",
			Endpoint: "https://bedrock.example.com",
			Model:    "claude-v2",
		},
		Search:  SearchConfig{Provider: "tavily"},
		Storage: StorageConfig{TraceBackend: "postgres"},
		Retry:   RetryConfig{Attempts: 3, Delay: 800 * time.Millisecond, Backoff: 1.6},
	}
}

func TestValidateAcceptsBothFamilies(t *testing.T) {
	for _, family := range []string{"anthropic", "titan"} {
		cfg := validConfig()
		cfg.LLM.Family = family
		if err := Validate(cfg); err != nil {
			t.Fatalf("family %s: %v", family, err)
		}
	}
}

func TestValidateRejectsMissingModel(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.Model = ""
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected error for missing model")
	}
	if !strings.Contains(err.Error(), "llm.model") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsUnknownFamily(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.Family = "cohere"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for unknown family")
	}
}

func TestValidateRejectsUnknownSearchProvider(t *testing.T) {
	cfg := validConfig()
	cfg.Search.Provider = "bing"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for unknown search provider")
	}
}

func TestPostgresDSN(t *testing.T) {
	pg := PostgresConfig{Host: "db", User: "u", Password: "p", DBName: "news"}
	want := "postgres://u:p@db:5432/news?sslmode=disable"
	if got := pg.DSN(); got != want {
		t.Fatalf("DSN() = %q, want %q", got, want)
	}

	pg.URL = "postgres://override"
	if got := pg.DSN(); got != "postgres://override" {
		t.Fatalf("DSN() = %q, want explicit URL", got)
	}
}

func TestSearchAPIKeyFollowsProvider(t *testing.T) {
	sc := SearchConfig{Provider: "serpapi", TavilyAPIKey: "tv", SerpAPIKey: "sp"}
	if got := sc.APIKey(); got != "sp" {
		t.Fatalf("APIKey() = %q, want sp", got)
	}
	sc.Provider = "tavily"
	if got := sc.APIKey(); got != "tv" {
		t.Fatalf("APIKey() = %q, want tv", got)
	}
}
