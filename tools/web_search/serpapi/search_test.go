package serpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearchBuildsQueryParams(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"news_results":[
			{"title":"N1","link":"https://n.example/1","date":"2026-08-10","source":"Wire","snippet":"news one"}
		]}`))
	}))
	defer srv.Close()

	s := Search{APIKey: "sp-key", Endpoint: srv.URL, Client: srv.Client()}
	items, err := s.Search(context.Background(), "market crash", 6)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Title != "N1" || items[0].URL != "https://n.example/1" || items[0].Source != "Wire" {
		t.Fatalf("unexpected item %+v", items[0])
	}

	if got := gotQuery["q"]; len(got) != 1 || got[0] != "market crash" {
		t.Errorf("q param = %v", got)
	}
	if got := gotQuery["engine"]; len(got) != 1 || got[0] != "google" {
		t.Errorf("engine param = %v", got)
	}
	if got := gotQuery["api_key"]; len(got) != 1 || got[0] != "sp-key" {
		t.Errorf("api_key param = %v", got)
	}
}

func TestSearchFallsBackToOrganicResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"organic_results":[
			{"title":"O1","link":"https://o.example/1","snippet":"organic"}
		]}`))
	}))
	defer srv.Close()

	s := Search{APIKey: "k", Endpoint: srv.URL, Client: srv.Client()}
	items, err := s.Search(context.Background(), "q", 6)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(items) != 1 || items[0].Title != "O1" || items[0].Snippet != "organic" {
		t.Fatalf("unexpected items %+v", items)
	}
}

func TestSearchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusForbidden)
	}))
	defer srv.Close()

	s := Search{APIKey: "k", Endpoint: srv.URL, Client: srv.Client()}
	if _, err := s.Search(context.Background(), "q", 6); err == nil {
		t.Fatal("expected error on non-2xx status")
	}
}
