package tavily

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearchPostsQuery(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"results":[
			{"title":"T1","url":"https://a.example/1","published_date":"2026-08-01","source":"A","content":"first"},
			{"title":"T2","url":"https://b.example/2","published_date":"2026-08-02","source":"B","content":"second"}
		]}`))
	}))
	defer srv.Close()

	s := Search{APIKey: "tv-key", Endpoint: srv.URL, Client: srv.Client()}
	items, err := s.Search(context.Background(), "fusion breakthrough", 6)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Title != "T1" || items[0].URL != "https://a.example/1" || items[0].Snippet != "first" {
		t.Fatalf("unexpected first item %+v", items[0])
	}
	if items[1].PublishedAt != "2026-08-02" || items[1].Source != "B" {
		t.Fatalf("unexpected second item %+v", items[1])
	}

	if captured["api_key"] != "tv-key" {
		t.Errorf("api_key not sent: %v", captured)
	}
	if captured["query"] != "fusion breakthrough" {
		t.Errorf("query not sent: %v", captured)
	}
	if captured["max_results"].(float64) != 6 {
		t.Errorf("max_results not sent: %v", captured)
	}
}

func TestSearchTruncatesToMax(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[{"title":"1"},{"title":"2"},{"title":"3"}]}`))
	}))
	defer srv.Close()

	s := Search{APIKey: "k", Endpoint: srv.URL, Client: srv.Client()}
	items, err := s.Search(context.Background(), "q", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
}

func TestSearchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	s := Search{APIKey: "k", Endpoint: srv.URL, Client: srv.Client()}
	if _, err := s.Search(context.Background(), "q", 6); err == nil {
		t.Fatal("expected error on non-2xx status")
	}
}
