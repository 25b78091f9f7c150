package titan

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestInvokeSendsGenerationSchema(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/model/titan-text/invoke" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"results":[{"outputText":"answer"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "titan-text", "", 512, 0.2, srv.Client())
	got, err := c.Invoke(context.Background(), "question")
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if got != "answer" {
		t.Fatalf("unexpected text %q", got)
	}

	if captured["inputText"] != "question" {
		t.Fatalf("inputText missing: %v", captured)
	}
	cfg, ok := captured["textGenerationConfig"].(map[string]any)
	if !ok {
		t.Fatalf("textGenerationConfig missing: %v", captured)
	}
	if cfg["maxTokenCount"].(float64) != 512 {
		t.Errorf("unexpected maxTokenCount %v", cfg["maxTokenCount"])
	}
	if cfg["temperature"].(float64) != 0.2 {
		t.Errorf("unexpected temperature %v", cfg["temperature"])
	}
	if cfg["topP"].(float64) != 0.9 {
		t.Errorf("unexpected topP %v", cfg["topP"])
	}
}

func TestInvokeOutputFallbacks(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"top-level outputText", `{"outputText":"plain"}`, "plain"},
		{"generation field", `{"generation":"gen"}`, "gen"},
		{"results win over top-level", `{"results":[{"outputText":"first"}],"outputText":"second"}`, "first"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := New(srv.URL, "titan-text", "", 512, 0.2, srv.Client())
			got, err := c.Invoke(context.Background(), "q")
			if err != nil {
				t.Fatalf("Invoke: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestInvokeEmptyOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "titan-text", "", 512, 0.2, srv.Client())
	if _, err := c.Invoke(context.Background(), "q"); err == nil {
		t.Fatal("expected error when no output text present")
	}
}
