package titan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Client speaks the single-field generation schema: inputText plus a
// generation config on the way in, results[0].outputText (or a
// top-level outputText / generation) on the way out.
type Client struct {
	endpoint    string
	model       string
	apiKey      string
	maxTokens   int
	temperature float64
	http        *http.Client
}

func New(endpoint, model, apiKey string, maxTokens int, temperature float64, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		endpoint:    strings.TrimRight(endpoint, "/"),
		model:       model,
		apiKey:      apiKey,
		maxTokens:   maxTokens,
		temperature: temperature,
		http:        httpClient,
	}
}

func (c *Client) Model() string { return c.model }

func (c *Client) Invoke(ctx context.Context, prompt string) (string, error) {
	body := map[string]any{
		"inputText": prompt,
		"textGenerationConfig": map[string]any{
			"maxTokenCount": c.maxTokens,
			"temperature":   c.temperature,
			"topP":          0.9,
		},
	}
	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	invokeURL := c.endpoint + "/model/" + url.PathEscape(c.model) + "/invoke"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, invokeURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("model endpoint returned %s: %s", resp.Status, string(snippet))
	}

	var payload struct {
		Results []struct {
			OutputText string `json:"outputText"`
		} `json:"results"`
		OutputText string `json:"outputText"`
		Generation string `json:"generation"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	text := ""
	if len(payload.Results) > 0 {
		text = payload.Results[0].OutputText
	}
	if text == "" {
		text = payload.OutputText
	}
	if text == "" {
		text = payload.Generation
	}
	if text == "" {
		return "", fmt.Errorf("no output text in model response")
	}
	return text, nil
}
