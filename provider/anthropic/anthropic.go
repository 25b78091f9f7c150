package anthropic

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

const anthropicVersion = "bedrock-2023-05-31"

// Client speaks the message-style invocation schema: an array of
// role/content blocks on the way in, a content array of typed blocks on
// the way out.
type Client struct {
	endpoint  string
	model     string
	apiKey    string
	maxTokens int
	http      *http.Client
}

func New(endpoint, model, apiKey string, maxTokens int, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		endpoint:  strings.TrimRight(endpoint, "/"),
		model:     model,
		apiKey:    apiKey,
		maxTokens: maxTokens,
		http:      httpClient,
	}
}

func (c *Client) Model() string { return c.model }

// Invoke sends one user prompt and returns the concatenated text blocks
// of the reply.
func (c *Client) Invoke(ctx context.Context, prompt string) (string, error) {
	body := map[string]any{
		"anthropic_version": anthropicVersion,
		"max_tokens":        c.maxTokens,
		"messages": []map[string]any{
			{
				"role": "user",
				"content": []map[string]any{
					{"type": "text", "text": prompt},
				},
			},
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
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	var chunks []string
	for _, blk := range payload.Content {
		if blk.Type == "text" {
			chunks = append(chunks, blk.Text)
		}
	}
	if len(chunks) == 0 {
		return "", fmt.Errorf("no text content in model response")
	}
	return strings.Join(chunks, "\n"), nil
}
