package provider

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/newsinsight/newsinsight/provider/anthropic"
	"github.com/newsinsight/newsinsight/provider/titan"
	"github.com/newsinsight/newsinsight/utils"
)

// Family selects the wire schema used to talk to the hosted inference
// endpoint.
type Family string

const (
	Anthropic Family = "anthropic" // message-style content blocks
	Titan     Family = "titan"     // single-field text generation
)

var ErrUnsupportedFamily = errors.New("unsupported model family")

// ModelAdapter isolates wire-schema differences between hosted LLM
// backends. Invoke sends one prompt and returns the model's raw text,
// normalized to a single string regardless of family.
type ModelAdapter interface {
	Invoke(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Options carries the endpoint coordinates shared by all families.
type Options struct {
	Endpoint       string
	Model          string
	APIKey         string
	MaxTokens      int
	Temperature    float64
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration

	// HTTPClient overrides the default client; used by tests.
	HTTPClient *http.Client
}

// New creates a model adapter for the given family. A missing model id
// or endpoint is a fatal configuration error.
func New(family Family, opts Options) (ModelAdapter, error) {
	if opts.Endpoint == "" {
		return nil, errors.New("model endpoint is required")
	}
	if opts.Model == "" {
		return nil, errors.New("model id is required")
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 600
	}
	httpc := opts.HTTPClient
	if httpc == nil {
		httpc = utils.NewHTTPClient(opts.ConnectTimeout, opts.ReadTimeout)
	}
	switch family {
	case Anthropic:
		return anthropic.New(opts.Endpoint, opts.Model, opts.APIKey, opts.MaxTokens, httpc), nil
	case Titan:
		return titan.New(opts.Endpoint, opts.Model, opts.APIKey, opts.MaxTokens, opts.Temperature, httpc), nil
	default:
		return nil, ErrUnsupportedFamily
	}
}
