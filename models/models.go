package models

import "strings"

// InternalRecord is a previously ingested, summarized news item from the
// internal corpus. Records are immutable once fetched; they live for a
// single pipeline run.
type InternalRecord struct {
	ID                string   `json:"id"`
	Source            string   `json:"source"`
	Date              string   `json:"date"`
	Summary           string   `json:"summary"`
	Sentiment         string   `json:"sentiment,omitempty"`
	VerificationScore *float64 `json:"verification_score,omitempty"`
}

// EvidenceItem is a normalized external web-search result used to
// corroborate or contradict internal findings.
type EvidenceItem struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at,omitempty"`
	Source      string `json:"source,omitempty"`
	Snippet     string `json:"snippet,omitempty"`
}

// SupportLabel classifies how well external evidence supports the
// primary verdict.
type SupportLabel string

const (
	Supports          SupportLabel = "SUPPORTS"
	PartiallySupports SupportLabel = "PARTIALLY SUPPORTS"
	Contradicts       SupportLabel = "CONTRADICTS"
)

// ParseSupportLabel maps free-form model output onto a SupportLabel.
// Anything unrecognized collapses to PartiallySupports.
func ParseSupportLabel(s string) SupportLabel {
	norm := strings.ToUpper(strings.TrimSpace(strings.ReplaceAll(s, "_", " ")))
	switch norm {
	case string(Supports):
		return Supports
	case string(Contradicts):
		return Contradicts
	default:
		return PartiallySupports
	}
}

// TraceStep records one attempted pipeline stage. Exactly one of
// Response or Error is set.
type TraceStep struct {
	Name     string                 `json:"name"`
	Context  map[string]interface{} `json:"context,omitempty"`
	Response map[string]interface{} `json:"response,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

// Timestamps bracket a single run, unix seconds.
type Timestamps struct {
	StartedAt int64 `json:"started_at"`
	EndedAt   int64 `json:"ended_at,omitempty"`
}

// RunTrace is the durable, append-only audit record of one pipeline
// execution. It is owned exclusively by its run and persisted exactly
// once at run end.
type RunTrace struct {
	RunID      string       `json:"run_id"`
	Topic      string       `json:"topic"`
	Timestamps Timestamps   `json:"timestamps"`
	Steps      []TraceStep  `json:"steps"`
	Output     *AgentOutput `json:"output,omitempty"`
}

// AgentOutput is the caller-facing result of one run. Confidence is
// always within [0, 1].
type AgentOutput struct {
	Topic            string           `json:"topic"`
	Summary          string           `json:"summary"`
	Confidence       float64          `json:"confidence"`
	Bias             string           `json:"bias"`
	Verdict          string           `json:"verdict"`
	TopArticles      []InternalRecord `json:"top_articles"`
	ExternalEvidence []EvidenceItem   `json:"external_evidence"`
	RunID            string           `json:"run_id"`
}

// Clamp01 bounds a confidence value to [0, 1].
func Clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
