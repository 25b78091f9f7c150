package core

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/newsinsight/newsinsight/models"
)

const (
	maxPrimaryRecords   = 10
	maxCrossRecords     = 8
	maxCrossEvidence    = 8
	primaryPromptBudget = 7000
	crossPromptBudget   = 6000
)

// shorten caps s at n bytes, replacing the tail with an ellipsis. The
// cut backs up to a rune boundary so the result stays valid UTF-8.
func shorten(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

func internalBullets(recs []models.InternalRecord, max int, withSentiment bool) string {
	var b strings.Builder
	for i, r := range recs {
		if i >= max {
			break
		}
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "- [%s] %s: %s", r.Date, r.Source, r.Summary)
		if withSentiment && r.Sentiment != "" {
			fmt.Fprintf(&b, " (sentiment=%s)", r.Sentiment)
		}
	}
	return b.String()
}

func evidenceBullets(ev []models.EvidenceItem, max int) string {
	var b strings.Builder
	for i, e := range ev {
		if i >= max {
			break
		}
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "- %s (%s, %s) :: %s <%s>", e.Title, e.Source, e.PublishedAt, e.Snippet, e.URL)
	}
	return b.String()
}

func primaryPrompt(topic string, recs []models.InternalRecord) string {
	bullets := internalBullets(recs, maxPrimaryRecords, true)
	if bullets == "" {
		bullets = "(no internal items matched)"
	}
	return strings.TrimSpace(fmt.Sprintf(`
You are an impartial news analyst. Use ONLY the internal processed summaries below.

Topic: %q

Internal items:
%s

Tasks:
1) Write a neutral 4-6 sentence synthesis of key facts.
2) Give a one-line 'verdict' on overall factual consistency (e.g., "Mostly consistent", "Conflicting reports", "Insufficient evidence").
3) Provide a confidence score in [0.0, 1.0].
4) Note any observable bias in sources (e.g., "mostly wire-service", "mixed outlets", "regional skew").

Return strict JSON with keys: summary, verdict, confidence, bias.
`, topic, shorten(bullets, primaryPromptBudget)))
}

func crossVerifyPrompt(topic string, recs []models.InternalRecord, ev []models.EvidenceItem, primaryVerdict string) string {
	internal := internalBullets(recs, maxCrossRecords, false)
	if internal == "" {
		internal = "(none)"
	}
	external := evidenceBullets(ev, maxCrossEvidence)
	if external == "" {
		external = "(none)"
	}
	return strings.TrimSpace(fmt.Sprintf(`
You are an adversarial fact-checker.

Topic: %q

Internal corpus:
%s

External evidence:
%s

Primary internal verdict: %q

Tasks:
1) Say SUPPORTS / PARTIALLY SUPPORTS / CONTRADICTS for the internal verdict.
2) Provide a final one-sentence verdict integrating both sources.
3) Updated confidence in [0.0, 1.0].
4) Brief bias note comparing internal vs external.

Return JSON: {"support":"...", "verdict":"...", "confidence":0.0, "bias":"..."}.
`, topic, shorten(internal, crossPromptBudget), shorten(external, crossPromptBudget), primaryVerdict))
}

type primaryResult struct {
	Summary    string
	Verdict    string
	Bias       string
	Confidence float64
}

func parsePrimary(text string) primaryResult {
	parsed := ExtractJSON(text)
	return primaryResult{
		Summary:    strField(parsed, "summary", ""),
		Verdict:    strField(parsed, "verdict", "Insufficient evidence"),
		Bias:       strField(parsed, "bias", "unknown"),
		Confidence: floatField(parsed, "confidence", 0.5),
	}
}

type crossVerifyResult struct {
	Support    models.SupportLabel
	Verdict    string
	Bias       string
	Confidence float64
}

func parseCrossVerify(text, primaryVerdict string) crossVerifyResult {
	parsed := ExtractJSON(text)
	res := crossVerifyResult{
		Support:    models.ParseSupportLabel(strField(parsed, "support", string(models.PartiallySupports))),
		Verdict:    strField(parsed, "verdict", primaryVerdict),
		Bias:       strField(parsed, "bias", "mixed"),
		Confidence: floatField(parsed, "confidence", 0.55),
	}
	res.Confidence = ApplySupport(res.Confidence, res.Support)
	return res
}

// ApplySupport adjusts confidence by the cross-verification outcome:
// corroboration earns +0.1, contradiction costs 0.1, partial support
// leaves it unchanged. The result stays inside [0, 1].
func ApplySupport(confidence float64, support models.SupportLabel) float64 {
	switch support {
	case models.Supports:
		confidence += 0.1
	case models.Contradicts:
		confidence -= 0.1
	}
	return models.Clamp01(confidence)
}
