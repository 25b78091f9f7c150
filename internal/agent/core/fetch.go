package core

import (
	"context"
	"sort"
	"strings"

	"github.com/newsinsight/newsinsight/models"
)

const (
	scanPageSize  = 200
	scanMaxItems  = 600
	maxTopMatches = 15
)

// queryNewsMetadata pages through the corpus, keeps records whose
// summary mentions the topic, and returns the freshest matches. Corpus
// failures degrade to an empty slice; the error lands in the trace step.
func (a *Agent) queryNewsMetadata(ctx context.Context, topic string, trace *models.RunTrace) []models.InternalRecord {
	step := models.TraceStep{
		Name:    "query_news_metadata",
		Context: map[string]interface{}{"topic": topic},
	}

	var items []models.InternalRecord
	err := a.retry.Do(ctx, a.logger, "corpus scan", func() error {
		items = items[:0]
		token := ""
		for {
			page, next, err := a.corpus.ScanArticles(ctx, token, scanPageSize)
			if err != nil {
				return err
			}
			items = append(items, page...)
			if next == "" || len(items) >= scanMaxItems {
				return nil
			}
			token = next
		}
	})
	if err != nil {
		step.Error = err.Error()
		trace.Steps = append(trace.Steps, step)
		a.logger.Printf("corpus scan failed: %v", err)
		return []models.InternalRecord{}
	}

	matched := filterByTopic(items, topic)
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Date > matched[j].Date })
	if len(matched) > maxTopMatches {
		matched = matched[:maxTopMatches]
	}

	step.Response = map[string]interface{}{"count": len(matched)}
	trace.Steps = append(trace.Steps, step)
	return matched
}

// filterByTopic keeps records whose summary contains the topic,
// case-insensitively. No tokenization, just a substring match over the
// processed summaries.
func filterByTopic(items []models.InternalRecord, topic string) []models.InternalRecord {
	topicL := strings.ToLower(topic)
	out := make([]models.InternalRecord, 0, len(items))
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Summary), topicL) {
			out = append(out, it)
		}
	}
	return out
}
