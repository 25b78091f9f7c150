package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/newsinsight/newsinsight/models"
)

type fakeCorpus struct {
	records []models.InternalRecord
	err     error
	scans   int
}

func (f *fakeCorpus) ScanArticles(ctx context.Context, startToken string, limit int) ([]models.InternalRecord, string, error) {
	f.scans++
	if f.err != nil {
		return nil, "", f.err
	}
	start := 0
	if startToken != "" {
		start, _ = strconv.Atoi(startToken)
	}
	end := start + limit
	if end >= len(f.records) {
		return f.records[start:], "", nil
	}
	return f.records[start:end], strconv.Itoa(end), nil
}

func TestQueryNewsMetadataFiltersAndSorts(t *testing.T) {
	corpus := &fakeCorpus{records: []models.InternalRecord{
		{ID: "1", Date: "2026-08-01", Summary: "Tech layoffs hit the valley"},
		{ID: "2", Date: "2026-08-03", Summary: "Unrelated sports story"},
		{ID: "3", Date: "2026-08-05", Summary: "More TECH LAYOFFS announced"},
		{ID: "4", Date: "2026-08-02", Summary: "tech layoffs continue"},
	}}
	a := newTestAgent(t, Deps{Corpus: corpus, Model: &fakeModel{}})

	trace := models.RunTrace{Steps: []models.TraceStep{}}
	got := a.queryNewsMetadata(context.Background(), "tech layoffs", &trace)

	if len(got) != 3 {
		t.Fatalf("matched %d records, want 3", len(got))
	}
	if got[0].ID != "3" || got[1].ID != "4" || got[2].ID != "1" {
		t.Fatalf("unexpected order %v %v %v", got[0].ID, got[1].ID, got[2].ID)
	}
	if len(trace.Steps) != 1 || trace.Steps[0].Name != "query_news_metadata" {
		t.Fatalf("unexpected trace %+v", trace.Steps)
	}
	if trace.Steps[0].Response["count"] != 3 {
		t.Fatalf("unexpected count %v", trace.Steps[0].Response["count"])
	}
}

func TestQueryNewsMetadataPaginatesWithCap(t *testing.T) {
	var recs []models.InternalRecord
	for i := 0; i < 1000; i++ {
		recs = append(recs, models.InternalRecord{
			ID:      strconv.Itoa(i),
			Date:    fmt.Sprintf("2026-01-%03d", i),
			Summary: "filler",
		})
	}
	corpus := &fakeCorpus{records: recs}
	a := newTestAgent(t, Deps{Corpus: corpus, Model: &fakeModel{}})

	trace := models.RunTrace{Steps: []models.TraceStep{}}
	a.queryNewsMetadata(context.Background(), "filler", &trace)

	// 200 per page, stop once 600 accumulated
	if corpus.scans != 3 {
		t.Fatalf("scans = %d, want 3", corpus.scans)
	}
	if got := trace.Steps[0].Response["count"]; got != maxTopMatches {
		t.Fatalf("count = %v, want %d", got, maxTopMatches)
	}
}

func TestQueryNewsMetadataDegradesOnError(t *testing.T) {
	corpus := &fakeCorpus{err: errors.New("table offline")}
	a := newTestAgent(t, Deps{Corpus: corpus, Model: &fakeModel{}})

	trace := models.RunTrace{Steps: []models.TraceStep{}}
	got := a.queryNewsMetadata(context.Background(), "anything", &trace)

	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", got)
	}
	if len(trace.Steps) != 1 || trace.Steps[0].Error == "" {
		t.Fatalf("expected error step, got %+v", trace.Steps)
	}
	if trace.Steps[0].Response != nil {
		t.Fatalf("error step should carry no response, got %+v", trace.Steps[0])
	}
}

func TestFilterByTopicCaseInsensitive(t *testing.T) {
	items := []models.InternalRecord{
		{ID: "a", Summary: "Quantum Computing milestone"},
		{ID: "b", Summary: "quantum computing skeptics respond"},
		{ID: "c", Summary: "celebrity gossip"},
	}
	got := filterByTopic(items, "QUANTUM computing")
	if len(got) != 2 {
		t.Fatalf("matched %d, want 2", len(got))
	}
}
