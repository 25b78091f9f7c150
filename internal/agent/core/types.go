package core

import (
	"context"

	"github.com/newsinsight/newsinsight/models"
)

// CorpusStore is the internal corpus of processed news metadata. A scan
// returns one page of records plus a continuation token; an empty token
// means the scan is exhausted.
type CorpusStore interface {
	ScanArticles(ctx context.Context, startToken string, limit int) ([]models.InternalRecord, string, error)
}

// TraceStore persists completed run traces for audit.
type TraceStore interface {
	SaveTrace(ctx context.Context, trace models.RunTrace) error
}
