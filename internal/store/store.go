package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	_ "github.com/lib/pq"

	"github.com/newsinsight/newsinsight/internal/agent/config"
	"github.com/newsinsight/newsinsight/models"
)

// Store is the Postgres-backed corpus and trace store.
type Store struct {
	DB *sql.DB
}

var ErrNotFound = errors.New("not found")

// New opens the database handle without dialing. Connectivity problems
// surface on first use, so a down database degrades the fetch stage
// instead of preventing startup.
func New(cfg config.PostgresConfig) (*Store, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{DB: db}, nil
}

// Ping verifies connectivity; used by serve startup and health checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.DB.Close()
}

// ScanArticles returns one page of corpus records ordered by id. The
// continuation token is the last id of a full page, empty when the scan
// is exhausted.
func (s *Store) ScanArticles(ctx context.Context, startToken string, limit int) ([]models.InternalRecord, string, error) {
	if limit <= 0 {
		limit = 200
	}
	after := int64(0)
	if startToken != "" {
		v, err := strconv.ParseInt(startToken, 10, 64)
		if err != nil {
			return nil, "", fmt.Errorf("invalid scan token %q: %w", startToken, err)
		}
		after = v
	}

	rows, err := s.DB.QueryContext(ctx, `
SELECT id, source, date, summary, sentiment, verification_score
FROM news_metadata
WHERE id > $1
ORDER BY id
LIMIT $2`, after, limit)
	if err != nil {
		return nil, "", fmt.Errorf("failed to scan news_metadata: %w", err)
	}
	defer rows.Close()

	var (
		out    []models.InternalRecord
		lastID int64
	)
	for rows.Next() {
		var (
			id        int64
			rec       models.InternalRecord
			sentiment sql.NullString
			score     sql.NullFloat64
		)
		if err := rows.Scan(&id, &rec.Source, &rec.Date, &rec.Summary, &sentiment, &score); err != nil {
			return nil, "", fmt.Errorf("failed to read news_metadata row: %w", err)
		}
		rec.ID = strconv.FormatInt(id, 10)
		if sentiment.Valid {
			rec.Sentiment = sentiment.String
		}
		if score.Valid {
			v := score.Float64
			rec.VerificationScore = &v
		}
		out = append(out, rec)
		lastID = id
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("failed to read news_metadata rows: %w", err)
	}

	next := ""
	if len(out) == limit {
		next = strconv.FormatInt(lastID, 10)
	}
	return out, next, nil
}

// SaveTrace upserts a run trace, keyed by run_id.
func (s *Store) SaveTrace(ctx context.Context, trace models.RunTrace) error {
	timestamps, err := json.Marshal(trace.Timestamps)
	if err != nil {
		return fmt.Errorf("failed to marshal timestamps: %w", err)
	}
	steps, err := json.Marshal(trace.Steps)
	if err != nil {
		return fmt.Errorf("failed to marshal steps: %w", err)
	}
	output, err := json.Marshal(trace.Output)
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `
INSERT INTO agent_trace (run_id, topic, timestamps, steps, output)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (run_id) DO UPDATE SET
  topic = EXCLUDED.topic,
  timestamps = EXCLUDED.timestamps,
  steps = EXCLUDED.steps,
  output = EXCLUDED.output`,
		trace.RunID, trace.Topic, timestamps, steps, output)
	if err != nil {
		return fmt.Errorf("failed to save trace: %w", err)
	}
	return nil
}

// GetTrace loads one persisted run trace.
func (s *Store) GetTrace(ctx context.Context, runID string) (models.RunTrace, error) {
	var (
		trace      models.RunTrace
		timestamps []byte
		steps      []byte
		output     []byte
	)
	err := s.DB.QueryRowContext(ctx, `
SELECT run_id, topic, timestamps, steps, output
FROM agent_trace
WHERE run_id = $1`, runID).Scan(&trace.RunID, &trace.Topic, &timestamps, &steps, &output)
	if errors.Is(err, sql.ErrNoRows) {
		return models.RunTrace{}, ErrNotFound
	}
	if err != nil {
		return models.RunTrace{}, fmt.Errorf("failed to load trace: %w", err)
	}
	if err := json.Unmarshal(timestamps, &trace.Timestamps); err != nil {
		return models.RunTrace{}, fmt.Errorf("failed to decode timestamps: %w", err)
	}
	if err := json.Unmarshal(steps, &trace.Steps); err != nil {
		return models.RunTrace{}, fmt.Errorf("failed to decode steps: %w", err)
	}
	if len(output) > 0 && string(output) != "null" {
		trace.Output = &models.AgentOutput{}
		if err := json.Unmarshal(output, trace.Output); err != nil {
			return models.RunTrace{}, fmt.Errorf("failed to decode output: %w", err)
		}
	}
	return trace, nil
}

// CreateUser inserts an API user with a pre-hashed password.
func (s *Store) CreateUser(ctx context.Context, email, passwordHash string) (string, error) {
	var id string
	err := s.DB.QueryRowContext(ctx, `
INSERT INTO users (email, password_hash) VALUES ($1,$2) RETURNING id`,
		email, passwordHash).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

// GetUserByEmail looks up a user for login.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (id, passwordHash string, err error) {
	err = s.DB.QueryRowContext(ctx, `
SELECT id, password_hash FROM users WHERE email = $1`, email).Scan(&id, &passwordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", ErrNotFound
	}
	if err != nil {
		return "", "", fmt.Errorf("failed to load user: %w", err)
	}
	return id, passwordHash, nil
}
