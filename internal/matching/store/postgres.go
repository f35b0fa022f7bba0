package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"trustnest/internal/matching"
	id "trustnest/pkg/domain"
)

// PostgresStore persists match history in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed match store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, match *matching.Match) error {
	query := `
		INSERT INTO matches (
			id, user_a, user_b, score, budget_match, schedule_match,
			cleanliness_match, lifestyle_match, pets_match, explanation, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(match.ID),
		uuid.UUID(match.UserA),
		uuid.UUID(match.UserB),
		match.Result.Score,
		match.Result.BudgetMatch,
		match.Result.ScheduleMatch,
		match.Result.CleanlinessMatch,
		match.Result.LifestyleMatch,
		match.Result.PetsMatch,
		match.Result.Explanation,
		match.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append match: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID id.UserID, limit int) ([]*matching.Match, error) {
	query := `
		SELECT id, user_a, user_b, score, budget_match, schedule_match,
		       cleanliness_match, lifestyle_match, pets_match, explanation, created_at
		FROM matches
		WHERE user_a = $1 OR user_b = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(userID), limit)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var out []*matching.Match
	for rows.Next() {
		var (
			m          matching.Match
			rawID      uuid.UUID
			rawUserA   uuid.UUID
			rawUserB   uuid.UUID
		)
		err := rows.Scan(&rawID, &rawUserA, &rawUserB,
			&m.Result.Score, &m.Result.BudgetMatch, &m.Result.ScheduleMatch,
			&m.Result.CleanlinessMatch, &m.Result.LifestyleMatch, &m.Result.PetsMatch,
			&m.Result.Explanation, &m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		m.ID = id.MatchID(rawID)
		m.UserA = id.UserID(rawUserA)
		m.UserB = id.UserID(rawUserB)
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}
	return out, nil
}
