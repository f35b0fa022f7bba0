package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"trustnest/internal/audit"
	id "trustnest/pkg/domain"
	txcontext "trustnest/pkg/platform/tx"
)

// PostgresStore implements Store using the transactional outbox pattern.
// Every entry is written to audit_entries for querying and to audit_outbox
// for Kafka publishing; the outbox worker drains the latter. When the
// context carries a transaction both inserts join it, so an admin mutation
// and its audit trail commit or roll back together.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres creates a PostgreSQL audit store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Append(ctx context.Context, entry *audit.Entry) error {
	details, err := json.Marshal(entry.Details)
	if err != nil {
		return fmt.Errorf("marshal audit details: %w", err)
	}

	execer := s.execer(ctx)

	query := `
		INSERT INTO audit_entries (
			id, admin_id, action, target_user_id, target_type, target_id,
			details, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = execer.ExecContext(ctx, query,
		uuid.UUID(entry.ID),
		uuid.UUID(entry.AdminID),
		string(entry.Action),
		nullUserID(entry.TargetUserID),
		entry.TargetType,
		entry.TargetID,
		details,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}

	payload, err := json.Marshal(outboxPayload{
		ID:           entry.ID.String(),
		AdminID:      entry.AdminID.String(),
		Action:       string(entry.Action),
		TargetUserID: userIDString(entry.TargetUserID),
		TargetType:   entry.TargetType,
		TargetID:     entry.TargetID,
		Details:      entry.Details,
		CreatedAt:    entry.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("marshal outbox payload: %w", err)
	}

	outboxQuery := `
		INSERT INTO audit_outbox (id, aggregate_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = execer.ExecContext(ctx, outboxQuery,
		uuid.New(),
		uuid.UUID(entry.AdminID),
		string(entry.Action),
		payload,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert outbox entry: %w", err)
	}
	return nil
}

// outboxPayload is the JSON structure published to Kafka.
type outboxPayload struct {
	ID           string         `json:"id"`
	AdminID      string         `json:"admin_id"`
	Action       string         `json:"action"`
	TargetUserID string         `json:"target_user_id,omitempty"`
	TargetType   string         `json:"target_type,omitempty"`
	TargetID     string         `json:"target_id,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
	CreatedAt    string         `json:"created_at"`
}

func (s *PostgresStore) List(ctx context.Context, filter audit.Filter) ([]*audit.Entry, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, admin_id, action, target_user_id, target_type, target_id,
		       details, created_at
		FROM audit_entries
		WHERE ($1::uuid IS NULL OR admin_id = $1)
		  AND ($2::uuid IS NULL OR target_user_id = $2)
		  AND ($3::text IS NULL OR action = $3)
		ORDER BY created_at DESC
		LIMIT $4
	`
	rows, err := s.db.QueryContext(ctx, query,
		nullUserID(filter.AdminID),
		nullUserID(filter.TargetUserID),
		nullAction(filter.Action),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var out []*audit.Entry
	for rows.Next() {
		var (
			e            audit.Entry
			rawID        uuid.UUID
			rawAdminID   uuid.UUID
			action       string
			targetUserID uuid.NullUUID
			details      []byte
		)
		err := rows.Scan(&rawID, &rawAdminID, &action, &targetUserID,
			&e.TargetType, &e.TargetID, &details, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.ID = id.AuditID(rawID)
		e.AdminID = id.UserID(rawAdminID)
		e.Action = audit.Action(action)
		if targetUserID.Valid {
			target := id.UserID(targetUserID.UUID)
			e.TargetUserID = &target
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &e.Details); err != nil {
				return nil, fmt.Errorf("unmarshal audit details: %w", err)
			}
		}
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return out, nil
}

func nullUserID(v *id.UserID) uuid.NullUUID {
	if v == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*v), Valid: true}
}

func nullAction(v *audit.Action) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*v), Valid: true}
}

func userIDString(v *id.UserID) string {
	if v == nil {
		return ""
	}
	return v.String()
}
