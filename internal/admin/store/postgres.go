package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"trustnest/internal/admin/models"
	id "trustnest/pkg/domain"
	"trustnest/pkg/platform/sentinel"
	"trustnest/pkg/requestcontext"
)

// PostgresFlagStore persists risk flags in PostgreSQL.
type PostgresFlagStore struct {
	db *sql.DB
}

func NewPostgresFlagStore(db *sql.DB) *PostgresFlagStore {
	return &PostgresFlagStore{db: db}
}

const flagColumns = `
	id, user_id, flagged_by, reason, status, created_at, resolved_by, resolved_at
`

func (s *PostgresFlagStore) Create(ctx context.Context, flag *models.RiskFlag) error {
	query := `
		INSERT INTO risk_flags (` + flagColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(flag.ID),
		uuid.UUID(flag.UserID),
		uuid.UUID(flag.FlaggedBy),
		flag.Reason,
		string(flag.Status),
		flag.CreatedAt,
		nullUserID(flag.ResolvedBy),
		flag.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("create risk flag: %w", err)
	}
	return nil
}

func (s *PostgresFlagStore) Find(ctx context.Context, flagID id.FlagID) (*models.RiskFlag, error) {
	query := `SELECT ` + flagColumns + ` FROM risk_flags WHERE id = $1`
	return scanFlag(s.db.QueryRowContext(ctx, query, uuid.UUID(flagID)))
}

func (s *PostgresFlagStore) Resolve(ctx context.Context, flagID id.FlagID, resolver id.UserID) (*models.RiskFlag, error) {
	query := `
		UPDATE risk_flags
		SET status = $2, resolved_by = $3, resolved_at = $4
		WHERE id = $1
		RETURNING ` + flagColumns + `
	`
	return scanFlag(s.db.QueryRowContext(ctx, query,
		uuid.UUID(flagID), string(models.FlagResolved), uuid.UUID(resolver), requestcontext.Now(ctx)))
}

func (s *PostgresFlagStore) List(ctx context.Context, onlyOpen bool, limit int) ([]*models.RiskFlag, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT ` + flagColumns + `
		FROM risk_flags
		WHERE ($1 = FALSE OR status = 'open')
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, onlyOpen, limit)
	if err != nil {
		return nil, fmt.Errorf("list risk flags: %w", err)
	}
	defer rows.Close()

	var out []*models.RiskFlag
	for rows.Next() {
		flag, err := scanFlagRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, flag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate risk flags: %w", err)
	}
	return out, nil
}

func (s *PostgresFlagStore) CountOpen(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM risk_flags WHERE status = 'open'`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count open flags: %w", err)
	}
	return count, nil
}

type flagScanner interface {
	Scan(dest ...any) error
}

func scanFlag(row *sql.Row) (*models.RiskFlag, error) {
	flag, err := scanFlagRow(row)
	if err != nil && errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	return flag, err
}

func scanFlagRow(row flagScanner) (*models.RiskFlag, error) {
	var (
		flag       models.RiskFlag
		rawID      uuid.UUID
		rawUserID  uuid.UUID
		rawFlagger uuid.UUID
		status     string
		resolvedBy uuid.NullUUID
	)
	err := row.Scan(&rawID, &rawUserID, &rawFlagger, &flag.Reason, &status,
		&flag.CreatedAt, &resolvedBy, &flag.ResolvedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("scan risk flag: %w", err)
	}
	flag.ID = id.FlagID(rawID)
	flag.UserID = id.UserID(rawUserID)
	flag.FlaggedBy = id.UserID(rawFlagger)
	flag.Status = models.FlagStatus(status)
	if resolvedBy.Valid {
		resolver := id.UserID(resolvedBy.UUID)
		flag.ResolvedBy = &resolver
	}
	return &flag, nil
}

// PostgresModerationStore persists suspension state in PostgreSQL.
type PostgresModerationStore struct {
	db *sql.DB
}

func NewPostgresModerationStore(db *sql.DB) *PostgresModerationStore {
	return &PostgresModerationStore{db: db}
}

func (s *PostgresModerationStore) Get(ctx context.Context, userID id.UserID) (*models.Moderation, error) {
	query := `
		SELECT user_id, suspended, reason, suspended_by, suspended_at, updated_at
		FROM user_moderation
		WHERE user_id = $1
	`
	var (
		m           models.Moderation
		rawUserID   uuid.UUID
		suspendedBy uuid.NullUUID
	)
	err := s.db.QueryRowContext(ctx, query, uuid.UUID(userID)).Scan(
		&rawUserID, &m.Suspended, &m.Reason, &suspendedBy, &m.SuspendedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get moderation: %w", err)
	}
	m.UserID = id.UserID(rawUserID)
	if suspendedBy.Valid {
		admin := id.UserID(suspendedBy.UUID)
		m.SuspendedBy = &admin
	}
	return &m, nil
}

func (s *PostgresModerationStore) Save(ctx context.Context, moderation *models.Moderation) error {
	query := `
		INSERT INTO user_moderation (user_id, suspended, reason, suspended_by, suspended_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			suspended = EXCLUDED.suspended,
			reason = EXCLUDED.reason,
			suspended_by = EXCLUDED.suspended_by,
			suspended_at = EXCLUDED.suspended_at,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(moderation.UserID),
		moderation.Suspended,
		moderation.Reason,
		nullUserID(moderation.SuspendedBy),
		moderation.SuspendedAt,
		moderation.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save moderation: %w", err)
	}
	return nil
}

func (s *PostgresModerationStore) CountSuspended(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_moderation WHERE suspended`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count suspended users: %w", err)
	}
	return count, nil
}

func nullUserID(v *id.UserID) uuid.NullUUID {
	if v == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*v), Valid: true}
}
