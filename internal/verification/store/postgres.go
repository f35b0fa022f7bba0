package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"trustnest/internal/verification/models"
	id "trustnest/pkg/domain"
	"trustnest/pkg/platform/sentinel"
	txcontext "trustnest/pkg/platform/tx"
	"trustnest/pkg/requestcontext"
)

// PostgresStore persists verification records in PostgreSQL. Mutate runs the
// read-derive-write sequence inside a transaction holding a row lock, which
// gives the per-user serialization the state machine requires.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed verification store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const recordColumns = `
	user_id, status, trust_badge,
	email_verified, email_verified_at,
	phone_verified, phone_verified_at,
	id_verified, id_verified_at,
	selfie_verified, selfie_verified_at,
	phone_otp_attempts,
	reviewed_by, reviewed_at, rejection_reason,
	created_at, updated_at
`

func (s *PostgresStore) GetOrCreate(ctx context.Context, userID id.UserID) (*models.Record, error) {
	record, err := s.Find(ctx, userID)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, err
	}

	fresh := models.NewRecord(userID, requestcontext.Now(ctx))
	if err := insertRecord(ctx, s.db, fresh); err != nil {
		// A concurrent first touch may have won the insert.
		if isUniqueViolation(err) {
			return s.Find(ctx, userID)
		}
		return nil, err
	}
	return fresh, nil
}

func (s *PostgresStore) Find(ctx context.Context, userID id.UserID) (*models.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM verification_records WHERE user_id = $1`
	return scanRecord(s.db.QueryRowContext(ctx, query, uuid.UUID(userID)))
}

func (s *PostgresStore) Mutate(ctx context.Context, userID id.UserID, fn func(ctx context.Context, record *models.Record) error) (*models.Record, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin verification tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `SELECT ` + recordColumns + ` FROM verification_records WHERE user_id = $1 FOR UPDATE`
	record, err := scanRecord(tx.QueryRowContext(ctx, query, uuid.UUID(userID)))
	if errors.Is(err, sentinel.ErrNotFound) {
		record = models.NewRecord(userID, requestcontext.Now(ctx))
		if err := insertRecord(ctx, tx, record); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	// Collaborating writes inside fn join this transaction via the context.
	txCtx := txcontext.WithTx(ctx, tx)
	if err := fn(txCtx, record); err != nil {
		return nil, err
	}

	if err := updateRecord(ctx, tx, record); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit verification tx: %w", err)
	}
	return record, nil
}

func insertRecord(ctx context.Context, q queryer, r *models.Record) error {
	query := `
		INSERT INTO verification_records (` + recordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err := q.ExecContext(ctx, query,
		uuid.UUID(r.UserID), string(r.Status), string(r.TrustBadge),
		r.EmailVerified, r.EmailVerifiedAt,
		r.PhoneVerified, r.PhoneVerifiedAt,
		r.IDVerified, r.IDVerifiedAt,
		r.SelfieVerified, r.SelfieVerifiedAt,
		r.PhoneOTPAttempts,
		nullUserID(r.ReviewedBy), r.ReviewedAt, r.RejectionReason,
		r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert verification record: %w", err)
	}
	return nil
}

func updateRecord(ctx context.Context, q queryer, r *models.Record) error {
	query := `
		UPDATE verification_records SET
			status = $2, trust_badge = $3,
			email_verified = $4, email_verified_at = $5,
			phone_verified = $6, phone_verified_at = $7,
			id_verified = $8, id_verified_at = $9,
			selfie_verified = $10, selfie_verified_at = $11,
			phone_otp_attempts = $12,
			reviewed_by = $13, reviewed_at = $14, rejection_reason = $15,
			updated_at = $16
		WHERE user_id = $1
	`
	_, err := q.ExecContext(ctx, query,
		uuid.UUID(r.UserID), string(r.Status), string(r.TrustBadge),
		r.EmailVerified, r.EmailVerifiedAt,
		r.PhoneVerified, r.PhoneVerifiedAt,
		r.IDVerified, r.IDVerifiedAt,
		r.SelfieVerified, r.SelfieVerifiedAt,
		r.PhoneOTPAttempts,
		nullUserID(r.ReviewedBy), r.ReviewedAt, r.RejectionReason,
		r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update verification record: %w", err)
	}
	return nil
}

func scanRecord(row *sql.Row) (*models.Record, error) {
	var (
		r          models.Record
		rawUserID  uuid.UUID
		status     string
		badge      string
		reviewedBy uuid.NullUUID
		reason     sql.NullString
	)
	err := row.Scan(&rawUserID, &status, &badge,
		&r.EmailVerified, &r.EmailVerifiedAt,
		&r.PhoneVerified, &r.PhoneVerifiedAt,
		&r.IDVerified, &r.IDVerifiedAt,
		&r.SelfieVerified, &r.SelfieVerifiedAt,
		&r.PhoneOTPAttempts,
		&reviewedBy, &r.ReviewedAt, &reason,
		&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan verification record: %w", err)
	}

	r.UserID = id.UserID(rawUserID)
	r.Status = models.Status(status)
	r.TrustBadge = models.TrustBadge(badge)
	if reviewedBy.Valid {
		reviewer := id.UserID(reviewedBy.UUID)
		r.ReviewedBy = &reviewer
	}
	if reason.Valid {
		r.RejectionReason = reason.String
	}
	return &r, nil
}

func nullUserID(v *id.UserID) uuid.NullUUID {
	if v == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*v), Valid: true}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (s *PostgresStore) CountByStatus(ctx context.Context) (map[models.Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM verification_records GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count verification records: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.Status]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan verification count: %w", err)
		}
		counts[models.Status(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate verification counts: %w", err)
	}
	return counts, nil
}
