package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"trustnest/internal/document/models"
	id "trustnest/pkg/domain"
	"trustnest/pkg/platform/sentinel"
	"trustnest/pkg/requestcontext"
)

// PostgresStore persists document metadata in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed document store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const documentColumns = `
	id, user_id, document_type, storage_key, mime_type, size_bytes,
	review_state, reviewed_by, reviewed_at, uploaded_at
`

func (s *PostgresStore) Append(ctx context.Context, doc *models.Document) error {
	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(doc.ID),
		uuid.UUID(doc.UserID),
		string(doc.Type),
		doc.StorageKey,
		doc.MimeType,
		doc.Size,
		string(doc.Review),
		nullUserID(doc.ReviewedBy),
		doc.ReviewedAt,
		doc.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("append document: %w", err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, docID id.DocumentID) (*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	return scanDocument(s.db.QueryRowContext(ctx, query, uuid.UUID(docID)))
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID id.UserID) ([]*models.Document, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE user_id = $1
		ORDER BY uploaded_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var out []*models.Document
	for rows.Next() {
		doc, err := scanDocumentRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) SetReview(ctx context.Context, docID id.DocumentID, review models.ReviewState, reviewer id.UserID) (*models.Document, error) {
	query := `
		UPDATE documents
		SET review_state = $2, reviewed_by = $3, reviewed_at = $4
		WHERE id = $1
		RETURNING ` + documentColumns + `
	`
	return scanDocument(s.db.QueryRowContext(ctx, query,
		uuid.UUID(docID), string(review), uuid.UUID(reviewer), requestcontext.Now(ctx)))
}

func (s *PostgresStore) Delete(ctx context.Context, docID id.DocumentID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, uuid.UUID(docID))
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row *sql.Row) (*models.Document, error) {
	doc, err := scanDocumentRows(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

func scanDocumentRows(row rowScanner) (*models.Document, error) {
	var (
		doc        models.Document
		rawID      uuid.UUID
		rawUserID  uuid.UUID
		docType    string
		review     string
		reviewedBy uuid.NullUUID
	)
	err := row.Scan(&rawID, &rawUserID, &docType, &doc.StorageKey, &doc.MimeType,
		&doc.Size, &review, &reviewedBy, &doc.ReviewedAt, &doc.UploadedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}
	doc.ID = id.DocumentID(rawID)
	doc.UserID = id.UserID(rawUserID)
	doc.Type = models.Type(docType)
	doc.Review = models.ReviewState(review)
	if reviewedBy.Valid {
		reviewer := id.UserID(reviewedBy.UUID)
		doc.ReviewedBy = &reviewer
	}
	return &doc, nil
}

func nullUserID(v *id.UserID) uuid.NullUUID {
	if v == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*v), Valid: true}
}
