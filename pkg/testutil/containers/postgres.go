//go:build integration

package containers

import (
	"context"
	"database/sql"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	_ "github.com/lib/pq"
)

// PostgresContainer wraps a testcontainers PostgreSQL instance.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

// NewPostgresContainer starts a PostgreSQL container and applies the schema.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("trustnest"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres connection: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to ping postgres: %v", err)
	}

	pc := &PostgresContainer{
		Container: container,
		DSN:       dsn,
		DB:        db,
	}
	pc.applySchema(t)
	return pc
}

// TruncateAll empties every table. Use between tests to ensure isolation.
func (p *PostgresContainer) TruncateAll(ctx context.Context) error {
	_, err := p.DB.ExecContext(ctx, `
		TRUNCATE preference_profiles, matches, verification_records, documents,
			risk_flags, user_moderation, audit_entries, audit_outbox
	`)
	return err
}

func (p *PostgresContainer) applySchema(t *testing.T) {
	t.Helper()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS preference_profiles (
			user_id UUID PRIMARY KEY,
			budget_min DOUBLE PRECISION,
			budget_max DOUBLE PRECISION,
			work_type TEXT,
			sleep_schedule TEXT,
			cleanliness_level INT,
			smoking_preference TEXT,
			drinking_preference TEXT,
			pets_allowed BOOLEAN,
			social_level INT,
			bio TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS matches (
			id UUID PRIMARY KEY,
			user_a UUID NOT NULL,
			user_b UUID NOT NULL,
			score INT NOT NULL,
			budget_match INT NOT NULL,
			schedule_match INT NOT NULL,
			cleanliness_match INT NOT NULL,
			lifestyle_match INT NOT NULL,
			pets_match INT NOT NULL,
			explanation TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS matches_user_a_idx ON matches (user_a, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS matches_user_b_idx ON matches (user_b, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS verification_records (
			user_id UUID PRIMARY KEY,
			status TEXT NOT NULL,
			trust_badge TEXT NOT NULL,
			email_verified BOOLEAN NOT NULL DEFAULT FALSE,
			email_verified_at TIMESTAMPTZ,
			phone_verified BOOLEAN NOT NULL DEFAULT FALSE,
			phone_verified_at TIMESTAMPTZ,
			id_verified BOOLEAN NOT NULL DEFAULT FALSE,
			id_verified_at TIMESTAMPTZ,
			selfie_verified BOOLEAN NOT NULL DEFAULT FALSE,
			selfie_verified_at TIMESTAMPTZ,
			phone_otp_attempts INT NOT NULL DEFAULT 0,
			reviewed_by UUID,
			reviewed_at TIMESTAMPTZ,
			rejection_reason TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS documents (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			document_type TEXT NOT NULL,
			storage_key TEXT NOT NULL,
			mime_type TEXT NOT NULL,
			size_bytes BIGINT NOT NULL,
			review_state TEXT NOT NULL,
			reviewed_by UUID,
			reviewed_at TIMESTAMPTZ,
			uploaded_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS documents_user_idx ON documents (user_id, uploaded_at DESC)`,
		`CREATE TABLE IF NOT EXISTS risk_flags (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			flagged_by UUID NOT NULL,
			reason TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			resolved_by UUID,
			resolved_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS user_moderation (
			user_id UUID PRIMARY KEY,
			suspended BOOLEAN NOT NULL,
			reason TEXT NOT NULL DEFAULT '',
			suspended_by UUID,
			suspended_at TIMESTAMPTZ,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS audit_entries (
			id UUID PRIMARY KEY,
			admin_id UUID NOT NULL,
			action TEXT NOT NULL,
			target_user_id UUID,
			target_type TEXT NOT NULL,
			target_id TEXT NOT NULL,
			details JSONB,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS audit_outbox (
			id UUID PRIMARY KEY,
			aggregate_id UUID NOT NULL,
			event_type TEXT NOT NULL,
			payload JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			published_at TIMESTAMPTZ
		)`,
	}

	for _, stmt := range statements {
		if _, err := p.DB.Exec(stmt); err != nil {
			t.Fatalf("failed to apply schema: %v", err)
		}
	}
}
