package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"trustnest/internal/profile/models"
	id "trustnest/pkg/domain"
	"trustnest/pkg/platform/sentinel"
)

// PostgresStore persists preference profiles in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed profile store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Find(ctx context.Context, userID id.UserID) (*models.Profile, error) {
	query := `
		SELECT user_id, budget_min, budget_max, work_type, sleep_schedule,
		       cleanliness_level, smoking_preference, drinking_preference,
		       pets_allowed, social_level, bio, created_at, updated_at
		FROM preference_profiles
		WHERE user_id = $1
	`
	row := s.db.QueryRowContext(ctx, query, uuid.UUID(userID))

	var (
		p          models.Profile
		rawUserID  uuid.UUID
		budgetMin  sql.NullFloat64
		budgetMax  sql.NullFloat64
		workType   sql.NullString
		sleep      sql.NullString
		clean      sql.NullInt64
		smoking    sql.NullString
		drinking   sql.NullString
		pets       sql.NullBool
		social     sql.NullInt64
		bio        sql.NullString
	)
	err := row.Scan(&rawUserID, &budgetMin, &budgetMax, &workType, &sleep,
		&clean, &smoking, &drinking, &pets, &social, &bio,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}

	p.UserID = id.UserID(rawUserID)
	if budgetMin.Valid {
		p.BudgetMin = &budgetMin.Float64
	}
	if budgetMax.Valid {
		p.BudgetMax = &budgetMax.Float64
	}
	if workType.Valid {
		w := models.WorkType(workType.String)
		p.WorkType = &w
	}
	if sleep.Valid {
		v := models.SleepSchedule(sleep.String)
		p.SleepSchedule = &v
	}
	if clean.Valid {
		v := int(clean.Int64)
		p.CleanlinessLevel = &v
	}
	if smoking.Valid {
		v := models.SmokingPreference(smoking.String)
		p.SmokingPreference = &v
	}
	if drinking.Valid {
		v := models.DrinkingPreference(drinking.String)
		p.DrinkingPreference = &v
	}
	if pets.Valid {
		p.PetsAllowed = &pets.Bool
	}
	if social.Valid {
		v := int(social.Int64)
		p.SocialLevel = &v
	}
	if bio.Valid {
		p.Bio = bio.String
	}
	return &p, nil
}

func (s *PostgresStore) Save(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO preference_profiles (
			user_id, budget_min, budget_max, work_type, sleep_schedule,
			cleanliness_level, smoking_preference, drinking_preference,
			pets_allowed, social_level, bio, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (user_id) DO UPDATE SET
			budget_min = EXCLUDED.budget_min,
			budget_max = EXCLUDED.budget_max,
			work_type = EXCLUDED.work_type,
			sleep_schedule = EXCLUDED.sleep_schedule,
			cleanliness_level = EXCLUDED.cleanliness_level,
			smoking_preference = EXCLUDED.smoking_preference,
			drinking_preference = EXCLUDED.drinking_preference,
			pets_allowed = EXCLUDED.pets_allowed,
			social_level = EXCLUDED.social_level,
			bio = EXCLUDED.bio,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(profile.UserID),
		nullFloat(profile.BudgetMin),
		nullFloat(profile.BudgetMax),
		nullEnum(profile.WorkType),
		nullEnum(profile.SleepSchedule),
		nullIntPtr(profile.CleanlinessLevel),
		nullEnum(profile.SmokingPreference),
		nullEnum(profile.DrinkingPreference),
		nullBool(profile.PetsAllowed),
		nullIntPtr(profile.SocialLevel),
		profile.Bio,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullIntPtr(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullBool(v *bool) sql.NullBool {
	if v == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *v, Valid: true}
}

func nullEnum[T ~string](v *T) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*v), Valid: true}
}
