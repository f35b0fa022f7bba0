package models

import (
	"strings"
	"time"

	id "trustnest/pkg/domain"
	dErrors "trustnest/pkg/domain-errors"
)

// WorkType describes how a user spends their working hours.
type WorkType string

const (
	WorkTypeStudent   WorkType = "student"
	WorkTypeRemote    WorkType = "remote"
	WorkTypeOffice    WorkType = "office"
	WorkTypeFreelance WorkType = "freelance"
	WorkTypeOther     WorkType = "other"
)

func (w WorkType) IsValid() bool {
	switch w {
	case WorkTypeStudent, WorkTypeRemote, WorkTypeOffice, WorkTypeFreelance, WorkTypeOther:
		return true
	}
	return false
}

// SleepSchedule describes a user's preferred sleep pattern.
type SleepSchedule string

const (
	SleepScheduleEarlyBird SleepSchedule = "early_bird"
	SleepScheduleNightOwl  SleepSchedule = "night_owl"
	SleepScheduleFlexible  SleepSchedule = "flexible"
)

func (s SleepSchedule) IsValid() bool {
	switch s {
	case SleepScheduleEarlyBird, SleepScheduleNightOwl, SleepScheduleFlexible:
		return true
	}
	return false
}

// SmokingPreference describes tolerance for smoking in the home.
type SmokingPreference string

const (
	SmokingNone       SmokingPreference = "no_smoking"
	SmokingOccasional SmokingPreference = "occasional"
	SmokingRegular    SmokingPreference = "regular"
)

func (s SmokingPreference) IsValid() bool {
	switch s {
	case SmokingNone, SmokingOccasional, SmokingRegular:
		return true
	}
	return false
}

// DrinkingPreference describes tolerance for drinking in the home.
type DrinkingPreference string

const (
	DrinkingNone       DrinkingPreference = "no_drinking"
	DrinkingOccasional DrinkingPreference = "occasional"
	DrinkingRegular    DrinkingPreference = "regular"
)

func (d DrinkingPreference) IsValid() bool {
	switch d {
	case DrinkingNone, DrinkingOccasional, DrinkingRegular:
		return true
	}
	return false
}

// Profile holds one user's roommate preferences. Every preference field is
// optional; a nil pointer means the user has not answered that question yet.
// The compatibility engine treats unset fields as neutral rather than
// penalizing incomplete profiles.
type Profile struct {
	UserID             id.UserID
	BudgetMin          *float64
	BudgetMax          *float64
	WorkType           *WorkType
	SleepSchedule      *SleepSchedule
	CleanlinessLevel   *int
	SmokingPreference  *SmokingPreference
	DrinkingPreference *DrinkingPreference
	PetsAllowed        *bool
	SocialLevel        *int
	Bio                string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Update carries the fields a user may change on their profile. Nil pointers
// leave the stored value untouched, so partial updates are safe.
type Update struct {
	BudgetMin          *float64
	BudgetMax          *float64
	WorkType           *WorkType
	SleepSchedule      *SleepSchedule
	CleanlinessLevel   *int
	SmokingPreference  *SmokingPreference
	DrinkingPreference *DrinkingPreference
	PetsAllowed        *bool
	SocialLevel        *int
	Bio                *string
}

const maxBioLength = 2000

// Validate checks every provided field against its domain constraints.
func (u Update) Validate() error {
	if u.BudgetMin != nil && *u.BudgetMin < 0 {
		return dErrors.New(dErrors.CodeValidation, "budget_min must not be negative")
	}
	if u.BudgetMax != nil && *u.BudgetMax < 0 {
		return dErrors.New(dErrors.CodeValidation, "budget_max must not be negative")
	}
	if u.BudgetMin != nil && u.BudgetMax != nil && *u.BudgetMin > *u.BudgetMax {
		return dErrors.New(dErrors.CodeValidation, "budget_min must not exceed budget_max")
	}
	if u.WorkType != nil && !u.WorkType.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "invalid work_type")
	}
	if u.SleepSchedule != nil && !u.SleepSchedule.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "invalid sleep_schedule")
	}
	if u.CleanlinessLevel != nil && (*u.CleanlinessLevel < 1 || *u.CleanlinessLevel > 5) {
		return dErrors.New(dErrors.CodeValidation, "cleanliness_level must be between 1 and 5")
	}
	if u.SmokingPreference != nil && !u.SmokingPreference.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "invalid smoking_preference")
	}
	if u.DrinkingPreference != nil && !u.DrinkingPreference.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "invalid drinking_preference")
	}
	if u.SocialLevel != nil && (*u.SocialLevel < 1 || *u.SocialLevel > 5) {
		return dErrors.New(dErrors.CodeValidation, "social_level must be between 1 and 5")
	}
	if u.Bio != nil && len(strings.TrimSpace(*u.Bio)) > maxBioLength {
		return dErrors.New(dErrors.CodeValidation, "bio is too long")
	}
	return nil
}

// Apply merges the update into the profile and stamps the mutation time.
func (p *Profile) Apply(u Update, now time.Time) {
	if u.BudgetMin != nil {
		p.BudgetMin = u.BudgetMin
	}
	if u.BudgetMax != nil {
		p.BudgetMax = u.BudgetMax
	}
	if u.WorkType != nil {
		p.WorkType = u.WorkType
	}
	if u.SleepSchedule != nil {
		p.SleepSchedule = u.SleepSchedule
	}
	if u.CleanlinessLevel != nil {
		p.CleanlinessLevel = u.CleanlinessLevel
	}
	if u.SmokingPreference != nil {
		p.SmokingPreference = u.SmokingPreference
	}
	if u.DrinkingPreference != nil {
		p.DrinkingPreference = u.DrinkingPreference
	}
	if u.PetsAllowed != nil {
		p.PetsAllowed = u.PetsAllowed
	}
	if u.SocialLevel != nil {
		p.SocialLevel = u.SocialLevel
	}
	if u.Bio != nil {
		p.Bio = strings.TrimSpace(*u.Bio)
	}
	p.UpdatedAt = now
}

// NewProfile returns an empty profile for a user who has not filled anything
// in yet.
func NewProfile(userID id.UserID, now time.Time) *Profile {
	return &Profile{UserID: userID, CreatedAt: now, UpdatedAt: now}
}
