package handler

import (
	"trustnest/internal/profile/models"
)

// updateProfileRequest is a partial update; omitted fields are left untouched.
type updateProfileRequest struct {
	BudgetMin          *float64 `json:"budget_min"`
	BudgetMax          *float64 `json:"budget_max"`
	WorkType           *string  `json:"work_type"`
	SleepSchedule      *string  `json:"sleep_schedule"`
	CleanlinessLevel   *int     `json:"cleanliness_level"`
	SmokingPreference  *string  `json:"smoking_preference"`
	DrinkingPreference *string  `json:"drinking_preference"`
	PetsAllowed        *bool    `json:"pets_allowed"`
	SocialLevel        *int     `json:"social_level"`
	Bio                *string  `json:"bio"`
}

func (r updateProfileRequest) toUpdate() models.Update {
	u := models.Update{
		BudgetMin:        r.BudgetMin,
		BudgetMax:        r.BudgetMax,
		CleanlinessLevel: r.CleanlinessLevel,
		PetsAllowed:      r.PetsAllowed,
		SocialLevel:      r.SocialLevel,
		Bio:              r.Bio,
	}
	if r.WorkType != nil {
		w := models.WorkType(*r.WorkType)
		u.WorkType = &w
	}
	if r.SleepSchedule != nil {
		s := models.SleepSchedule(*r.SleepSchedule)
		u.SleepSchedule = &s
	}
	if r.SmokingPreference != nil {
		s := models.SmokingPreference(*r.SmokingPreference)
		u.SmokingPreference = &s
	}
	if r.DrinkingPreference != nil {
		d := models.DrinkingPreference(*r.DrinkingPreference)
		u.DrinkingPreference = &d
	}
	return u
}

type profileResponse struct {
	UserID             string   `json:"user_id"`
	BudgetMin          *float64 `json:"budget_min,omitempty"`
	BudgetMax          *float64 `json:"budget_max,omitempty"`
	WorkType           *string  `json:"work_type,omitempty"`
	SleepSchedule      *string  `json:"sleep_schedule,omitempty"`
	CleanlinessLevel   *int     `json:"cleanliness_level,omitempty"`
	SmokingPreference  *string  `json:"smoking_preference,omitempty"`
	DrinkingPreference *string  `json:"drinking_preference,omitempty"`
	PetsAllowed        *bool    `json:"pets_allowed,omitempty"`
	SocialLevel        *int     `json:"social_level,omitempty"`
	Bio                string   `json:"bio,omitempty"`
	CreatedAt          string   `json:"created_at"`
	UpdatedAt          string   `json:"updated_at"`
}

func toProfileResponse(p *models.Profile) profileResponse {
	resp := profileResponse{
		UserID:           p.UserID.String(),
		BudgetMin:        p.BudgetMin,
		BudgetMax:        p.BudgetMax,
		CleanlinessLevel: p.CleanlinessLevel,
		PetsAllowed:      p.PetsAllowed,
		SocialLevel:      p.SocialLevel,
		Bio:              p.Bio,
		CreatedAt:        p.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt:        p.UpdatedAt.UTC().Format(timeFormat),
	}
	if p.WorkType != nil {
		s := string(*p.WorkType)
		resp.WorkType = &s
	}
	if p.SleepSchedule != nil {
		s := string(*p.SleepSchedule)
		resp.SleepSchedule = &s
	}
	if p.SmokingPreference != nil {
		s := string(*p.SmokingPreference)
		resp.SmokingPreference = &s
	}
	if p.DrinkingPreference != nil {
		s := string(*p.DrinkingPreference)
		resp.DrinkingPreference = &s
	}
	return resp
}
