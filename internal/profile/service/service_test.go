package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"trustnest/internal/profile/models"
	profilestore "trustnest/internal/profile/store"
	id "trustnest/pkg/domain"
	dErrors "trustnest/pkg/domain-errors"
)

type ServiceSuite struct {
	suite.Suite
	store   *profilestore.InMemoryStore
	service *Service
	userID  id.UserID
	ctx     context.Context
}

func (s *ServiceSuite) SetupTest() {
	s.store = profilestore.NewInMemoryStore()
	s.service = New(s.store)
	s.userID = id.NewUserID()
	s.ctx = context.Background()
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

// TestGetCreatesEmptyProfile verifies lazy creation on first access.
func (s *ServiceSuite) TestGetCreatesEmptyProfile() {
	profile, err := s.service.Get(s.ctx, s.userID)

	s.Require().NoError(err)
	s.Equal(s.userID, profile.UserID)
	s.Nil(profile.BudgetMin)
	s.Nil(profile.SleepSchedule)

	// Second access returns the same profile without re-creating it.
	again, err := s.service.Get(s.ctx, s.userID)
	s.Require().NoError(err)
	s.Equal(profile.CreatedAt, again.CreatedAt)
}

// TestPartialUpdateKeepsOtherFields verifies nil update fields leave stored
// values untouched.
func (s *ServiceSuite) TestPartialUpdateKeepsOtherFields() {
	sleep := models.SleepScheduleNightOwl
	_, err := s.service.Update(s.ctx, s.userID, models.Update{
		BudgetMin:     floatPtr(600),
		BudgetMax:     floatPtr(900),
		SleepSchedule: &sleep,
	})
	s.Require().NoError(err)

	profile, err := s.service.Update(s.ctx, s.userID, models.Update{
		CleanlinessLevel: intPtr(4),
	})

	s.Require().NoError(err)
	s.Require().NotNil(profile.BudgetMin)
	s.Equal(600.0, *profile.BudgetMin)
	s.Require().NotNil(profile.SleepSchedule)
	s.Equal(models.SleepScheduleNightOwl, *profile.SleepSchedule)
	s.Require().NotNil(profile.CleanlinessLevel)
	s.Equal(4, *profile.CleanlinessLevel)
}

// TestUpdateValidation verifies field-level validation failures.
func (s *ServiceSuite) TestUpdateValidation() {
	cases := []struct {
		name   string
		update models.Update
	}{
		{"negative budget", models.Update{BudgetMin: floatPtr(-1)}},
		{"inverted budget", models.Update{BudgetMin: floatPtr(900), BudgetMax: floatPtr(600)}},
		{"cleanliness out of range", models.Update{CleanlinessLevel: intPtr(6)}},
		{"social out of range", models.Update{SocialLevel: intPtr(0)}},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, err := s.service.Update(s.ctx, s.userID, tc.update)
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}

// TestCrossFieldBudgetCheck verifies a partial update that inverts the stored
// budget range is rejected.
func (s *ServiceSuite) TestCrossFieldBudgetCheck() {
	_, err := s.service.Update(s.ctx, s.userID, models.Update{
		BudgetMin: floatPtr(600),
		BudgetMax: floatPtr(900),
	})
	s.Require().NoError(err)

	_, err = s.service.Update(s.ctx, s.userID, models.Update{
		BudgetMax: floatPtr(500),
	})

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	// The stored profile keeps the previous consistent range.
	profile, err := s.service.Get(s.ctx, s.userID)
	s.Require().NoError(err)
	s.Equal(900.0, *profile.BudgetMax)
}

// TestLookupDoesNotCreate verifies the engine-facing read fails on missing
// profiles instead of substituting a blank one.
func (s *ServiceSuite) TestLookupDoesNotCreate() {
	_, err := s.service.Lookup(s.ctx, s.userID)

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

// TestBioTrimmed verifies bio whitespace handling.
func (s *ServiceSuite) TestBioTrimmed() {
	bio := "  looking for a quiet flatmate  "
	profile, err := s.service.Update(s.ctx, s.userID, models.Update{Bio: &bio})

	s.Require().NoError(err)
	s.Equal("looking for a quiet flatmate", profile.Bio)
}
