package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	matchingstore "trustnest/internal/matching/store"
	profilemodels "trustnest/internal/profile/models"
	profileservice "trustnest/internal/profile/service"
	profilestore "trustnest/internal/profile/store"
	id "trustnest/pkg/domain"
	dErrors "trustnest/pkg/domain-errors"
)

type ServiceSuite struct {
	suite.Suite
	profiles *profileservice.Service
	matches  *matchingstore.InMemoryStore
	service  *Service
	userA    id.UserID
	userB    id.UserID
	ctx      context.Context
}

func (s *ServiceSuite) SetupTest() {
	s.profiles = profileservice.New(profilestore.NewInMemoryStore())
	s.matches = matchingstore.NewInMemoryStore()
	s.service = New(s.profiles, s.matches)
	s.userA = id.NewUserID()
	s.userB = id.NewUserID()
	s.ctx = context.Background()
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) seedProfile(userID id.UserID) {
	min, max := 600.0, 900.0
	_, err := s.profiles.Update(s.ctx, userID, profilemodels.Update{
		BudgetMin: &min,
		BudgetMax: &max,
	})
	s.Require().NoError(err)
}

// TestComputePersistsMatch verifies a computation appends exactly one match
// visible from both users' history.
func (s *ServiceSuite) TestComputePersistsMatch() {
	s.seedProfile(s.userA)
	s.seedProfile(s.userB)

	result, err := s.service.Compute(s.ctx, s.userA, s.userB)
	s.Require().NoError(err)
	s.Equal(100, result.Score)

	for _, userID := range []id.UserID{s.userA, s.userB} {
		history, err := s.service.History(s.ctx, userID, 10)
		s.Require().NoError(err)
		s.Require().Len(history, 1)
		s.Equal(result.Score, history[0].Result.Score)
	}
}

// TestComputeRejectsSelfMatch verifies the self-match validation failure.
func (s *ServiceSuite) TestComputeRejectsSelfMatch() {
	s.seedProfile(s.userA)

	_, err := s.service.Compute(s.ctx, s.userA, s.userA)

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

// TestComputeRequiresBothProfiles verifies a missing profile on either side
// fails the computation without persisting anything.
func (s *ServiceSuite) TestComputeRequiresBothProfiles() {
	s.seedProfile(s.userA)

	_, err := s.service.Compute(s.ctx, s.userA, s.userB)

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	history, err := s.service.History(s.ctx, s.userA, 10)
	s.Require().NoError(err)
	s.Empty(history)
}

// rendezvousLookup only returns once both profile fetches have started, so a
// sequential caller fails with a timeout instead of completing.
type rendezvousLookup struct {
	arrived chan struct{}
	release chan struct{}
}

func newRendezvousLookup() *rendezvousLookup {
	return &rendezvousLookup{
		arrived: make(chan struct{}, 2),
		release: make(chan struct{}),
	}
}

func (l *rendezvousLookup) Lookup(_ context.Context, userID id.UserID) (*profilemodels.Profile, error) {
	l.arrived <- struct{}{}
	select {
	case <-l.release:
		return &profilemodels.Profile{UserID: userID}, nil
	case <-time.After(2 * time.Second):
		return nil, errors.New("profile lookups did not overlap")
	}
}

// TestComputeFetchesProfilesConcurrently verifies the two profile lookups run
// in parallel rather than one after the other.
func (s *ServiceSuite) TestComputeFetchesProfilesConcurrently() {
	lookup := newRendezvousLookup()
	service := New(lookup, matchingstore.NewInMemoryStore())

	go func() {
		for i := 0; i < 2; i++ {
			select {
			case <-lookup.arrived:
			case <-time.After(2 * time.Second):
				return
			}
		}
		close(lookup.release)
	}()

	result, err := service.Compute(s.ctx, s.userA, s.userB)

	s.Require().NoError(err)
	s.Equal(100, result.Score)
}

// TestHistoryNewestFirst verifies history ordering and the limit.
func (s *ServiceSuite) TestHistoryNewestFirst() {
	s.seedProfile(s.userA)
	s.seedProfile(s.userB)
	userC := id.NewUserID()
	s.seedProfile(userC)

	_, err := s.service.Compute(s.ctx, s.userA, s.userB)
	s.Require().NoError(err)
	_, err = s.service.Compute(s.ctx, s.userA, userC)
	s.Require().NoError(err)

	history, err := s.service.History(s.ctx, s.userA, 10)
	s.Require().NoError(err)
	s.Require().Len(history, 2)
	s.Equal(userC, history[0].UserB)

	limited, err := s.service.History(s.ctx, s.userA, 1)
	s.Require().NoError(err)
	s.Len(limited, 1)
}
