package matching

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"trustnest/internal/profile/models"
)

type EngineSuite struct {
	suite.Suite
	engine *Engine
}

func (s *EngineSuite) SetupTest() {
	s.engine = NewEngine()
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func fullProfile() *models.Profile {
	budgetMin := 500.0
	budgetMax := 1000.0
	sleep := models.SleepScheduleFlexible
	clean := 4
	smoking := models.SmokingNone
	drinking := models.DrinkingOccasional
	pets := true
	return &models.Profile{
		BudgetMin:          &budgetMin,
		BudgetMax:          &budgetMax,
		SleepSchedule:      &sleep,
		CleanlinessLevel:   &clean,
		SmokingPreference:  &smoking,
		DrinkingPreference: &drinking,
		PetsAllowed:        &pets,
	}
}

// TestIdenticalProfiles verifies that identical preferences always yield a
// perfect score.
func (s *EngineSuite) TestIdenticalProfiles() {
	a := fullProfile()
	b := fullProfile()

	result := s.engine.Compute(a, b)

	s.Equal(100, result.Score)
	s.Equal(100, result.BudgetMatch)
	s.Equal(100, result.ScheduleMatch)
	s.Equal(100, result.CleanlinessMatch)
	s.Equal(100, result.LifestyleMatch)
	s.Equal(100, result.PetsMatch)
}

// TestEmptyProfiles verifies the default-to-compatible policy for profiles
// with nothing filled in.
func (s *EngineSuite) TestEmptyProfiles() {
	result := s.engine.Compute(&models.Profile{}, &models.Profile{})

	s.Equal(100, result.BudgetMatch)
	s.Equal(100, result.ScheduleMatch)
	s.Equal(100, result.CleanlinessMatch)
	s.Equal(100, result.LifestyleMatch)
	s.Equal(100, result.PetsMatch)
	s.Equal(100, result.Score)
}

// TestBudgetSymmetry verifies argument order does not change the budget
// score.
func (s *EngineSuite) TestBudgetSymmetry() {
	a := fullProfile()
	b := fullProfile()
	*b.BudgetMin = 1200
	*b.BudgetMax = 1800

	forward := s.engine.Compute(a, b)
	backward := s.engine.Compute(b, a)

	s.Equal(forward.BudgetMatch, backward.BudgetMatch)
	s.Equal(forward.Score, backward.Score)
}

func (s *EngineSuite) TestBudgetEdgeCases() {
	s.Run("zero midpoints score 100", func() {
		zero := 0.0
		a := &models.Profile{BudgetMin: &zero, BudgetMax: &zero}
		b := &models.Profile{BudgetMin: &zero, BudgetMax: &zero}
		s.Equal(100, s.engine.Compute(a, b).BudgetMatch)
	})

	s.Run("partially set budget is neutral", func() {
		min := 500.0
		a := &models.Profile{BudgetMin: &min}
		b := fullProfile()
		s.Equal(100, s.engine.Compute(a, b).BudgetMatch)
	})

	s.Run("far apart budgets floor at zero", func() {
		a := fullProfile()
		b := fullProfile()
		*b.BudgetMin = 10000
		*b.BudgetMax = 20000
		s.Equal(0, s.engine.Compute(a, b).BudgetMatch)
	})
}

func (s *EngineSuite) TestCleanliness() {
	s.Run("two level gap scores 60", func() {
		a := fullProfile()
		b := fullProfile()
		*a.CleanlinessLevel = 3
		*b.CleanlinessLevel = 5
		s.Equal(60, s.engine.Compute(a, b).CleanlinessMatch)
	})

	s.Run("equal levels score 100", func() {
		a := fullProfile()
		b := fullProfile()
		s.Equal(100, s.engine.Compute(a, b).CleanlinessMatch)
	})

	s.Run("maximum gap stays non-negative", func() {
		a := fullProfile()
		b := fullProfile()
		*a.CleanlinessLevel = 1
		*b.CleanlinessLevel = 5
		s.Equal(20, s.engine.Compute(a, b).CleanlinessMatch)
	})
}

// TestLifestyleStrictEquality verifies lifestyle compares under strict
// equality: both unset counts as equal, one unset counts as different.
func (s *EngineSuite) TestLifestyleStrictEquality() {
	s.Run("both unset scores 100", func() {
		s.Equal(100, s.engine.Compute(&models.Profile{}, &models.Profile{}).LifestyleMatch)
	})

	s.Run("one side unset scores 0", func() {
		smoking := models.SmokingNone
		drinking := models.DrinkingNone
		a := &models.Profile{SmokingPreference: &smoking, DrinkingPreference: &drinking}
		s.Equal(0, s.engine.Compute(a, &models.Profile{}).LifestyleMatch)
	})

	s.Run("half agreement scores 50", func() {
		a := fullProfile()
		b := fullProfile()
		other := models.SmokingRegular
		b.SmokingPreference = &other
		s.Equal(50, s.engine.Compute(a, b).LifestyleMatch)
	})
}

func (s *EngineSuite) TestPets() {
	s.Run("disagreement scores 50", func() {
		a := fullProfile()
		b := fullProfile()
		noPets := false
		b.PetsAllowed = &noPets
		s.Equal(50, s.engine.Compute(a, b).PetsMatch)
	})

	s.Run("both unset scores 100", func() {
		s.Equal(100, s.engine.Compute(&models.Profile{}, &models.Profile{}).PetsMatch)
	})
}

// TestScoreBounds verifies the overall score stays in [0, 100] across a
// sweep of hostile combinations.
func (s *EngineSuite) TestScoreBounds() {
	profiles := []*models.Profile{
		{},
		fullProfile(),
	}
	min := 0.0
	max := 50000.0
	clean1 := 1
	clean5 := 5
	smoking := models.SmokingRegular
	pets := false
	profiles = append(profiles, &models.Profile{
		BudgetMin:         &min,
		BudgetMax:         &max,
		CleanlinessLevel:  &clean1,
		SmokingPreference: &smoking,
		PetsAllowed:       &pets,
	})
	profiles = append(profiles, &models.Profile{CleanlinessLevel: &clean5})

	for _, a := range profiles {
		for _, b := range profiles {
			result := s.engine.Compute(a, b)
			s.GreaterOrEqual(result.Score, 0)
			s.LessOrEqual(result.Score, 100)
			for _, sub := range []int{
				result.BudgetMatch, result.ScheduleMatch, result.CleanlinessMatch,
				result.LifestyleMatch, result.PetsMatch,
			} {
				s.GreaterOrEqual(sub, 0)
				s.LessOrEqual(sub, 100)
			}
		}
	}
}

// TestCloseMatchScenario exercises two near-identical renters.
func (s *EngineSuite) TestCloseMatchScenario() {
	a := fullProfile()

	b := fullProfile()
	*b.BudgetMin = 550
	*b.BudgetMax = 950

	result := s.engine.Compute(a, b)

	s.Equal(100, result.ScheduleMatch)
	s.Equal(100, result.CleanlinessMatch)
	s.Equal(100, result.LifestyleMatch)
	s.Equal(100, result.PetsMatch)
	s.Greater(result.BudgetMatch, 80)
	s.Greater(result.Score, 80)
	s.True(HighCompatibility(result.Score))
}

// TestOppositeScenario exercises two thoroughly incompatible renters.
func (s *EngineSuite) TestOppositeScenario() {
	budgetMinC, budgetMaxC := 500.0, 700.0
	sleepC := models.SleepScheduleEarlyBird
	cleanC := 5
	smokingC := models.SmokingNone
	drinkingC := models.DrinkingNone
	petsC := false
	c := &models.Profile{
		BudgetMin: &budgetMinC, BudgetMax: &budgetMaxC,
		SleepSchedule: &sleepC, CleanlinessLevel: &cleanC,
		SmokingPreference: &smokingC, DrinkingPreference: &drinkingC,
		PetsAllowed: &petsC,
	}

	budgetMinD, budgetMaxD := 1500.0, 2000.0
	sleepD := models.SleepScheduleNightOwl
	cleanD := 1
	smokingD := models.SmokingRegular
	drinkingD := models.DrinkingRegular
	petsD := true
	d := &models.Profile{
		BudgetMin: &budgetMinD, BudgetMax: &budgetMaxD,
		SleepSchedule: &sleepD, CleanlinessLevel: &cleanD,
		SmokingPreference: &smokingD, DrinkingPreference: &drinkingD,
		PetsAllowed: &petsD,
	}

	result := s.engine.Compute(c, d)

	s.Less(result.Score, 50)
	s.Less(result.BudgetMatch, 50)
	s.Less(result.ScheduleMatch, 100)
	s.Equal("Some differences in preferences", result.Explanation)
}

func (s *EngineSuite) TestExplanation() {
	s.Run("lists every strong dimension", func() {
		result := s.engine.Compute(fullProfile(), fullProfile())
		s.Equal(
			"Budget compatibility, Sleep schedule match, Cleanliness preferences aligned, Lifestyle preferences match, Pet preferences compatible",
			result.Explanation,
		)
	})

	s.Run("schedule mismatch drops its label", func() {
		a := fullProfile()
		b := fullProfile()
		owl := models.SleepScheduleNightOwl
		b.SleepSchedule = &owl
		result := s.engine.Compute(a, b)
		s.NotContains(result.Explanation, "Sleep schedule match")
		s.Contains(result.Explanation, "Budget compatibility")
	})
}
