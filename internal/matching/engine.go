package matching

import (
	"math"
	"strings"

	profilemodels "trustnest/internal/profile/models"
)

// Dimension weights. They sum to 1.0; budget alignment matters most, pets
// least.
const (
	weightBudget      = 0.25
	weightSchedule    = 0.20
	weightCleanliness = 0.20
	weightLifestyle   = 0.20
	weightPets        = 0.15
)

const budgetTolerance = 0.2

// highScoreThreshold is the sub-score above which a dimension earns a
// mention in the explanation and a pair counts as highly compatible.
const highScoreThreshold = 80

// Engine computes pairwise roommate compatibility from two preference
// profiles. The goal is to keep the scoring rules centralized and testable.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Compute scores two profiles against each other. It is a pure function:
// identical inputs always give identical results, and argument order does not
// change any score.
//
// Unset fields never penalize. Budget, schedule and cleanliness skip the
// comparison entirely and score 100 when either side is unset. Lifestyle and
// pets instead compare under strict equality where two unset values count as
// equal; one set and one unset count as different. The asymmetry is
// deliberate and load-bearing: downstream consumers rely on these exact
// scores.
func (e *Engine) Compute(a, b *profilemodels.Profile) Result {
	budget := budgetScore(a, b)
	schedule := scheduleScore(a, b)
	cleanliness := cleanlinessScore(a, b)
	lifestyle := lifestyleScore(a, b)
	pets := petsScore(a, b)

	weighted := weightBudget*float64(budget) +
		weightSchedule*float64(schedule) +
		weightCleanliness*float64(cleanliness) +
		weightLifestyle*float64(lifestyle) +
		weightPets*float64(pets)

	// Each sub-score is already integral; the overall score is rounded half
	// away from zero exactly once, here.
	overall := int(math.Round(weighted))

	return Result{
		Score:            overall,
		BudgetMatch:      budget,
		ScheduleMatch:    schedule,
		CleanlinessMatch: cleanliness,
		LifestyleMatch:   lifestyle,
		PetsMatch:        pets,
		Explanation:      explain(budget, schedule, cleanliness, lifestyle, pets),
	}
}

// budgetScore compares budget range midpoints. The tolerance scales with the
// larger midpoint, so a 100 EUR gap matters far more at a 400 EUR budget than
// at a 2000 EUR one.
func budgetScore(a, b *profilemodels.Profile) int {
	if a.BudgetMin == nil || a.BudgetMax == nil || b.BudgetMin == nil || b.BudgetMax == nil {
		return 100
	}
	midA := (*a.BudgetMin + *a.BudgetMax) / 2
	midB := (*b.BudgetMin + *b.BudgetMax) / 2
	diff := math.Abs(midA - midB)
	maxDiff := math.Max(midA, midB) * budgetTolerance
	if maxDiff == 0 {
		return 100
	}
	score := 100 - (diff/maxDiff)*100
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return int(math.Round(score))
}

func scheduleScore(a, b *profilemodels.Profile) int {
	if a.SleepSchedule == nil || b.SleepSchedule == nil {
		return 100
	}
	if *a.SleepSchedule == *b.SleepSchedule {
		return 100
	}
	return 50
}

func cleanlinessScore(a, b *profilemodels.Profile) int {
	if a.CleanlinessLevel == nil || b.CleanlinessLevel == nil {
		return 100
	}
	diff := *a.CleanlinessLevel - *b.CleanlinessLevel
	if diff < 0 {
		diff = -diff
	}
	score := 100 - diff*20
	if score < 0 {
		score = 0
	}
	return score
}

func lifestyleScore(a, b *profilemodels.Profile) int {
	score := 0
	if equalPtr(a.SmokingPreference, b.SmokingPreference) {
		score += 50
	}
	if equalPtr(a.DrinkingPreference, b.DrinkingPreference) {
		score += 50
	}
	return score
}

func petsScore(a, b *profilemodels.Profile) int {
	if equalPtr(a.PetsAllowed, b.PetsAllowed) {
		return 100
	}
	return 50
}

// equalPtr is strict equality over optional values: both unset is equal, one
// unset is not.
func equalPtr[T comparable](a, b *T) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

func explain(budget, schedule, cleanliness, lifestyle, pets int) string {
	var reasons []string
	if budget > highScoreThreshold {
		reasons = append(reasons, "Budget compatibility")
	}
	if schedule > highScoreThreshold {
		reasons = append(reasons, "Sleep schedule match")
	}
	if cleanliness > highScoreThreshold {
		reasons = append(reasons, "Cleanliness preferences aligned")
	}
	if lifestyle > highScoreThreshold {
		reasons = append(reasons, "Lifestyle preferences match")
	}
	if pets > highScoreThreshold {
		reasons = append(reasons, "Pet preferences compatible")
	}
	if len(reasons) == 0 {
		return "Some differences in preferences"
	}
	return strings.Join(reasons, ", ")
}

// HighCompatibility reports whether an overall score clears the threshold
// used for surfacing strong matches.
func HighCompatibility(score int) bool {
	return score > highScoreThreshold
}
