package matching

import (
	"time"

	id "trustnest/pkg/domain"
)

// Result is a pairwise compatibility breakdown. All scores are integers in
// [0, 100]. The overall score is a fixed weighted average of the five
// sub-scores. Results are immutable; a fresh computation produces a new
// value and never mutates a prior one.
type Result struct {
	Score            int
	BudgetMatch      int
	ScheduleMatch    int
	CleanlinessMatch int
	LifestyleMatch   int
	PetsMatch        int
	Explanation      string
}

// Match is a persisted historical computation between two users. Appended on
// every computation, never upserted, so history reflects profile drift over
// time.
type Match struct {
	ID        id.MatchID
	UserA     id.UserID
	UserB     id.UserID
	Result    Result
	CreatedAt time.Time
}
