package handler

import (
	"time"

	"trustnest/internal/matching"
)

type resultResponse struct {
	Score            int    `json:"score"`
	BudgetMatch      int    `json:"budget_match"`
	ScheduleMatch    int    `json:"schedule_match"`
	CleanlinessMatch int    `json:"cleanliness_match"`
	LifestyleMatch   int    `json:"lifestyle_match"`
	PetsMatch        int    `json:"pets_match"`
	Explanation      string `json:"explanation"`
}

func toResultResponse(r *matching.Result) resultResponse {
	return resultResponse{
		Score:            r.Score,
		BudgetMatch:      r.BudgetMatch,
		ScheduleMatch:    r.ScheduleMatch,
		CleanlinessMatch: r.CleanlinessMatch,
		LifestyleMatch:   r.LifestyleMatch,
		PetsMatch:        r.PetsMatch,
		Explanation:      r.Explanation,
	}
}

type matchResponse struct {
	ID        string         `json:"id"`
	UserA     string         `json:"user_a"`
	UserB     string         `json:"user_b"`
	Result    resultResponse `json:"result"`
	CreatedAt string         `json:"created_at"`
}

type historyResponse struct {
	Matches []matchResponse `json:"matches"`
}

func toHistoryResponse(matches []*matching.Match) historyResponse {
	out := historyResponse{Matches: make([]matchResponse, 0, len(matches))}
	for _, m := range matches {
		out.Matches = append(out.Matches, matchResponse{
			ID:        m.ID.String(),
			UserA:     m.UserA.String(),
			UserB:     m.UserB.String(),
			Result:    toResultResponse(&m.Result),
			CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}
