package domain

import "time"

// ReviewStats summarises a user's collection at a point in time.
type ReviewStats struct {
	TotalCards    int        `json:"total_cards"`
	NewCards      int        `json:"new_cards"`
	ReviewedCards int        `json:"reviewed_cards"`
	DueCards      int        `json:"due_cards"`
	TotalReviews  int        `json:"total_reviews"`
	NextDueAt     *time.Time `json:"next_due_at,omitempty"`
}

// DueNow is the number of cards to review right away: every new card plus
// every reviewed card whose due date has passed.
func (s ReviewStats) DueNow() int {
	return s.NewCards + s.DueCards
}
