package models

import "time"

type Expense struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Amount      float64   `json:"amount"`
	Date        string    `json:"date"` // calendar date, YYYY-MM-DD
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ExpenseRequest is the payload for both add and update; updates overwrite
// all four fields.
type ExpenseRequest struct {
	Description string  `json:"description" binding:"required"`
	Category    string  `json:"category" binding:"required"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date" binding:"required"`
}

type SpendingTotals struct {
	Total   float64 `json:"total"`
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

// CategoryStat aggregates one category of a user's expense history.
type CategoryStat struct {
	Total float64 `json:"total"`
	Count int     `json:"count"`
}
