package models

import "time"

type Budget struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Category  string    `json:"category"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SetBudgetRequest struct {
	Category string  `json:"category" binding:"required"`
	Amount   float64 `json:"amount"`
}

type UpdateBudgetRequest struct {
	Amount float64 `json:"amount"`
}

// BudgetWithSpending is a budget joined with the owner's expenses for the
// same category.
type BudgetWithSpending struct {
	ID         string  `json:"id"`
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Spent      float64 `json:"spent"`
	Remaining  float64 `json:"remaining"`
	Percentage float64 `json:"percentage"`
}
