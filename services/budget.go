package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trackspend/expense-api/models"
)

type BudgetService struct {
	db *sql.DB
}

func NewBudgetService(db *sql.DB) *BudgetService {
	return &BudgetService{db: db}
}

// Set upserts the budget for (user, category). The whole check-then-act runs
// as one INSERT ... ON CONFLICT statement against the UNIQUE(user_id,
// category) index, so two concurrent calls cannot both insert; the loser
// updates the winner's row in place, preserving id and created_at.
//
// The returned bool reports whether a new budget was created.
func (s *BudgetService) Set(ctx context.Context, userID, category string, amount float64) (*models.Budget, bool, error) {
	if strings.TrimSpace(category) == "" {
		return nil, false, invalid("Category is required.")
	}
	if amount < 0 {
		return nil, false, invalid("Amount must not be negative.")
	}
	if err := userExists(ctx, s.db, userID); err != nil {
		return nil, false, err
	}

	now := time.Now().UTC()
	newID := uuid.New().String()

	budget := models.Budget{
		UserID:   userID,
		Category: category,
		Amount:   amount,
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO budgets (id, user_id, category, amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, category) DO UPDATE
		SET amount = excluded.amount, updated_at = excluded.updated_at
		RETURNING id, created_at, updated_at
	`, newID, userID, category, amount, now, now).Scan(&budget.ID, &budget.CreatedAt, &budget.UpdatedAt)
	if err != nil {
		return nil, false, err
	}

	return &budget, budget.ID == newID, nil
}

func (s *BudgetService) List(ctx context.Context, userID string) ([]models.Budget, error) {
	if err := userExists(ctx, s.db, userID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, category, amount, created_at, updated_at
		FROM budgets
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	budgets := make([]models.Budget, 0)
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &b.Amount, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// ListWithSpending joins each budget with the sum of the user's expenses in
// the same category (exact, case-sensitive match).
func (s *BudgetService) ListWithSpending(ctx context.Context, userID string) ([]models.BudgetWithSpending, error) {
	if err := userExists(ctx, s.db, userID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id, b.category, b.amount, COALESCE(SUM(e.amount), 0)
		FROM budgets b
		LEFT JOIN expenses e ON e.user_id = b.user_id AND e.category = b.category
		WHERE b.user_id = $1
		GROUP BY b.id, b.category, b.amount, b.created_at
		ORDER BY b.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]models.BudgetWithSpending, 0)
	for rows.Next() {
		var entry models.BudgetWithSpending
		if err := rows.Scan(&entry.ID, &entry.Category, &entry.Amount, &entry.Spent); err != nil {
			return nil, err
		}
		entry.Remaining, entry.Percentage = budgetProgress(entry.Amount, entry.Spent)
		result = append(result, entry)
	}
	return result, rows.Err()
}

// budgetProgress derives remaining and percentage consumed. A zero-amount
// budget never yields NaN or Inf: percentage is 0 while nothing is spent and
// 100 once anything is.
func budgetProgress(amount, spent float64) (remaining, percentage float64) {
	remaining = amount - spent
	switch {
	case amount != 0:
		percentage = spent / amount * 100
	case spent != 0:
		percentage = 100
	}
	return remaining, percentage
}

// Update replaces the amount only. The budget must belong to the calling
// user.
func (s *BudgetService) Update(ctx context.Context, userID, budgetID string, amount float64) (*models.Budget, error) {
	if amount < 0 {
		return nil, invalid("Amount must not be negative.")
	}

	budget, err := s.getOwned(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}

	budget.Amount = amount
	budget.UpdatedAt = time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `
		UPDATE budgets
		SET amount = $1, updated_at = $2
		WHERE id = $3
	`, budget.Amount, budget.UpdatedAt, budget.ID)
	if err != nil {
		return nil, err
	}

	return budget, nil
}

func (s *BudgetService) Delete(ctx context.Context, userID, budgetID string) error {
	budget, err := s.getOwned(ctx, userID, budgetID)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = $1`, budget.ID)
	return err
}

func (s *BudgetService) getOwned(ctx context.Context, userID, budgetID string) (*models.Budget, error) {
	var b models.Budget
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, category, amount, created_at, updated_at
		FROM budgets
		WHERE id = $1
	`, budgetID).Scan(&b.ID, &b.UserID, &b.Category, &b.Amount, &b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, notFound("Budget not found.")
	}
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, forbidden("Budget belongs to a different user.")
	}
	return &b, nil
}
