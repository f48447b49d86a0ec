package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trackspend/expense-api/models"
)

// Category matching policy: categories are case-sensitive identifiers
// wherever they act as keys (grouping, the budget upsert key, the
// budget/expense spending join). The single exception is ListByCategory,
// which filters case-insensitively as a search convenience.

type ExpenseService struct {
	db *sql.DB
}

func NewExpenseService(db *sql.DB) *ExpenseService {
	return &ExpenseService{db: db}
}

const expenseColumns = `id, user_id, description, category, amount, expense_date, created_at, updated_at`

func scanExpense(row interface{ Scan(...any) error }) (*models.Expense, error) {
	var e models.Expense
	err := row.Scan(&e.ID, &e.UserID, &e.Description, &e.Category, &e.Amount, &e.Date, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func validateExpenseFields(req models.ExpenseRequest) error {
	if strings.TrimSpace(req.Description) == "" {
		return invalid("Description is required.")
	}
	if strings.TrimSpace(req.Category) == "" {
		return invalid("Category is required.")
	}
	if req.Amount < 0 {
		return invalid("Amount must not be negative.")
	}
	if _, err := time.Parse(time.DateOnly, req.Date); err != nil {
		return invalid("Date must be a calendar date in YYYY-MM-DD format.")
	}
	return nil
}

func (s *ExpenseService) Add(ctx context.Context, userID string, req models.ExpenseRequest) (*models.Expense, error) {
	if err := validateExpenseFields(req); err != nil {
		return nil, err
	}
	if err := userExists(ctx, s.db, userID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	expense := models.Expense{
		ID:          uuid.New().String(),
		UserID:      userID,
		Description: req.Description,
		Category:    req.Category,
		Amount:      req.Amount,
		Date:        req.Date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (id, user_id, description, category, amount, expense_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, expense.ID, expense.UserID, expense.Description, expense.Category, expense.Amount, expense.Date, expense.CreatedAt, expense.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return &expense, nil
}

func (s *ExpenseService) List(ctx context.Context, userID string) ([]models.Expense, error) {
	if err := userExists(ctx, s.db, userID); err != nil {
		return nil, err
	}
	return s.queryExpenses(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses
		WHERE user_id = $1
		ORDER BY expense_date DESC, created_at DESC
	`, userID)
}

// ListByCategory matches the category case-insensitively.
func (s *ExpenseService) ListByCategory(ctx context.Context, userID, category string) ([]models.Expense, error) {
	if err := userExists(ctx, s.db, userID); err != nil {
		return nil, err
	}
	return s.queryExpenses(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses
		WHERE user_id = $1 AND LOWER(category) = LOWER($2)
		ORDER BY expense_date DESC, created_at DESC
	`, userID, category)
}

// ListByDateRange returns expenses dated within [start, end], inclusive on
// both ends.
func (s *ExpenseService) ListByDateRange(ctx context.Context, userID, start, end string) ([]models.Expense, error) {
	startDate, err := time.Parse(time.DateOnly, start)
	if err != nil {
		return nil, invalid("startDate must be a calendar date in YYYY-MM-DD format.")
	}
	endDate, err := time.Parse(time.DateOnly, end)
	if err != nil {
		return nil, invalid("endDate must be a calendar date in YYYY-MM-DD format.")
	}
	if startDate.After(endDate) {
		return nil, invalid("startDate must not be after endDate.")
	}
	if err := userExists(ctx, s.db, userID); err != nil {
		return nil, err
	}

	// Dates are stored as ISO text, so lexicographic comparison is
	// chronological comparison.
	return s.queryExpenses(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses
		WHERE user_id = $1 AND expense_date >= $2 AND expense_date <= $3
		ORDER BY expense_date DESC, created_at DESC
	`, userID, start, end)
}

// Totals sums the user's expenses. Average is zero when there are none.
func (s *ExpenseService) Totals(ctx context.Context, userID string) (*models.SpendingTotals, error) {
	if err := userExists(ctx, s.db, userID); err != nil {
		return nil, err
	}

	var totals models.SpendingTotals
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0), COUNT(*)
		FROM expenses
		WHERE user_id = $1
	`, userID).Scan(&totals.Total, &totals.Count)
	if err != nil {
		return nil, err
	}

	if totals.Count > 0 {
		totals.Average = totals.Total / float64(totals.Count)
	}
	return &totals, nil
}

// CategoryStats groups the user's expenses by stored category, summing
// amounts and counting entries per group.
func (s *ExpenseService) CategoryStats(ctx context.Context, userID string) (map[string]models.CategoryStat, error) {
	if err := userExists(ctx, s.db, userID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT category, COALESCE(SUM(amount), 0), COUNT(*)
		FROM expenses
		WHERE user_id = $1
		GROUP BY category
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make(map[string]models.CategoryStat)
	for rows.Next() {
		var category string
		var stat models.CategoryStat
		if err := rows.Scan(&category, &stat.Total, &stat.Count); err != nil {
			return nil, err
		}
		stats[category] = stat
	}
	return stats, rows.Err()
}

// Update overwrites description, category, amount and date. The expense must
// belong to the calling user.
func (s *ExpenseService) Update(ctx context.Context, userID, expenseID string, req models.ExpenseRequest) (*models.Expense, error) {
	if err := validateExpenseFields(req); err != nil {
		return nil, err
	}

	expense, err := s.getOwned(ctx, userID, expenseID)
	if err != nil {
		return nil, err
	}

	expense.Description = req.Description
	expense.Category = req.Category
	expense.Amount = req.Amount
	expense.Date = req.Date
	expense.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE expenses
		SET description = $1, category = $2, amount = $3, expense_date = $4, updated_at = $5
		WHERE id = $6
	`, expense.Description, expense.Category, expense.Amount, expense.Date, expense.UpdatedAt, expense.ID)
	if err != nil {
		return nil, err
	}

	return expense, nil
}

func (s *ExpenseService) Delete(ctx context.Context, userID, expenseID string) error {
	expense, err := s.getOwned(ctx, userID, expenseID)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, expense.ID)
	return err
}

// DeleteAll removes every expense owned by the user. A no-op when there are
// none.
func (s *ExpenseService) DeleteAll(ctx context.Context, userID string) error {
	if err := userExists(ctx, s.db, userID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE user_id = $1`, userID)
	return err
}

// getOwned loads an expense and enforces the ownership check.
func (s *ExpenseService) getOwned(ctx context.Context, userID, expenseID string) (*models.Expense, error) {
	expense, err := scanExpense(s.db.QueryRowContext(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses
		WHERE id = $1
	`, expenseID))
	if err == sql.ErrNoRows {
		return nil, notFound("Expense not found.")
	}
	if err != nil {
		return nil, err
	}
	if expense.UserID != userID {
		return nil, forbidden("Expense belongs to a different user.")
	}
	return expense, nil
}

func (s *ExpenseService) queryExpenses(ctx context.Context, query string, args ...any) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := make([]models.Expense, 0)
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, *expense)
	}
	return expenses, rows.Err()
}
