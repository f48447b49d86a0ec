package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/trackspend/expense-api/models"
	"github.com/trackspend/expense-api/utils"
)

type ExpenseServiceSuite struct {
	suite.Suite
	ctx      context.Context
	users    *UserService
	expenses *ExpenseService
	owner    string
}

func (s *ExpenseServiceSuite) SetupTest() {
	db := newTestDB(s.T())
	s.ctx = context.Background()
	s.users = NewUserService(db, utils.BcryptHasher{Cost: bcrypt.MinCost})
	s.expenses = NewExpenseService(db)

	profile, err := s.users.Register(s.ctx, "Alice", "alice@example.com", "secret123")
	require.NoError(s.T(), err)
	s.owner = profile.ID
}

func (s *ExpenseServiceSuite) addExpense(description, category string, amount float64, date string) *models.Expense {
	expense, err := s.expenses.Add(s.ctx, s.owner, models.ExpenseRequest{
		Description: description, Category: category, Amount: amount, Date: date,
	})
	require.NoError(s.T(), err)
	return expense
}

func (s *ExpenseServiceSuite) TestAddForUnknownUser() {
	_, err := s.expenses.Add(s.ctx, "missing", models.ExpenseRequest{
		Description: "Lunch", Category: "Food", Amount: 12, Date: "2025-03-01",
	})
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *ExpenseServiceSuite) TestAddValidation() {
	cases := []models.ExpenseRequest{
		{Description: "", Category: "Food", Amount: 10, Date: "2025-03-01"},
		{Description: "Lunch", Category: "  ", Amount: 10, Date: "2025-03-01"},
		{Description: "Lunch", Category: "Food", Amount: -1, Date: "2025-03-01"},
		{Description: "Lunch", Category: "Food", Amount: 10, Date: "01/03/2025"},
		{Description: "Lunch", Category: "Food", Amount: 10, Date: ""},
	}

	for _, req := range cases {
		_, err := s.expenses.Add(s.ctx, s.owner, req)
		assert.ErrorIs(s.T(), err, ErrValidation)
	}
}

func (s *ExpenseServiceSuite) TestAddAndList() {
	added := s.addExpense("Groceries", "Food", 42.50, "2025-03-10")

	assert.NotEmpty(s.T(), added.ID)
	assert.Equal(s.T(), s.owner, added.UserID)

	list, err := s.expenses.List(s.ctx, s.owner)
	require.NoError(s.T(), err)
	require.Len(s.T(), list, 1)
	assert.Equal(s.T(), added.ID, list[0].ID)
	assert.Equal(s.T(), 42.50, list[0].Amount)
	assert.Equal(s.T(), "2025-03-10", list[0].Date)
}

func (s *ExpenseServiceSuite) TestListForUnknownUser() {
	_, err := s.expenses.List(s.ctx, "missing")
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *ExpenseServiceSuite) TestListByCategoryIsCaseInsensitive() {
	s.addExpense("Groceries", "Food", 20, "2025-03-01")
	s.addExpense("Restaurant", "food", 30, "2025-03-02")
	s.addExpense("Bus", "Transport", 5, "2025-03-03")

	list, err := s.expenses.ListByCategory(s.ctx, s.owner, "FOOD")
	require.NoError(s.T(), err)
	assert.Len(s.T(), list, 2)
}

func (s *ExpenseServiceSuite) TestListByDateRangeIsInclusive() {
	s.addExpense("Before", "Misc", 1, "2025-02-28")
	s.addExpense("Start", "Misc", 2, "2025-03-01")
	s.addExpense("Middle", "Misc", 3, "2025-03-15")
	s.addExpense("End", "Misc", 4, "2025-03-31")
	s.addExpense("After", "Misc", 5, "2025-04-01")

	list, err := s.expenses.ListByDateRange(s.ctx, s.owner, "2025-03-01", "2025-03-31")
	require.NoError(s.T(), err)
	assert.Len(s.T(), list, 3)
	for _, e := range list {
		assert.GreaterOrEqual(s.T(), e.Date, "2025-03-01")
		assert.LessOrEqual(s.T(), e.Date, "2025-03-31")
	}
}

func (s *ExpenseServiceSuite) TestListByDateRangeRejectsReversedRange() {
	_, err := s.expenses.ListByDateRange(s.ctx, s.owner, "2025-03-31", "2025-03-01")
	assert.ErrorIs(s.T(), err, ErrValidation)
}

func (s *ExpenseServiceSuite) TestListByDateRangeRejectsBadDates() {
	_, err := s.expenses.ListByDateRange(s.ctx, s.owner, "not-a-date", "2025-03-01")
	assert.ErrorIs(s.T(), err, ErrValidation)

	_, err = s.expenses.ListByDateRange(s.ctx, s.owner, "2025-03-01", "31-03-2025")
	assert.ErrorIs(s.T(), err, ErrValidation)
}

func (s *ExpenseServiceSuite) TestTotalsEmpty() {
	totals, err := s.expenses.Totals(s.ctx, s.owner)
	require.NoError(s.T(), err)
	assert.Zero(s.T(), totals.Total)
	assert.Zero(s.T(), totals.Count)
	assert.Zero(s.T(), totals.Average)
}

func (s *ExpenseServiceSuite) TestTotals() {
	s.addExpense("Groceries", "Food", 20, "2025-03-01")
	s.addExpense("Restaurant", "Food", 30, "2025-03-02")
	s.addExpense("Bus", "Transport", 10, "2025-03-03")

	totals, err := s.expenses.Totals(s.ctx, s.owner)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 60.0, totals.Total)
	assert.Equal(s.T(), 3, totals.Count)
	assert.Equal(s.T(), 20.0, totals.Average)
}

func (s *ExpenseServiceSuite) TestCategoryStats() {
	s.addExpense("Groceries", "Food", 20, "2025-03-01")
	s.addExpense("Restaurant", "Food", 30, "2025-03-02")
	s.addExpense("Bus", "Transport", 10, "2025-03-03")

	stats, err := s.expenses.CategoryStats(s.ctx, s.owner)
	require.NoError(s.T(), err)
	require.Len(s.T(), stats, 2)
	assert.Equal(s.T(), models.CategoryStat{Total: 50, Count: 2}, stats["Food"])
	assert.Equal(s.T(), models.CategoryStat{Total: 10, Count: 1}, stats["Transport"])
}

func (s *ExpenseServiceSuite) TestCategoryStatsGroupsByStoredCase() {
	s.addExpense("Groceries", "Food", 20, "2025-03-01")
	s.addExpense("Restaurant", "food", 30, "2025-03-02")

	stats, err := s.expenses.CategoryStats(s.ctx, s.owner)
	require.NoError(s.T(), err)
	require.Len(s.T(), stats, 2)
	assert.Equal(s.T(), models.CategoryStat{Total: 20, Count: 1}, stats["Food"])
	assert.Equal(s.T(), models.CategoryStat{Total: 30, Count: 1}, stats["food"])
}

func (s *ExpenseServiceSuite) TestUpdateOverwritesAllFields() {
	expense := s.addExpense("Groceries", "Food", 20, "2025-03-01")

	updated, err := s.expenses.Update(s.ctx, s.owner, expense.ID, models.ExpenseRequest{
		Description: "Dinner", Category: "Restaurants", Amount: 55.5, Date: "2025-03-02",
	})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), expense.ID, updated.ID)
	assert.Equal(s.T(), "Dinner", updated.Description)
	assert.Equal(s.T(), "Restaurants", updated.Category)
	assert.Equal(s.T(), 55.5, updated.Amount)
	assert.Equal(s.T(), "2025-03-02", updated.Date)
}

func (s *ExpenseServiceSuite) TestUpdateByAnotherUserIsForbidden() {
	expense := s.addExpense("Groceries", "Food", 20, "2025-03-01")

	bob, err := s.users.Register(s.ctx, "Bob", "bob@example.com", "secret123")
	require.NoError(s.T(), err)

	_, err = s.expenses.Update(s.ctx, bob.ID, expense.ID, models.ExpenseRequest{
		Description: "Hijack", Category: "Other", Amount: 1, Date: "2025-03-02",
	})
	assert.ErrorIs(s.T(), err, ErrForbidden)

	// The record is unmodified.
	list, err := s.expenses.List(s.ctx, s.owner)
	require.NoError(s.T(), err)
	require.Len(s.T(), list, 1)
	assert.Equal(s.T(), "Groceries", list[0].Description)
	assert.Equal(s.T(), 20.0, list[0].Amount)
}

func (s *ExpenseServiceSuite) TestUpdateUnknownExpense() {
	_, err := s.expenses.Update(s.ctx, s.owner, "missing", models.ExpenseRequest{
		Description: "x", Category: "y", Amount: 1, Date: "2025-03-02",
	})
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *ExpenseServiceSuite) TestDeleteRemovesExpense() {
	expense := s.addExpense("Groceries", "Food", 20, "2025-03-01")

	require.NoError(s.T(), s.expenses.Delete(s.ctx, s.owner, expense.ID))

	list, err := s.expenses.List(s.ctx, s.owner)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), list)
}

func (s *ExpenseServiceSuite) TestDeleteByAnotherUserIsForbidden() {
	expense := s.addExpense("Groceries", "Food", 20, "2025-03-01")

	bob, err := s.users.Register(s.ctx, "Bob", "bob@example.com", "secret123")
	require.NoError(s.T(), err)

	assert.ErrorIs(s.T(), s.expenses.Delete(s.ctx, bob.ID, expense.ID), ErrForbidden)

	list, err := s.expenses.List(s.ctx, s.owner)
	require.NoError(s.T(), err)
	assert.Len(s.T(), list, 1)
}

func (s *ExpenseServiceSuite) TestDeleteAllIsIdempotent() {
	s.addExpense("Groceries", "Food", 20, "2025-03-01")
	s.addExpense("Bus", "Transport", 5, "2025-03-02")

	require.NoError(s.T(), s.expenses.DeleteAll(s.ctx, s.owner))
	require.NoError(s.T(), s.expenses.DeleteAll(s.ctx, s.owner))

	list, err := s.expenses.List(s.ctx, s.owner)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), list)
}

func TestExpenseServiceSuite(t *testing.T) {
	suite.Run(t, new(ExpenseServiceSuite))
}
