package repository

import (
	"context"
	"testing"
	"time"

	"fintrack/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MemoryTransactionSuite struct {
	suite.Suite
	repo *MemoryTransactionRepository
	ctx  context.Context
}

func (s *MemoryTransactionSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = NewMemoryTransactionRepository()

	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	txs := []*models.Transaction{
		{ID: uuid.New(), Date: base, Amount: 100, Category: models.CategoryRevenue, Status: models.StatusPaid, UserID: "user_001", Name: "Alice"},
		{ID: uuid.New(), Date: base.AddDate(0, 0, 1), Amount: -40, Category: models.CategoryExpense, Status: models.StatusPaid, UserID: "user_002", Name: "Bob"},
		{ID: uuid.New(), Date: base.AddDate(0, 0, 2), Amount: 50, Category: models.CategoryRevenue, Status: models.StatusPending, UserID: "user_003", Name: "Carol"},
	}
	require.NoError(s.T(), s.repo.CreateBatch(s.ctx, txs))
}

func (s *MemoryTransactionSuite) TestListDefaultSortNewestFirst() {
	txs, err := s.repo.List(s.ctx, models.TransactionFilter{}, models.DefaultSort, models.Page{})
	s.Require().NoError(err)
	s.Require().Len(txs, 3)
	s.Equal("Carol", txs[0].Name)
	s.Equal("Alice", txs[2].Name)
}

func (s *MemoryTransactionSuite) TestListSearchIsCaseInsensitive() {
	txs, err := s.repo.List(s.ctx, models.TransactionFilter{Search: "BOB"}, models.DefaultSort, models.Page{})
	s.Require().NoError(err)
	s.Require().Len(txs, 1)
	s.Equal("user_002", txs[0].UserID)

	txs, err = s.repo.List(s.ctx, models.TransactionFilter{Search: "USER_00"}, models.DefaultSort, models.Page{})
	s.Require().NoError(err)
	s.Len(txs, 3)
}

func (s *MemoryTransactionSuite) TestListPaging() {
	sort := models.ParseSort("amount", "asc")

	txs, err := s.repo.List(s.ctx, models.TransactionFilter{}, sort, models.Page{Offset: 1, Limit: 1})
	s.Require().NoError(err)
	s.Require().Len(txs, 1)
	s.Equal(50.0, txs[0].Amount)

	txs, err = s.repo.List(s.ctx, models.TransactionFilter{}, sort, models.Page{Offset: 5, Limit: 1})
	s.Require().NoError(err)
	s.Empty(txs)
}

func (s *MemoryTransactionSuite) TestListRejectsNegativeOffset() {
	txs, err := s.repo.List(s.ctx, models.TransactionFilter{}, models.DefaultSort, models.Page{Offset: -10, Limit: 10})
	s.ErrorIs(err, ErrBadOffset)
	s.Nil(txs)
}

func (s *MemoryTransactionSuite) TestSumsCentsExactly() {
	repo := NewMemoryTransactionRepository()
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	s.Require().NoError(repo.CreateBatch(s.ctx, []*models.Transaction{
		{ID: uuid.New(), Date: base, Amount: 0.1, Category: models.CategoryRevenue, Status: models.StatusPaid, UserID: "user_001"},
		{ID: uuid.New(), Date: base, Amount: 0.2, Category: models.CategoryRevenue, Status: models.StatusPaid, UserID: "user_002"},
	}))

	sum, err := repo.Sum(s.ctx, models.TransactionFilter{})
	s.Require().NoError(err)
	s.Equal(0.3, sum)

	totals, err := repo.StatusCategoryTotals(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(totals, 1)
	s.Equal(0.3, totals[0].Total)
}

func (s *MemoryTransactionSuite) TestAggregates() {
	count, err := s.repo.Count(s.ctx, models.TransactionFilter{Status: models.StatusPaid})
	s.Require().NoError(err)
	s.Equal(int64(2), count)

	sum, err := s.repo.Sum(s.ctx, models.TransactionFilter{Category: models.CategoryRevenue})
	s.Require().NoError(err)
	s.Equal(150.0, sum)

	totals, err := s.repo.StatusCategoryTotals(s.ctx)
	s.Require().NoError(err)
	s.Len(totals, 3)
}

func TestMemoryTransactionSuite(t *testing.T) {
	suite.Run(t, new(MemoryTransactionSuite))
}

func TestMemoryUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	_, err := repo.GetByEmail(ctx, "a@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	exp := time.Now().Add(time.Minute)
	u := &models.User{ID: uuid.New(), Email: "a@example.com"}
	u.SetOTP("123456", exp)
	require.NoError(t, repo.Create(ctx, u))
	assert.ErrorIs(t, repo.Create(ctx, u), ErrDuplicate)

	// stored copies are isolated from the caller
	u.ClearOTP()
	got, err := repo.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "123456", got.OTP)
	require.NotNil(t, got.OTPExpiresAt)

	got.IsEmailVerified = true
	got.ClearOTP()
	require.NoError(t, repo.Update(ctx, got))

	got, err = repo.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.True(t, got.IsEmailVerified)
	assert.Nil(t, got.OTPExpiresAt)

	assert.ErrorIs(t, repo.Update(ctx, &models.User{Email: "missing@example.com"}), ErrNotFound)
}
