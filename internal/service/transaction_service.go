package service

import (
	"context"
	"fmt"
	"math"

	"fintrack/internal/dto"
	"fintrack/internal/models"

	"go.uber.org/zap"
)

const recentTransactionsLimit = 5

type TransactionStore interface {
	List(ctx context.Context, filter models.TransactionFilter, sort models.TransactionSort, page models.Page) ([]*models.Transaction, error)
	Count(ctx context.Context, filter models.TransactionFilter) (int64, error)
	Sum(ctx context.Context, filter models.TransactionFilter) (float64, error)
	StatusCategoryTotals(ctx context.Context) ([]models.StatusCategoryTotal, error)
	CreateBatch(ctx context.Context, transactions []*models.Transaction) error
}

// TransactionService answers the dashboard queries. Every call re-reads the store.
type TransactionService struct {
	store  TransactionStore
	trends *TrendBuilder
	logger *zap.Logger
}

func NewTransactionService(store TransactionStore, trends *TrendBuilder, logger *zap.Logger) *TransactionService {
	return &TransactionService{
		store:  store,
		trends: trends,
		logger: logger,
	}
}

// Summary sums amounts over three independent selections: paid (balance),
// all expenses and all revenue regardless of status.
func (s *TransactionService) Summary(ctx context.Context) (*dto.Summary, error) {
	balance, err := s.store.Sum(ctx, models.TransactionFilter{Status: models.StatusPaid})
	if err != nil {
		return nil, err
	}
	expense, err := s.store.Sum(ctx, models.TransactionFilter{Category: models.CategoryExpense})
	if err != nil {
		return nil, err
	}
	revenue, err := s.store.Sum(ctx, models.TransactionFilter{Category: models.CategoryRevenue})
	if err != nil {
		return nil, err
	}

	return &dto.Summary{Balance: balance, Expense: expense, Revenue: revenue}, nil
}

func (s *TransactionService) StatusCounts(ctx context.Context) (*dto.StatusCounts, error) {
	paid, err := s.store.Count(ctx, models.TransactionFilter{Status: models.StatusPaid})
	if err != nil {
		return nil, err
	}
	pending, err := s.store.Count(ctx, models.TransactionFilter{Status: models.StatusPending})
	if err != nil {
		return nil, err
	}

	return &dto.StatusCounts{Paid: paid, Pending: pending}, nil
}

// StatusCategoryAmounts cross-tabulates amounts. Missing cells stay 0.
func (s *TransactionService) StatusCategoryAmounts(ctx context.Context) (*dto.StatusCategoryAmounts, error) {
	totals, err := s.store.StatusCategoryTotals(ctx)
	if err != nil {
		return nil, err
	}

	var out dto.StatusCategoryAmounts
	for _, t := range totals {
		var cell *dto.CategoryAmounts
		switch t.Status {
		case models.StatusPaid:
			cell = &out.Paid
		case models.StatusPending:
			cell = &out.Pending
		default:
			continue
		}
		switch t.Category {
		case models.CategoryRevenue:
			cell.Revenue += t.Total
		case models.CategoryExpense:
			cell.Expense += t.Total
		}
	}
	return &out, nil
}

// List returns one page of the filtered, sorted transactions.
func (s *TransactionService) List(ctx context.Context, q dto.ListQuery) (*dto.PaginatedTransactions, error) {
	total, err := s.store.Count(ctx, q.Filter)
	if err != nil {
		return nil, err
	}

	resp := &dto.PaginatedTransactions{
		Data:        []dto.TransactionResponse{},
		CurrentPage: q.Page,
		TotalPages:  totalPages(total, q.Limit),
		TotalCount:  total,
	}

	offset, ok := pageOffset(q.Page, q.Limit)
	if !ok || int64(offset) >= total {
		return resp, nil
	}

	txs, err := s.store.List(ctx, q.Filter, q.Sort, models.Page{Offset: offset, Limit: q.Limit})
	if err != nil {
		return nil, err
	}
	resp.Data = dto.NewTransactionResponses(txs)
	return resp, nil
}

// pageOffset returns (page-1)*limit, or false when it does not fit in an int.
func pageOffset(page, limit int) (int, bool) {
	if page < 1 || limit < 1 {
		return 0, false
	}
	if page-1 > math.MaxInt/limit {
		return 0, false
	}
	return (page - 1) * limit, true
}

// All returns every transaction matching filter, unpaginated.
func (s *TransactionService) All(ctx context.Context, filter models.TransactionFilter, sort models.TransactionSort) ([]*models.Transaction, error) {
	return s.store.List(ctx, filter, sort, models.Page{})
}

func (s *TransactionService) Recent(ctx context.Context) ([]dto.TransactionResponse, error) {
	txs, err := s.store.List(ctx, models.TransactionFilter{}, models.DefaultSort, models.Page{Limit: recentTransactionsLimit})
	if err != nil {
		return nil, err
	}
	return dto.NewTransactionResponses(txs), nil
}

func (s *TransactionService) DailyTrend(ctx context.Context) ([]dto.DailyTrend, error) {
	paid, err := s.paid(ctx)
	if err != nil {
		return nil, err
	}
	return s.trends.Daily(paid), nil
}

func (s *TransactionService) WeeklyTrend(ctx context.Context) ([]dto.WeeklyTrend, error) {
	paid, err := s.paid(ctx)
	if err != nil {
		return nil, err
	}
	return s.trends.Weekly(paid), nil
}

func (s *TransactionService) MonthlyTrend(ctx context.Context) ([]dto.MonthlyTrend, error) {
	paid, err := s.paid(ctx)
	if err != nil {
		return nil, err
	}
	return s.trends.Monthly(paid), nil
}

func (s *TransactionService) paid(ctx context.Context) ([]*models.Transaction, error) {
	txs, err := s.All(ctx, models.TransactionFilter{Status: models.StatusPaid}, models.TransactionSort{Field: models.SortByDate})
	if err != nil {
		return nil, fmt.Errorf("failed to load paid transactions: %w", err)
	}
	return txs, nil
}

func totalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
