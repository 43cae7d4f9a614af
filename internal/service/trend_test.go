package service

import (
	"testing"
	"time"

	"fintrack/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrendBuilder_DailyOrdersByDateNotLabel(t *testing.T) {
	b := NewTrendBuilder(time.UTC)
	trend := b.Daily([]*models.Transaction{
		tx(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), 1, models.CategoryRevenue, models.StatusPaid, "a"),
		tx(time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), 2, models.CategoryRevenue, models.StatusPaid, "b"),
		tx(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), 3, models.CategoryRevenue, models.StatusPaid, "c"),
	})

	require.Len(t, trend, 3)
	assert.Equal(t, "31/12/2025", trend[0].Day)
	assert.Equal(t, "15/01/2026", trend[1].Day)
	assert.Equal(t, "01/02/2026", trend[2].Day)
}

func TestTrendBuilder_WeeklyBands(t *testing.T) {
	b := NewTrendBuilder(time.UTC)
	var txs []*models.Transaction
	for _, d := range []int{1, 6, 7, 13, 14, 28, 31} {
		txs = append(txs, tx(time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC), 1, models.CategoryRevenue, models.StatusPaid, "u"))
	}

	trend := b.Weekly(txs)
	labels := make([]string, 0, len(trend))
	for _, w := range trend {
		labels = append(labels, w.Week)
	}
	assert.Equal(t, []string{"Week 1, Mar", "Week 2, Mar", "Week 3, Mar", "Week 5, Mar"}, labels)
	assert.InDelta(t, 2, trend[0].Income, 1e-9)
	assert.InDelta(t, 2, trend[3].Income, 1e-9)
}

func TestTrendBuilder_UsesLocation(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	trend := NewTrendBuilder(loc).Daily([]*models.Transaction{
		tx(time.Date(2026, 4, 30, 20, 0, 0, 0, time.UTC), 1, models.CategoryRevenue, models.StatusPaid, "a"),
	})
	require.Len(t, trend, 1)
	assert.Equal(t, "01/05/2026", trend[0].Day)
}

func TestTrendBuilder_MonthlyReportSeparatesYears(t *testing.T) {
	b := NewTrendBuilder(time.UTC)
	rows := b.MonthlyReport([]*models.Transaction{
		tx(time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC), 100, models.CategoryRevenue, models.StatusPaid, "a"),
		tx(time.Date(2026, 5, 9, 0, 0, 0, 0, time.UTC), -30, models.CategoryExpense, models.StatusPaid, "b"),
		tx(time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC), 7, models.CategoryRevenue, models.StatusPaid, "c"),
	})

	require.Len(t, rows, 2)
	assert.Equal(t, "2025-05", rows[0].Month)
	assert.Equal(t, "2026-05", rows[1].Month)
	assert.InDelta(t, 100, rows[1].Revenue, 1e-9)
	assert.InDelta(t, 30, rows[1].Expenses, 1e-9)
	assert.InDelta(t, 70, rows[1].Profit, 1e-9)
}

func TestReportSummary(t *testing.T) {
	s := ReportSummary([]*models.Transaction{
		tx(day0, 0.1, models.CategoryRevenue, models.StatusPaid, "a"),
		tx(day0, 0.2, models.CategoryRevenue, models.StatusPaid, "b"),
		tx(day0, -0.05, models.CategoryExpense, models.StatusPaid, "c"),
	})

	assert.Equal(t, 0.25, s.Balance)
	assert.Equal(t, 0.3, s.Revenue)
	assert.Equal(t, 0.05, s.Expenses)
	assert.Equal(t, 0.25, s.NetProfit)
}
