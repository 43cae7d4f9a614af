package service

import (
	"fmt"
	"sort"
	"time"

	"fintrack/internal/dto"
	"fintrack/internal/models"

	"github.com/shopspring/decimal"
)

// TrendBuilder groups transactions into labelled time buckets in a fixed
// location. Revenue goes to income and every other category to expense.
type TrendBuilder struct {
	loc *time.Location
}

func NewTrendBuilder(loc *time.Location) *TrendBuilder {
	if loc == nil {
		loc = time.UTC
	}
	return &TrendBuilder{loc: loc}
}

type bucket struct {
	label   string
	order   int64
	income  decimal.Decimal
	expense decimal.Decimal
}

// group buckets txs by key. order sorts the resulting buckets ascending.
func (b *TrendBuilder) group(txs []*models.Transaction, key func(t time.Time) (label string, order int64)) []*bucket {
	byLabel := make(map[string]*bucket)
	for _, tx := range txs {
		label, order := key(tx.Date.In(b.loc))
		bk, ok := byLabel[label]
		if !ok {
			bk = &bucket{label: label, order: order}
			byLabel[label] = bk
		}
		amount := decimal.NewFromFloat(tx.Amount)
		if tx.Category == models.CategoryRevenue {
			bk.income = bk.income.Add(amount)
		} else {
			bk.expense = bk.expense.Add(amount)
		}
	}

	out := make([]*bucket, 0, len(byLabel))
	for _, bk := range byLabel {
		out = append(out, bk)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].order != out[j].order {
			return out[i].order < out[j].order
		}
		return out[i].label < out[j].label
	})
	return out
}

// Daily labels buckets DD/MM/YYYY and orders them by calendar date.
func (b *TrendBuilder) Daily(txs []*models.Transaction) []dto.DailyTrend {
	buckets := b.group(txs, func(t time.Time) (string, int64) {
		y, m, d := t.Date()
		return t.Format("02/01/2006"), int64(y)*10000 + int64(m)*100 + int64(d)
	})

	out := make([]dto.DailyTrend, 0, len(buckets))
	for _, bk := range buckets {
		out = append(out, dto.DailyTrend{Day: bk.label, Income: bk.income.InexactFloat64(), Expense: bk.expense.InexactFloat64()})
	}
	return out
}

// Weekly buckets by day-of-month band: days 1-6 are week 1, 7-13 week 2 and
// so on, labelled with the short month name. Labels carry no year, so the same
// band of the same month in different years shares a bucket.
func (b *TrendBuilder) Weekly(txs []*models.Transaction) []dto.WeeklyTrend {
	buckets := b.group(txs, func(t time.Time) (string, int64) {
		week := t.Day()/7 + 1
		return fmt.Sprintf("Week %d, %s", week, t.Format("Jan")), int64(t.Month())*10 + int64(week)
	})

	out := make([]dto.WeeklyTrend, 0, len(buckets))
	for _, bk := range buckets {
		out = append(out, dto.WeeklyTrend{Week: bk.label, Income: bk.income.InexactFloat64(), Expense: bk.expense.InexactFloat64()})
	}
	return out
}

// Monthly buckets by full month name, merging years, in calendar order.
func (b *TrendBuilder) Monthly(txs []*models.Transaction) []dto.MonthlyTrend {
	buckets := b.group(txs, func(t time.Time) (string, int64) {
		return t.Format("January"), int64(t.Month())
	})

	out := make([]dto.MonthlyTrend, 0, len(buckets))
	for _, bk := range buckets {
		out = append(out, dto.MonthlyTrend{Month: bk.label, Income: bk.income.InexactFloat64(), Expense: bk.expense.InexactFloat64()})
	}
	return out
}

// MonthlyReport buckets by calendar year-month (YYYY-MM), oldest first.
// Expenses are reported as absolute values.
func (b *TrendBuilder) MonthlyReport(txs []*models.Transaction) []dto.MonthlyReportRow {
	buckets := b.group(txs, func(t time.Time) (string, int64) {
		return t.Format("2006-01"), int64(t.Year())*100 + int64(t.Month())
	})

	out := make([]dto.MonthlyReportRow, 0, len(buckets))
	for _, bk := range buckets {
		expenses := bk.expense.Abs()
		out = append(out, dto.MonthlyReportRow{
			Month:    bk.label,
			Revenue:  bk.income.InexactFloat64(),
			Expenses: expenses.InexactFloat64(),
			Profit:   bk.income.Sub(expenses).InexactFloat64(),
		})
	}
	return out
}

// ReportSummary totals paid transactions: balance is the plain sum and net
// profit is revenue minus the absolute expense total.
func ReportSummary(paid []*models.Transaction) dto.ReportSummary {
	var balance, revenue, expense decimal.Decimal
	for _, tx := range paid {
		amount := decimal.NewFromFloat(tx.Amount)
		balance = balance.Add(amount)
		switch tx.Category {
		case models.CategoryRevenue:
			revenue = revenue.Add(amount)
		case models.CategoryExpense:
			expense = expense.Add(amount)
		}
	}

	expenses := expense.Abs()
	return dto.ReportSummary{
		Balance:   balance.InexactFloat64(),
		Revenue:   revenue.InexactFloat64(),
		Expenses:  expenses.InexactFloat64(),
		NetProfit: revenue.Sub(expenses).InexactFloat64(),
	}
}
