package service

import (
	"testing"

	"fintrack/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestNewListQuery_Coercion(t *testing.T) {
	tests := []struct {
		name      string
		params    ListParams
		wantPage  int
		wantLimit int
	}{
		{name: "defaults", params: ListParams{}, wantPage: 1, wantLimit: 10},
		{name: "numeric", params: ListParams{Page: "3", Limit: "25"}, wantPage: 3, wantLimit: 25},
		{name: "non-numeric", params: ListParams{Page: "abc", Limit: "x1"}, wantPage: 1, wantLimit: 10},
		{name: "non-positive", params: ListParams{Page: "0", Limit: "-5"}, wantPage: 1, wantLimit: 10},
		{name: "limit capped", params: ListParams{Limit: "1000"}, wantPage: 1, wantLimit: 100},
		{name: "padded", params: ListParams{Page: " 2 ", Limit: " 7"}, wantPage: 2, wantLimit: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewListQuery(tt.params)
			assert.Equal(t, tt.wantPage, q.Page)
			assert.Equal(t, tt.wantLimit, q.Limit)
		})
	}
}

func TestNewListQuery_SortAndFilter(t *testing.T) {
	q := NewListQuery(ListParams{SortField: "amount", SortOrder: "ASC", Status: "Paid", Category: "Expense", Search: " bob "})
	assert.Equal(t, models.TransactionSort{Field: models.SortByAmount, Desc: false}, q.Sort)
	assert.Equal(t, models.TransactionFilter{Search: "bob", Status: models.StatusPaid, Category: models.CategoryExpense}, q.Filter)

	q = NewListQuery(ListParams{SortField: "password; DROP TABLE users"})
	assert.Equal(t, models.DefaultSort, q.Sort)
}
