package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestImportService_ImportJSON(t *testing.T) {
	store := repository.NewMemoryTransactionRepository()
	svc := NewImportService(store, zap.NewNop())
	svc.now = func() time.Time { return day0 }

	input := `[
		{"id": 1, "date": "2024-01-15T08:34:12Z", "amount": 1500.75, "category": "Revenue", "status": "Paid", "user_id": "user_001", "user_profile": "https://example.com/1.png"},
		{"date": "2024-02-01", "amount": -20, "category": "Expense", "status": "Pending", "user_id": "user_002", "user_profile": "p", "name": "Lunch", "description": "team"},
		{"date": "2024-02-01", "amount": 5, "category": "Refund", "status": "Paid", "user_id": "user_003", "user_profile": "p"},
		{"date": "yesterday", "amount": 5, "category": "Revenue", "status": "Paid", "user_id": "user_004", "user_profile": "p"},
		{"date": "2024-02-01", "category": "Revenue", "status": "Paid", "user_id": "user_005", "user_profile": "p"},
		{"date": "2024-02-01", "amount": 5, "category": "Revenue", "status": "Paid", "user_id": "", "user_profile": "p"}
	]`

	res, err := svc.ImportJSON(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 4, res.Skipped)

	txs, err := store.List(context.Background(), models.TransactionFilter{}, models.TransactionSort{Field: models.SortByDate}, models.Page{})
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, time.Date(2024, 1, 15, 8, 34, 12, 0, time.UTC), txs[0].Date)
	assert.Equal(t, 1500.75, txs[0].Amount)
	assert.Equal(t, "Lunch", txs[1].Name)
	assert.Equal(t, day0, txs[1].CreatedAt)
}

func TestImportService_RejectsMalformedJSON(t *testing.T) {
	svc := NewImportService(repository.NewMemoryTransactionRepository(), zap.NewNop())

	_, err := svc.ImportJSON(context.Background(), strings.NewReader(`{"not": "an array"}`))
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestSanitizeUTF8(t *testing.T) {
	assert.Equal(t, "abc", sanitizeUTF8("abc"))
	assert.Equal(t, "ab", sanitizeUTF8("a\xffb"))
	assert.Equal(t, "héllo", sanitizeUTF8("héllo"))
}
