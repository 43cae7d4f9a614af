package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"fintrack/internal/models"

	"github.com/shopspring/decimal"
)

// MemoryUserRepository keeps users in process memory. It backs tests and the
// memory storage driver.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byEmail map[string]models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{byEmail: make(map[string]models.User)}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return ErrDuplicate
	}
	r.byEmail[user.Email] = cloneUser(*user)
	return nil
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	u = cloneUser(u)
	return &u, nil
}

func (r *MemoryUserRepository) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; !ok {
		return ErrNotFound
	}
	r.byEmail[user.Email] = cloneUser(*user)
	return nil
}

func cloneUser(u models.User) models.User {
	if u.OTPExpiresAt != nil {
		exp := *u.OTPExpiresAt
		u.OTPExpiresAt = &exp
	}
	return u
}

type MemoryTransactionRepository struct {
	mu           sync.RWMutex
	transactions []models.Transaction
}

func NewMemoryTransactionRepository() *MemoryTransactionRepository {
	return &MemoryTransactionRepository{}
}

func (r *MemoryTransactionRepository) CreateBatch(_ context.Context, transactions []*models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, tx := range transactions {
		r.transactions = append(r.transactions, *tx)
	}
	return nil
}

func (r *MemoryTransactionRepository) List(_ context.Context, filter models.TransactionFilter, order models.TransactionSort, page models.Page) ([]*models.Transaction, error) {
	if page.Offset < 0 {
		return nil, ErrBadOffset
	}
	matched := r.match(filter)

	sort.SliceStable(matched, func(i, j int) bool {
		c := compareTransactions(&matched[i], &matched[j], order.Field)
		if order.Desc {
			return c > 0
		}
		return c < 0
	})

	if page.Offset >= len(matched) {
		return nil, nil
	}
	matched = matched[page.Offset:]
	if page.Limit > 0 && page.Limit < len(matched) {
		matched = matched[:page.Limit]
	}

	out := make([]*models.Transaction, 0, len(matched))
	for i := range matched {
		out = append(out, &matched[i])
	}
	return out, nil
}

func (r *MemoryTransactionRepository) Count(_ context.Context, filter models.TransactionFilter) (int64, error) {
	return int64(len(r.match(filter))), nil
}

func (r *MemoryTransactionRepository) Sum(_ context.Context, filter models.TransactionFilter) (float64, error) {
	sum := decimal.Zero
	for _, tx := range r.match(filter) {
		sum = sum.Add(decimal.NewFromFloat(tx.Amount))
	}
	return sum.InexactFloat64(), nil
}

func (r *MemoryTransactionRepository) StatusCategoryTotals(_ context.Context) ([]models.StatusCategoryTotal, error) {
	type key struct {
		status   models.TransactionStatus
		category models.TransactionCategory
	}
	sums := make(map[key]decimal.Decimal)
	var keys []key
	for _, tx := range r.match(models.TransactionFilter{}) {
		if !tx.Status.Valid() || !tx.Category.Valid() {
			continue
		}
		k := key{tx.Status, tx.Category}
		if _, ok := sums[k]; !ok {
			keys = append(keys, k)
		}
		sums[k] = sums[k].Add(decimal.NewFromFloat(tx.Amount))
	}

	totals := make([]models.StatusCategoryTotal, 0, len(keys))
	for _, k := range keys {
		totals = append(totals, models.StatusCategoryTotal{Status: k.status, Category: k.category, Total: sums[k].InexactFloat64()})
	}
	return totals, nil
}

// match returns copies of the transactions selected by filter.
func (r *MemoryTransactionRepository) match(filter models.TransactionFilter) []models.Transaction {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	var out []models.Transaction
	for _, tx := range r.transactions {
		if search != "" &&
			!strings.Contains(strings.ToLower(tx.Name), search) &&
			!strings.Contains(strings.ToLower(tx.UserID), search) {
			continue
		}
		if filter.Status != "" && tx.Status != filter.Status {
			continue
		}
		if filter.Category != "" && tx.Category != filter.Category {
			continue
		}
		out = append(out, tx)
	}
	return out
}

func compareTransactions(a, b *models.Transaction, field models.SortField) int {
	switch field {
	case models.SortByAmount:
		switch {
		case a.Amount < b.Amount:
			return -1
		case a.Amount > b.Amount:
			return 1
		}
		return 0
	case models.SortByCategory:
		return strings.Compare(string(a.Category), string(b.Category))
	case models.SortByStatus:
		return strings.Compare(string(a.Status), string(b.Status))
	case models.SortByUserID:
		return strings.Compare(a.UserID, b.UserID)
	case models.SortByName:
		return strings.Compare(a.Name, b.Name)
	case models.SortByCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	default:
		return a.Date.Compare(b.Date)
	}
}
