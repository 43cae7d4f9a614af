package models

import (
	"time"

	"github.com/google/uuid"
)

type TransactionCategory string

const (
	CategoryRevenue TransactionCategory = "Revenue"
	CategoryExpense TransactionCategory = "Expense"
)

func (c TransactionCategory) Valid() bool {
	return c == CategoryRevenue || c == CategoryExpense
}

type TransactionStatus string

const (
	StatusPaid    TransactionStatus = "Paid"
	StatusPending TransactionStatus = "Pending"
)

func (s TransactionStatus) Valid() bool {
	return s == StatusPaid || s == StatusPending
}

type Transaction struct {
	ID          uuid.UUID           `db:"id"`
	Date        time.Time           `db:"date"`
	Amount      float64             `db:"amount"`
	Category    TransactionCategory `db:"category"`
	Status      TransactionStatus   `db:"status"`
	UserID      string              `db:"user_id"`
	UserProfile string              `db:"user_profile"`
	Name        string              `db:"name"`
	Description string              `db:"description"`
	CreatedAt   time.Time           `db:"created_at"`
	UpdatedAt   time.Time           `db:"updated_at"`
}

// TransactionFilter selects transactions. Zero-valued fields do not filter.
type TransactionFilter struct {
	Search   string // case-insensitive substring of name or user_id
	Status   TransactionStatus
	Category TransactionCategory
}

type SortField string

const (
	SortByDate      SortField = "date"
	SortByAmount    SortField = "amount"
	SortByCategory  SortField = "category"
	SortByStatus    SortField = "status"
	SortByUserID    SortField = "user_id"
	SortByName      SortField = "name"
	SortByCreatedAt SortField = "created_at"
)

var sortFields = map[SortField]bool{
	SortByDate:      true,
	SortByAmount:    true,
	SortByCategory:  true,
	SortByStatus:    true,
	SortByUserID:    true,
	SortByName:      true,
	SortByCreatedAt: true,
}

type TransactionSort struct {
	Field SortField
	Desc  bool
}

// ParseSort resolves user supplied sort parameters. Unknown fields fall back
// to date and anything other than "asc" sorts descending.
func ParseSort(field, order string) TransactionSort {
	f := SortField(field)
	if !sortFields[f] {
		f = SortByDate
	}
	return TransactionSort{Field: f, Desc: order != "asc"}
}

// DefaultSort is newest first.
var DefaultSort = TransactionSort{Field: SortByDate, Desc: true}

// Page is an offset window. Limit <= 0 means no limit.
type Page struct {
	Offset int
	Limit  int
}

// StatusCategoryTotal is one cell of the status x category cross-tab.
type StatusCategoryTotal struct {
	Status   TransactionStatus
	Category TransactionCategory
	Total    float64
}
