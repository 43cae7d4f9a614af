package dto

import (
	"time"

	"fintrack/internal/models"
)

type TransactionResponse struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
	UserID      string    `json:"user_id"`
	UserProfile string    `json:"user_profile"`
	Name        string    `json:"name,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewTransactionResponse(tx *models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          tx.ID.String(),
		Date:        tx.Date,
		Amount:      tx.Amount,
		Category:    string(tx.Category),
		Status:      string(tx.Status),
		UserID:      tx.UserID,
		UserProfile: tx.UserProfile,
		Name:        tx.Name,
		Description: tx.Description,
		CreatedAt:   tx.CreatedAt,
		UpdatedAt:   tx.UpdatedAt,
	}
}

func NewTransactionResponses(txs []*models.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, NewTransactionResponse(tx))
	}
	return out
}

// ListQuery is the parsed form of the list/export query string.
type ListQuery struct {
	Page   int
	Limit  int
	Filter models.TransactionFilter
	Sort   models.TransactionSort
}

type PaginatedTransactions struct {
	Data        []TransactionResponse `json:"data"`
	CurrentPage int                   `json:"currentPage"`
	TotalPages  int                   `json:"totalPages"`
	TotalCount  int64                 `json:"totalCount"`
}

type Summary struct {
	Balance float64 `json:"balance"`
	Expense float64 `json:"expense"`
	Revenue float64 `json:"revenue"`
}

type StatusCounts struct {
	Paid    int64 `json:"paid"`
	Pending int64 `json:"pending"`
}

type CategoryAmounts struct {
	Revenue float64 `json:"Revenue"`
	Expense float64 `json:"Expense"`
}

type StatusCategoryAmounts struct {
	Paid    CategoryAmounts `json:"Paid"`
	Pending CategoryAmounts `json:"Pending"`
}

type DailyTrend struct {
	Day     string  `json:"day"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

type WeeklyTrend struct {
	Week    string  `json:"week"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

type MonthlyTrend struct {
	Month   string  `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// DataResponse is the envelope used by the dashboard endpoints.
type DataResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}
