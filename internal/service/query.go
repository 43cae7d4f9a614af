package service

import (
	"strconv"
	"strings"

	"fintrack/internal/dto"
	"fintrack/internal/models"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// ListParams is the raw textual form of the list and export query string.
type ListParams struct {
	Page      string
	Limit     string
	Search    string
	SortField string
	SortOrder string
	Status    string
	Category  string
}

// NewListQuery coerces raw parameters. Missing, non-numeric or non-positive
// page and limit fall back to 1 and 10; limit is capped at 100.
func NewListQuery(p ListParams) dto.ListQuery {
	page := positiveInt(p.Page, defaultPage)
	limit := positiveInt(p.Limit, defaultLimit)
	if limit > maxLimit {
		limit = maxLimit
	}

	return dto.ListQuery{
		Page:   page,
		Limit:  limit,
		Filter: p.Filter(),
		Sort:   models.ParseSort(strings.TrimSpace(p.SortField), strings.ToLower(strings.TrimSpace(p.SortOrder))),
	}
}

// Filter returns the selection part of the parameters.
func (p ListParams) Filter() models.TransactionFilter {
	return models.TransactionFilter{
		Search:   strings.TrimSpace(p.Search),
		Status:   models.TransactionStatus(strings.TrimSpace(p.Status)),
		Category: models.TransactionCategory(strings.TrimSpace(p.Category)),
	}
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
