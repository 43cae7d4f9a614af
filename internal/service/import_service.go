package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"fintrack/internal/dto"
	"fintrack/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// importDateLayouts are tried in order when parsing a record date.
var importDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ImportRecord is one element of the bulk import JSON array.
type ImportRecord struct {
	Date        string   `json:"date"`
	Amount      *float64 `json:"amount"`
	Category    string   `json:"category"`
	Status      string   `json:"status"`
	UserID      string   `json:"user_id"`
	UserProfile string   `json:"user_profile"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
}

type ImportService struct {
	store  TransactionStore
	now    func() time.Time
	logger *zap.Logger
}

func NewImportService(store TransactionStore, logger *zap.Logger) *ImportService {
	return &ImportService{
		store:  store,
		now:    time.Now,
		logger: logger,
	}
}

// ImportJSON reads a JSON array of records from r and inserts the valid ones
// in a single batch. Invalid records are skipped and logged.
func (s *ImportService) ImportJSON(ctx context.Context, r io.Reader) (dto.ImportResult, error) {
	var records []ImportRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return dto.ImportResult{}, Validation(fmt.Sprintf("Invalid import file: %v", err))
	}

	now := s.now()
	var result dto.ImportResult
	batch := make([]*models.Transaction, 0, len(records))
	for i, rec := range records {
		tx, err := rec.toTransaction(now)
		if err != nil {
			s.logger.Warn("Skipping import record", zap.Int("index", i), zap.Error(err))
			result.Skipped++
			continue
		}
		batch = append(batch, tx)
	}

	if len(batch) > 0 {
		if err := s.store.CreateBatch(ctx, batch); err != nil {
			return dto.ImportResult{}, fmt.Errorf("failed to insert transactions: %w", err)
		}
	}
	result.Imported = len(batch)

	s.logger.Info("Import finished", zap.Int("imported", result.Imported), zap.Int("skipped", result.Skipped))
	return result, nil
}

func (rec ImportRecord) toTransaction(now time.Time) (*models.Transaction, error) {
	date, err := parseImportDate(rec.Date)
	if err != nil {
		return nil, err
	}
	if rec.Amount == nil {
		return nil, fmt.Errorf("amount is required")
	}
	if math.IsNaN(*rec.Amount) || math.IsInf(*rec.Amount, 0) {
		return nil, fmt.Errorf("amount must be finite")
	}

	category := models.TransactionCategory(strings.TrimSpace(rec.Category))
	if !category.Valid() {
		return nil, fmt.Errorf("unknown category %q", rec.Category)
	}
	status := models.TransactionStatus(strings.TrimSpace(rec.Status))
	if !status.Valid() {
		return nil, fmt.Errorf("unknown status %q", rec.Status)
	}

	userID := sanitizeUTF8(strings.TrimSpace(rec.UserID))
	profile := sanitizeUTF8(strings.TrimSpace(rec.UserProfile))
	if userID == "" || profile == "" {
		return nil, fmt.Errorf("user_id and user_profile are required")
	}

	return &models.Transaction{
		ID:          uuid.New(),
		Date:        date,
		Amount:      *rec.Amount,
		Category:    category,
		Status:      status,
		UserID:      userID,
		UserProfile: profile,
		Name:        sanitizeUTF8(strings.TrimSpace(rec.Name)),
		Description: sanitizeUTF8(strings.TrimSpace(rec.Description)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func parseImportDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	for _, layout := range importDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", raw)
}

// sanitizeUTF8 drops invalid UTF-8 bytes so text survives a Postgres insert.
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	var result strings.Builder
	result.Grow(len(s))
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && size == 1 {
			s = s[1:]
			continue
		}
		result.WriteRune(r)
		s = s[size:]
	}
	return result.String()
}
