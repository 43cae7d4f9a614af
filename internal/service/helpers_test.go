package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/repository"

	"github.com/google/uuid"
)

type sentMail struct {
	to, subject, body string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *recordingMailer) Send(_ context.Context, to, subject, body string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return "<" + uuid.NewString() + "@test>", nil
}

func (m *recordingMailer) last() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentMail{}
	}
	return m.sent[len(m.sent)-1]
}

var errSMTPDown = errors.New("smtp down")

type clock struct {
	t time.Time
}

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func tx(date time.Time, amount float64, category models.TransactionCategory, status models.TransactionStatus, userID string) *models.Transaction {
	return &models.Transaction{
		ID:          uuid.New(),
		Date:        date,
		Amount:      amount,
		Category:    category,
		Status:      status,
		UserID:      userID,
		UserProfile: "https://example.com/" + userID + ".png",
		Name:        "name " + userID,
		Description: "description " + userID,
	}
}

func seededStore(txs ...*models.Transaction) *repository.MemoryTransactionRepository {
	store := repository.NewMemoryTransactionRepository()
	if err := store.CreateBatch(context.Background(), txs); err != nil {
		panic(err)
	}
	return store
}
