package repository

import (
	"context"
	"fmt"
	"strings"

	"fintrack/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var transactionColumns = []string{
	"id", "date", "amount", "category", "status", "user_id", "user_profile", "name", "description", "created_at", "updated_at",
}

// insertBatchRows keeps one INSERT under the 65535 bind parameter limit of the
// Postgres wire protocol.
const insertBatchRows = 5000

type TransactionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTransactionRepository(db *pgxpool.Pool, logger *zap.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *TransactionRepository) CreateBatch(ctx context.Context, transactions []*models.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin insert: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, query := range insertTransactionsQueries(transactions) {
		sql, args, err := query.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("failed to insert transactions: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *TransactionRepository) List(ctx context.Context, filter models.TransactionFilter, sort models.TransactionSort, page models.Page) ([]*models.Transaction, error) {
	if page.Offset < 0 {
		return nil, ErrBadOffset
	}
	sql, args, err := listTransactionsQuery(filter, sort, page).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		var tx models.Transaction
		var category, status string
		if err := rows.Scan(
			&tx.ID, &tx.Date, &tx.Amount, &category, &status, &tx.UserID, &tx.UserProfile, &tx.Name, &tx.Description, &tx.CreatedAt, &tx.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tx.Category = models.TransactionCategory(category)
		tx.Status = models.TransactionStatus(status)
		transactions = append(transactions, &tx)
	}

	return transactions, rows.Err()
}

func (r *TransactionRepository) Count(ctx context.Context, filter models.TransactionFilter) (int64, error) {
	sql, args, err := aggregateQuery("COUNT(*)", filter).ToSql()
	if err != nil {
		return 0, err
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

func (r *TransactionRepository) Sum(ctx context.Context, filter models.TransactionFilter) (float64, error) {
	sql, args, err := aggregateQuery(sumAmount, filter).ToSql()
	if err != nil {
		return 0, err
	}

	var sum float64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum transactions: %w", err)
	}
	return sum, nil
}

func (r *TransactionRepository) StatusCategoryTotals(ctx context.Context) ([]models.StatusCategoryTotal, error) {
	sql, args, err := statusCategoryQuery().ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate transactions: %w", err)
	}
	defer rows.Close()

	var totals []models.StatusCategoryTotal
	for rows.Next() {
		var status, category string
		var total float64
		if err := rows.Scan(&status, &category, &total); err != nil {
			return nil, err
		}
		totals = append(totals, models.StatusCategoryTotal{
			Status:   models.TransactionStatus(status),
			Category: models.TransactionCategory(category),
			Total:    total,
		})
	}

	return totals, rows.Err()
}

// insertTransactionsQueries splits transactions into INSERTs of at most
// insertBatchRows rows each.
func insertTransactionsQueries(transactions []*models.Transaction) []squirrel.InsertBuilder {
	var queries []squirrel.InsertBuilder
	for start := 0; start < len(transactions); start += insertBatchRows {
		end := min(start+insertBatchRows, len(transactions))
		queries = append(queries, insertTransactionsQuery(transactions[start:end]))
	}
	return queries
}

func insertTransactionsQuery(transactions []*models.Transaction) squirrel.InsertBuilder {
	builder := squirrel.Insert("transactions").
		Columns(transactionColumns...).
		PlaceholderFormat(squirrel.Dollar)

	for _, tx := range transactions {
		builder = builder.Values(tx.ID, tx.Date, tx.Amount, string(tx.Category), string(tx.Status), tx.UserID, tx.UserProfile,
			tx.Name, tx.Description, tx.CreatedAt, tx.UpdatedAt)
	}
	return builder
}

func listTransactionsQuery(filter models.TransactionFilter, sort models.TransactionSort, page models.Page) squirrel.SelectBuilder {
	direction := "ASC"
	if sort.Desc {
		direction = "DESC"
	}

	query := applyFilter(squirrel.Select(transactionColumns...).From("transactions"), filter).
		OrderBy(fmt.Sprintf("%s %s", sort.Field, direction), "id ASC").
		PlaceholderFormat(squirrel.Dollar)

	if page.Limit > 0 {
		query = query.Limit(uint64(page.Limit))
	}
	if page.Offset > 0 {
		query = query.Offset(uint64(page.Offset))
	}
	return query
}

// sumAmount adds the amounts as NUMERIC so cents do not drift.
const sumAmount = "COALESCE(SUM(amount::numeric), 0)::float8"

func aggregateQuery(expr string, filter models.TransactionFilter) squirrel.SelectBuilder {
	return applyFilter(squirrel.Select(expr).From("transactions"), filter).
		PlaceholderFormat(squirrel.Dollar)
}

func statusCategoryQuery() squirrel.SelectBuilder {
	return squirrel.Select("status", "category", sumAmount).
		From("transactions").
		Where(squirrel.Eq{"status": []string{string(models.StatusPaid), string(models.StatusPending)}}).
		Where(squirrel.Eq{"category": []string{string(models.CategoryRevenue), string(models.CategoryExpense)}}).
		GroupBy("status", "category").
		PlaceholderFormat(squirrel.Dollar)
}

func applyFilter(query squirrel.SelectBuilder, filter models.TransactionFilter) squirrel.SelectBuilder {
	if filter.Search != "" {
		pattern := "%" + escapeLike(filter.Search) + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"user_id": pattern},
		})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": string(filter.Status)})
	}
	if filter.Category != "" {
		query = query.Where(squirrel.Eq{"category": string(filter.Category)})
	}
	return query
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
