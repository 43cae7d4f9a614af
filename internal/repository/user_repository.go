package repository

import (
	"context"
	"errors"
	"fmt"

	"fintrack/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var userColumns = []string{
	"id", "email", "username", "COALESCE(password, '')", "COALESCE(otp, '')", "otp_expires_at",
	"is_email_verified", "created_at", "updated_at",
}

type UserRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewUserRepository(db *pgxpool.Pool, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	sql, args, err := insertUserQuery(user).ToSql()
	if err != nil {
		return err
	}

	if _, err = r.db.Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	sql, args, err := squirrel.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"email": email}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var user models.User
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&user.ID, &user.Email, &user.Username, &user.Password, &user.OTP, &user.OTPExpiresAt,
		&user.IsEmailVerified, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// Update overwrites every mutable field of the user row.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	sql, args, err := updateUserQuery(user).ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func insertUserQuery(user *models.User) squirrel.InsertBuilder {
	return squirrel.Insert("users").
		Columns("id", "email", "username", "password", "otp", "otp_expires_at", "is_email_verified", "created_at", "updated_at").
		Values(user.ID, user.Email, user.Username, nullString(user.Password), nullString(user.OTP), user.OTPExpiresAt,
			user.IsEmailVerified, user.CreatedAt, user.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)
}

func updateUserQuery(user *models.User) squirrel.UpdateBuilder {
	return squirrel.Update("users").
		Set("username", user.Username).
		Set("password", nullString(user.Password)).
		Set("otp", nullString(user.OTP)).
		Set("otp_expires_at", user.OTPExpiresAt).
		Set("is_email_verified", user.IsEmailVerified).
		Set("updated_at", user.UpdatedAt).
		Where(squirrel.Eq{"id": user.ID}).
		PlaceholderFormat(squirrel.Dollar)
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
