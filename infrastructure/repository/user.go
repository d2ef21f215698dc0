package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vfg2006/sales-analytics-api/infrastructure/database"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
)

const (
	usersTable = "users"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, userID int) (*domain.User, error)
}

type userRepository struct {
	conn *database.Connection
}

func NewUserRepository(conn *database.Connection) UserRepository {
	return &userRepository{
		conn: conn,
	}
}

func (r *userRepository) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	query, args, err := r.conn.Builder().
		Insert(usersTable).
		Columns("name", "email", "password_hash", "active").
		Values(user.Name, user.Email, user.PasswordHash, user.Active).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build the insert query: %w", err)
	}

	if err := r.conn.QueryRowContext(ctx, query, args...).Scan(&user.ID); err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query, args, err := r.conn.Builder().
		Select("id", "name", "email", "password_hash", "active", "created_at", "updated_at").
		From(usersTable).
		Where("email = ?", email).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build the query: %w", err)
	}

	return r.scanUser(r.conn.QueryRowContext(ctx, query, args...))
}

func (r *userRepository) GetUserByID(ctx context.Context, userID int) (*domain.User, error) {
	query, args, err := r.conn.Builder().
		Select("id", "name", "email", "password_hash", "active", "created_at", "updated_at").
		From(usersTable).
		Where("id = ?", userID).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build the query: %w", err)
	}

	return r.scanUser(r.conn.QueryRowContext(ctx, query, args...))
}

func (r *userRepository) scanUser(row *sql.Row) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Active,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	return user, nil
}
