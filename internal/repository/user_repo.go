package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"parkshare/internal/apperrors"
	"parkshare/internal/db"
)

type UserRepository interface {
	CreateUser(user *db.User) error
	GetByPhone(phone string) (*db.User, error)
	GetByID(userID int) (*db.User, error)
	SetActive(userID int, active bool) error
	SetRole(userID int, role string) error
	ListUsers(limit, offset int) ([]db.User, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(database *sql.DB) UserRepository {
	return &userRepository{db: database}
}

const userColumns = `id, full_name, phone, email, card_number, bank, role, password_hash, is_active, created_at`

func (r *userRepository) CreateUser(user *db.User) error {
	query := `
		INSERT INTO users (full_name, phone, email, card_number, bank, role, password_hash, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
		RETURNING id, created_at`
	err := r.db.QueryRow(query,
		user.FullName,
		user.Phone,
		user.Email,
		user.CardNumber,
		user.Bank,
		user.Role,
		user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return apperrors.Storage("create user", err)
	}
	return nil
}

// GetByPhone returns nil without an error when no such user exists, so the
// login path can answer "invalid credentials" without leaking which part was
// wrong.
func (r *userRepository) GetByPhone(phone string) (*db.User, error) {
	var user db.User
	err := r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE phone = $1`, phone).Scan(
		&user.ID, &user.FullName, &user.Phone, &user.Email, &user.CardNumber, &user.Bank,
		&user.Role, &user.PasswordHash, &user.IsActive, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.Storage("get user by phone", err)
	}
	return &user, nil
}

func (r *userRepository) GetByID(userID int) (*db.User, error) {
	var user db.User
	err := r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, userID).Scan(
		&user.ID, &user.FullName, &user.Phone, &user.Email, &user.CardNumber, &user.Bank,
		&user.Role, &user.PasswordHash, &user.IsActive, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", userID, apperrors.ErrNotFound)
		}
		return nil, apperrors.Storage("get user", err)
	}
	return &user, nil
}

func (r *userRepository) SetActive(userID int, active bool) error {
	result, err := r.db.Exec(`UPDATE users SET is_active = $1 WHERE id = $2`, active, userID)
	if err != nil {
		return apperrors.Storage("set user active", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Storage("rows affected", err)
	}
	if affected == 0 {
		return fmt.Errorf("user %d: %w", userID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *userRepository) SetRole(userID int, role string) error {
	result, err := r.db.Exec(`UPDATE users SET role = $1 WHERE id = $2`, role, userID)
	if err != nil {
		return apperrors.Storage("set user role", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Storage("rows affected", err)
	}
	if affected == 0 {
		return fmt.Errorf("user %d: %w", userID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *userRepository) ListUsers(limit, offset int) ([]db.User, error) {
	rows, err := r.db.Query(
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, apperrors.Storage("list users", err)
	}
	defer rows.Close()

	var users []db.User
	for rows.Next() {
		var user db.User
		if err := rows.Scan(
			&user.ID, &user.FullName, &user.Phone, &user.Email, &user.CardNumber, &user.Bank,
			&user.Role, &user.PasswordHash, &user.IsActive, &user.CreatedAt,
		); err != nil {
			return nil, apperrors.Storage("scan user", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("iterate users", err)
	}
	return users, nil
}
