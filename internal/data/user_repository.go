package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SQLUserRepository is a concrete implementation of the UserRepository interface using sqlx.
type SQLUserRepository struct {
	db *sqlx.DB
}

// NewSQLUserRepository creates a new SQLUserRepository.
func NewSQLUserRepository(db *sqlx.DB) *SQLUserRepository {
	return &SQLUserRepository{db: db}
}

// CreateUser inserts a new user and fills in its generated id and role.
// The role is decided inside the INSERT itself: the account that finds the
// table empty becomes the admin. Computing it in the same statement keeps
// concurrent first registrations from both observing an empty table and both
// claiming the admin role. A UNIQUE violation on the email column is returned
// as ErrDuplicateEmail.
func (r *SQLUserRepository) CreateUser(ctx context.Context, user *User) error {
	query := `INSERT INTO users (email, name, password_hash, role)
		VALUES (?, ?, ?, (SELECT CASE WHEN COUNT(*) = 0 THEN ? ELSE ? END FROM users))`
	res, err := r.db.ExecContext(ctx, query, user.Email, user.Name, user.PasswordHash, RoleAdmin, RoleUser)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to execute create user query: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get new user id: %w", err)
	}
	user.ID = id

	// Read back the role the statement assigned. Roles are immutable, so this
	// cannot race with another writer.
	if err := r.db.GetContext(ctx, &user.Role, `SELECT role FROM users WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to read back assigned role: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves a single user by email address.
func (r *SQLUserRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	query := `SELECT id, email, name, password_hash, role, created_at FROM users WHERE email = ?`
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

// GetUserByID retrieves a single user by id.
func (r *SQLUserRepository) GetUserByID(ctx context.Context, id int64) (*User, error) {
	var user User
	query := `SELECT id, email, name, password_hash, role, created_at FROM users WHERE id = ?`
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

// CountUsers returns the total number of registered accounts.
func (r *SQLUserRepository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
