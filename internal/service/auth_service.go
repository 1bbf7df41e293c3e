package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexedwards/argon2id"

	"go-blog-app/internal/data"
)

var (
	// ErrUnknownEmail is returned when no account matches the given email.
	ErrUnknownEmail = errors.New("unknown email")

	// ErrBadCredential is returned when the password does not match the stored hash.
	ErrBadCredential = errors.New("invalid credentials")
)

// UserRepository defines the interface for database operations on users.
type UserRepository interface {
	CreateUser(ctx context.Context, user *data.User) error
	GetUserByEmail(ctx context.Context, email string) (*data.User, error)
	GetUserByID(ctx context.Context, id int64) (*data.User, error)
}

// AuthServicer defines the interface for account registration and login.
type AuthServicer interface {
	Register(ctx context.Context, name, email, password string) (*data.User, error)
	Authenticate(ctx context.Context, email, password string) (*data.User, error)
}

// AuthService provides registration and credential verification.
type AuthService struct {
	users UserRepository
}

// NewAuthService creates a new AuthService with the given repository.
func NewAuthService(users UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Register creates a new account with an argon2id password hash. The plaintext
// password is never persisted. The store assigns the role atomically within
// the insert, so only the single account that finds the table empty becomes
// the admin; the email UNIQUE constraint surfaces as data.ErrDuplicateEmail.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*data.User, error) {
	hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &data.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies an email/password pair against the stored hash.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*data.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, ErrUnknownEmail
		}
		return nil, err
	}

	match, err := argon2id.ComparePasswordAndHash(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}
	if !match {
		return nil, ErrBadCredential
	}
	return user, nil
}
