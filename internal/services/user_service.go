package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/isdelr/life-planner-be/internal/database"
	"github.com/isdelr/life-planner-be/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(ctx context.Context, email, password, name string) (models.User, string, error)
	Login(ctx context.Context, email, password string) (models.User, string, error)
	GetUserByID(ctx context.Context, id int64) (models.User, error)
}

// TokenIssuer issues bearer tokens for a user id.
type TokenIssuer interface {
	Issue(userID int64) (string, error)
}

// UserService stores credentials and issues tokens on registration and login.
type UserService struct {
	db       *sql.DB
	tokens   TokenIssuer
	hashCost int
	now      func() time.Time
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, tokens TokenIssuer) *UserService {
	return &UserService{db: db, tokens: tokens, hashCost: bcrypt.DefaultCost, now: time.Now}
}

type registerInput struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
	Name     string `validate:"required"`
}

// Register creates a user together with its default settings row and returns
// a token for it. Every new account is marked pro; there is no payment step.
func (s *UserService) Register(ctx context.Context, email, password, name string) (models.User, string, error) {
	if err := validateInput(registerInput{Email: email, Password: password, Name: name}); err != nil {
		return models.User{}, "", err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return models.User{}, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Name:         name,
		IsPro:        true,
		CreatedAt:    s.now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.User{}, "", err
	}
	defer tx.Rollback()

	var existing int64
	err = tx.QueryRowContext(ctx, "SELECT id FROM users WHERE email = ?", email).Scan(&existing)
	if err == nil {
		return models.User{}, "", ErrDuplicateEmail
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.User{}, "", err
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, name, is_pro, created_at) VALUES (?, ?, ?, ?, ?)",
		user.Email, user.PasswordHash, user.Name, user.IsPro, database.FormatTime(user.CreatedAt))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return models.User{}, "", ErrDuplicateEmail
		}
		return models.User{}, "", err
	}
	if user.ID, err = res.LastInsertId(); err != nil {
		return models.User{}, "", err
	}

	if _, err = tx.ExecContext(ctx, "INSERT INTO user_settings (user_id) VALUES (?)", user.ID); err != nil {
		return models.User{}, "", fmt.Errorf("failed to create default settings: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return models.User{}, "", err
	}
	if err = tx.Commit(); err != nil {
		return models.User{}, "", err
	}

	user.PasswordHash = ""
	return user, token, nil
}

type loginInput struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

// Login verifies a user's credentials and returns a fresh token. An unknown
// email and a wrong password produce the same error.
func (s *UserService) Login(ctx context.Context, email, password string) (models.User, string, error) {
	if err := validateInput(loginInput{Email: email, Password: password}); err != nil {
		return models.User{}, "", err
	}

	user, err := s.getUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.User{}, "", ErrInvalidCredentials
		}
		return models.User{}, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return models.User{}, "", err
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, token, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, email, password_hash, name, is_pro, created_at FROM users WHERE id = ?", id)
	user, err := scanUser(row)
	if err != nil {
		return models.User{}, err
	}
	user.PasswordHash = ""
	return user, nil
}

// getUserByEmail retrieves a user including the password hash.
func (s *UserService) getUserByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, email, password_hash, name, is_pro, created_at FROM users WHERE email = ?", email)
	return scanUser(row)
}

func scanUser(scanner interface{ Scan(...interface{}) error }) (models.User, error) {
	var user models.User
	var createdAt string
	err := scanner.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.IsPro, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("user %w", ErrNotFound)
		}
		return models.User{}, err
	}
	if user.CreatedAt, err = database.ParseTime(createdAt); err != nil {
		return models.User{}, err
	}
	return user, nil
}
