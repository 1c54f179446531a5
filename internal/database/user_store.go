package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/johnrirwin/yatra/internal/models"
)

const userColumns = `id, email, name, password_hash, phone, phone_verified, created_at, updated_at`

// UserStore handles user database operations
type UserStore struct {
	db *DB
}

// NewUserStore creates a new user store
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

// Create creates an email/password user. A duplicate email returns ErrEmailTaken.
func (s *UserStore) Create(ctx context.Context, params models.CreateUserParams) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(params.Email))

	query := `
		INSERT INTO users (id, email, name, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	user, err := scanUser(s.db.QueryRowContext(ctx, query,
		uuid.NewString(), email, strings.TrimSpace(params.Name), nullString(params.PasswordHash),
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by ID. It returns nil if there is none.
func (s *UserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return s.getOne(ctx, query, id)
}

// GetByEmail retrieves a user by email (case-insensitive)
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = $1`
	return s.getOne(ctx, query, email)
}

func (s *UserStore) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE phone = $1`
	return s.getOne(ctx, query, strings.TrimSpace(phone))
}

func (s *UserStore) getOne(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// upsertPhoneUserTx returns the user owning phone, creating it with a
// placeholder email if needed, and marks the phone verified.
func upsertPhoneUserTx(ctx context.Context, tx *sql.Tx, phone string) (*models.User, error) {
	query := `
		INSERT INTO users (id, email, phone, phone_verified)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (phone) DO UPDATE SET phone_verified = TRUE, updated_at = NOW()
		RETURNING ` + userColumns

	user, err := scanUser(tx.QueryRowContext(ctx, query, uuid.NewString(), models.PhonePlaceholderEmail(phone), phone))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert phone user: %w", err)
	}
	return user, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	var passwordHash, phone sql.NullString

	err := row.Scan(
		&user.ID, &user.Email, &user.Name, &passwordHash, &phone,
		&user.PhoneVerified, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = passwordHash.String
	user.Phone = phone.String
	return user, nil
}
