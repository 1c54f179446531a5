package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/johnrirwin/yatra/internal/models"
)

// LoginAttemptStore persists one-time phone login codes.
type LoginAttemptStore struct {
	db *DB
}

func NewLoginAttemptStore(db *DB) *LoginAttemptStore {
	return &LoginAttemptStore{db: db}
}

func (s *LoginAttemptStore) Create(ctx context.Context, phone, code string, expiresAt time.Time) (*models.LoginAttempt, error) {
	query := `
		INSERT INTO login_attempts (id, phone, code, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, phone, code, consumed, expires_at, created_at
	`

	attempt := &models.LoginAttempt{}
	err := s.db.QueryRowContext(ctx, query, uuid.NewString(), phone, code, expiresAt).Scan(
		&attempt.ID, &attempt.Phone, &attempt.Code, &attempt.Consumed, &attempt.ExpiresAt, &attempt.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create login attempt: %w", err)
	}
	return attempt, nil
}

// FindValid returns the newest unconsumed attempt for phone and code that
// has not expired at now, or nil.
func (s *LoginAttemptStore) FindValid(ctx context.Context, phone, code string, now time.Time) (*models.LoginAttempt, error) {
	query := `
		SELECT id, phone, code, consumed, expires_at, created_at
		FROM login_attempts
		WHERE phone = $1 AND code = $2 AND consumed = FALSE AND expires_at > $3
		ORDER BY created_at DESC
		LIMIT 1
	`

	attempt := &models.LoginAttempt{}
	err := s.db.QueryRowContext(ctx, query, phone, code, now).Scan(
		&attempt.ID, &attempt.Phone, &attempt.Code, &attempt.Consumed, &attempt.ExpiresAt, &attempt.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find login attempt: %w", err)
	}
	return attempt, nil
}

// Redeem consumes the attempt and returns the phone's user, creating it if
// needed, in one transaction. A concurrently consumed attempt returns
// ErrAttemptConsumed.
func (s *LoginAttemptStore) Redeem(ctx context.Context, attemptID, phone string) (*models.User, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE login_attempts SET consumed = TRUE WHERE id = $1 AND consumed = FALSE`,
		attemptID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to consume login attempt: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to consume login attempt: %w", err)
	}
	if rows == 0 {
		return nil, ErrAttemptConsumed
	}

	user, err := upsertPhoneUserTx(ctx, tx, phone)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit login: %w", err)
	}
	return user, nil
}

// DeleteExpired removes attempts that expired before cutoff.
func (s *LoginAttemptStore) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM login_attempts WHERE expires_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired login attempts: %w", err)
	}
	return result.RowsAffected()
}
