package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/johnrirwin/yatra/internal/models"
)

type SupportStore struct {
	db *DB
}

func NewSupportStore(db *DB) *SupportStore {
	return &SupportStore{db: db}
}

func (s *SupportStore) Create(ctx context.Context, params models.CreateSupportParams, flagged bool) (*models.SupportRequest, error) {
	query := `
		INSERT INTO support_requests (id, name, email, subject, message, flagged)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, email, subject, message, flagged, created_at
	`

	req := &models.SupportRequest{}
	err := s.db.QueryRowContext(ctx, query,
		uuid.NewString(), params.Name, params.Email, params.Subject, params.Message, flagged,
	).Scan(&req.ID, &req.Name, &req.Email, &req.Subject, &req.Message, &req.Flagged, &req.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create support request: %w", err)
	}
	return req, nil
}
