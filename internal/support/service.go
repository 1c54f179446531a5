// Package support accepts contact requests from travellers.
package support

import (
	"context"
	"net/mail"
	"strings"
	"unicode/utf8"

	goaway "github.com/TwiN/go-away"

	"github.com/johnrirwin/yatra/internal/logging"
	"github.com/johnrirwin/yatra/internal/models"
	"github.com/johnrirwin/yatra/internal/textutil"
)

type profanityChecker interface {
	IsProfane(s string) bool
}

type requestStore interface {
	Create(ctx context.Context, params models.CreateSupportParams, flagged bool) (*models.SupportRequest, error)
}

type Service struct {
	store   requestStore
	checker profanityChecker
	logger  *logging.Logger
}

func NewService(store requestStore, logger *logging.Logger) *Service {
	return NewServiceWithChecker(store, goaway.NewProfanityDetector(), logger)
}

func NewServiceWithChecker(store requestStore, checker profanityChecker, logger *logging.Logger) *Service {
	return &Service{store: store, checker: checker, logger: logger}
}

// Submit validates and stores a request. Markup is reduced to text before
// validation. Profane requests are stored flagged for review, not rejected.
func (s *Service) Submit(ctx context.Context, params models.CreateSupportParams) (*models.SupportRequest, error) {
	params = normalize(params)
	if err := validate(params); err != nil {
		return nil, err
	}

	flagged := s.checker.IsProfane(params.Subject) || s.checker.IsProfane(params.Message)

	req, err := s.store.Create(ctx, params, flagged)
	if err != nil {
		return nil, err
	}

	if flagged {
		s.logger.Warn("Support request flagged for review", logging.WithField("id", req.ID))
	} else {
		s.logger.Info("Support request received", logging.WithField("id", req.ID))
	}
	return req, nil
}

func normalize(params models.CreateSupportParams) models.CreateSupportParams {
	return models.CreateSupportParams{
		Name:    strings.TrimSpace(params.Name),
		Email:   strings.ToLower(strings.TrimSpace(params.Email)),
		Subject: textutil.StripHTML(params.Subject),
		Message: textutil.StripHTML(params.Message),
	}
}

func validate(params models.CreateSupportParams) error {
	if utf8.RuneCountInString(params.Name) < 2 {
		return &models.ValidationError{Field: "name", Message: "must be at least 2 characters"}
	}
	if addr, err := mail.ParseAddress(params.Email); err != nil || addr.Address != params.Email {
		return &models.ValidationError{Field: "email", Message: "must be a valid email address"}
	}
	if utf8.RuneCountInString(params.Subject) < 1 {
		return &models.ValidationError{Field: "subject", Message: "is required"}
	}
	if utf8.RuneCountInString(params.Message) < 10 {
		return &models.ValidationError{Field: "message", Message: "must be at least 10 characters"}
	}
	return nil
}
