// Package auth implements email/password and phone OTP login with
// cookie-carried, server-revocable sessions.
package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/johnrirwin/yatra/internal/database"
	"github.com/johnrirwin/yatra/internal/logging"
	"github.com/johnrirwin/yatra/internal/models"
	"github.com/johnrirwin/yatra/internal/ratelimit"
)

const (
	bcryptCost        = 10
	minPasswordLength = 8
	minPhoneLength    = 8
	otpLength         = 6
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = database.ErrEmailTaken
	ErrInvalidCode        = errors.New("invalid or expired code")
	ErrOTPThrottled       = errors.New("code requested too recently")
	ErrUnauthenticated    = errors.New("not authenticated")
)

// ThrottledError is returned by RequestOTP when the phone asked for a code too
// recently. It matches ErrOTPThrottled. RetryAfter is zero when unknown.
type ThrottledError struct {
	RetryAfter time.Duration
}

func (e *ThrottledError) Error() string {
	return ErrOTPThrottled.Error()
}

func (e *ThrottledError) Is(target error) bool {
	return target == ErrOTPThrottled
}

type userStore interface {
	Create(ctx context.Context, params models.CreateUserParams) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type sessionStore interface {
	Create(ctx context.Context, userID, tokenHash string, expiresAt time.Time) (*models.Session, error)
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}

type loginAttemptStore interface {
	Create(ctx context.Context, phone, code string, expiresAt time.Time) (*models.LoginAttempt, error)
	FindValid(ctx context.Context, phone, code string, now time.Time) (*models.LoginAttempt, error)
	Redeem(ctx context.Context, attemptID, phone string) (*models.User, error)
}

type Config struct {
	JWTSecret  []byte
	SessionTTL time.Duration
	OTPTTL     time.Duration
	// ExposeOTP returns issued codes in the response. Development only.
	ExposeOTP bool
}

// Service handles account creation, login and session lookup.
type Service struct {
	users      userStore
	sessions   sessionStore
	attempts   loginAttemptStore
	otpLimiter ratelimit.RateLimiter
	tokens     *tokenIssuer
	cfg        Config
	logger     *logging.Logger
	now        func() time.Time
	newCode    func() (string, error)
}

// Login is an established session and the token naming it.
type Login struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

// OTPRequest describes an issued code. PreviewCode is set only when
// ExposeOTP is enabled.
type OTPRequest struct {
	ExpiresAt   time.Time
	PreviewCode string
}

func NewService(users userStore, sessions sessionStore, attempts loginAttemptStore, otpLimiter ratelimit.RateLimiter, cfg Config, logger *logging.Logger) *Service {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 7 * 24 * time.Hour
	}
	if cfg.OTPTTL <= 0 {
		cfg.OTPTTL = 5 * time.Minute
	}
	s := &Service{
		users:      users,
		sessions:   sessions,
		attempts:   attempts,
		otpLimiter: otpLimiter,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
		newCode:    generateCode,
	}
	s.tokens = &tokenIssuer{secret: cfg.JWTSecret, now: func() time.Time { return s.now() }}
	return s
}

type SignupParams struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (s *Service) Signup(ctx context.Context, params SignupParams) (*Login, error) {
	email, err := validateEmail(params.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(params.Password); err != nil {
		return nil, err
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.Create(ctx, models.CreateUserParams{
		Email:        email,
		Name:         params.Name,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User signed up", logging.WithField("user_id", user.ID))
	return s.createSession(ctx, user)
}

func (s *Service) Login(ctx context.Context, email, password string) (*Login, error) {
	email, err := validateEmail(email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.createSession(ctx, user)
}

// RequestOTP issues a one-time code for phone. Requests for the same phone
// closer together than the limiter allows return ErrOTPThrottled.
func (s *Service) RequestOTP(ctx context.Context, phone string) (*OTPRequest, error) {
	phone, err := validatePhone(phone)
	if err != nil {
		return nil, err
	}
	if s.otpLimiter != nil && !s.otpLimiter.Allow(phone) {
		throttled := &ThrottledError{}
		if advisor, ok := s.otpLimiter.(ratelimit.RetryAdvisor); ok {
			throttled.RetryAfter = advisor.RetryAfter(phone)
		}
		return nil, throttled
	}

	code, err := s.newCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate code: %w", err)
	}

	expiresAt := s.now().Add(s.cfg.OTPTTL)
	if _, err := s.attempts.Create(ctx, phone, code, expiresAt); err != nil {
		return nil, err
	}

	// No SMS provider is wired; the code is only ever delivered via PreviewCode.
	result := &OTPRequest{ExpiresAt: expiresAt}
	if s.cfg.ExposeOTP {
		result.PreviewCode = code
	}
	return result, nil
}

// VerifyOTP redeems the newest matching code and logs the phone's user in,
// creating the account on first use.
func (s *Service) VerifyOTP(ctx context.Context, phone, code string) (*Login, error) {
	phone, err := validatePhone(phone)
	if err != nil {
		return nil, err
	}
	code = strings.TrimSpace(code)
	if utf8.RuneCountInString(code) != otpLength {
		return nil, &models.ValidationError{Field: "code", Message: "must be 6 digits"}
	}

	attempt, err := s.attempts.FindValid(ctx, phone, code, s.now())
	if err != nil {
		return nil, err
	}
	if attempt == nil {
		return nil, ErrInvalidCode
	}

	user, err := s.attempts.Redeem(ctx, attempt.ID, phone)
	if errors.Is(err, database.ErrAttemptConsumed) {
		return nil, ErrInvalidCode
	}
	if err != nil {
		return nil, err
	}

	return s.createSession(ctx, user)
}

// Authenticate resolves a session token to its user.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.User, *models.Session, error) {
	claims, err := s.tokens.parse(token)
	if err != nil {
		return nil, nil, ErrUnauthenticated
	}

	session, err := s.sessions.GetByTokenHash(ctx, hashTokenID(claims.ID))
	if err != nil {
		return nil, nil, err
	}
	if session == nil || session.UserID != claims.Subject || !session.ExpiresAt.After(s.now()) {
		return nil, nil, ErrUnauthenticated
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrUnauthenticated
	}
	return user, session, nil
}

// Logout revokes the session named by token. Unknown or invalid tokens are
// not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.parse(token)
	if err != nil {
		return nil
	}
	session, err := s.sessions.GetByTokenHash(ctx, hashTokenID(claims.ID))
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}
	return s.sessions.Delete(ctx, session.ID)
}

func (s *Service) createSession(ctx context.Context, user *models.User) (*Login, error) {
	expiresAt := s.now().Add(s.cfg.SessionTTL)
	token, tokenID, err := s.tokens.issue(user.ID, expiresAt)
	if err != nil {
		return nil, err
	}

	if _, err := s.sessions.Create(ctx, user.ID, hashTokenID(tokenID), expiresAt); err != nil {
		return nil, err
	}

	return &Login{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func validateEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", &models.ValidationError{Field: "email", Message: "must be a valid email address"}
	}
	return email, nil
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return &models.ValidationError{Field: "password", Message: "must be at least 8 characters"}
	}
	return nil
}

func validatePhone(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if utf8.RuneCountInString(phone) < minPhoneLength {
		return "", &models.ValidationError{Field: "phone", Message: "must be at least 8 characters"}
	}
	return phone, nil
}

// generateCode returns a uniformly random 6-digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
