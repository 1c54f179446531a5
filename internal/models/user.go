package models

import "time"

// User is an account. Email/password users have a PasswordHash; phone users
// created through OTP login get a placeholder email.
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name,omitempty"`
	PasswordHash  string    `json:"-"`
	Phone         string    `json:"phone,omitempty"`
	PhoneVerified bool      `json:"phoneVerified"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type CreateUserParams struct {
	Email        string
	Name         string
	PasswordHash string
}

// Session is a server-side login record. The cookie carries a signed token
// naming the session; only a hash of the session secret is stored.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	TokenHash string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// LoginAttempt is a one-time code issued to a phone number.
type LoginAttempt struct {
	ID        string    `json:"id"`
	Phone     string    `json:"phone"`
	Code      string    `json:"-"`
	Consumed  bool      `json:"consumed"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// PhonePlaceholderEmail is the email given to accounts created by phone login.
func PhonePlaceholderEmail(phone string) string {
	return phone + "@example.local"
}
