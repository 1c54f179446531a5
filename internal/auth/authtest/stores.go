// Package authtest provides in-memory auth stores for handler and service tests.
package authtest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/johnrirwin/yatra/internal/database"
	"github.com/johnrirwin/yatra/internal/models"
	"github.com/johnrirwin/yatra/internal/testutil"
)

// AuthStores is an in-memory stand-in for the user, session and login
// attempt tables. Expiry is judged against clock.
type AuthStores struct {
	mu       sync.Mutex
	nextID   int
	users    map[string]*models.User
	sessions map[string]*models.Session
	attempts []*models.LoginAttempt
	clock    *testutil.Clock
}

func NewAuthStores(clock *testutil.Clock) *AuthStores {
	return &AuthStores{
		users:    make(map[string]*models.User),
		sessions: make(map[string]*models.Session),
		clock:    clock,
	}
}

func (m *AuthStores) Users() *MemoryUsers       { return &MemoryUsers{m} }
func (m *AuthStores) Sessions() *MemorySessions { return &MemorySessions{m} }
func (m *AuthStores) Attempts() *MemoryAttempts { return &MemoryAttempts{m} }

// SessionCount returns the number of stored sessions, expired or not.
func (m *AuthStores) SessionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *AuthStores) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

type MemoryUsers struct{ *AuthStores }

func (m *MemoryUsers) Create(ctx context.Context, params models.CreateUserParams) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == params.Email {
			return nil, database.ErrEmailTaken
		}
	}
	u := &models.User{ID: m.id("user"), Email: params.Email, Name: params.Name, PasswordHash: params.PasswordHash}
	m.users[u.ID] = u
	return u, nil
}

func (m *MemoryUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id], nil
}

func (m *MemoryUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

type MemorySessions struct{ *AuthStores }

func (m *MemorySessions) Create(ctx context.Context, userID, tokenHash string, expiresAt time.Time) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.id("session")
	s := &models.Session{ID: id, UserID: userID, TokenHash: tokenHash, ExpiresAt: expiresAt}
	m.sessions[id] = s
	return s, nil
}

func (m *MemorySessions) GetByTokenHash(ctx context.Context, tokenHash string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.TokenHash == tokenHash && s.ExpiresAt.After(m.clock.Now()) {
			return s, nil
		}
	}
	return nil, nil
}

func (m *MemorySessions) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

type MemoryAttempts struct{ *AuthStores }

func (m *MemoryAttempts) Create(ctx context.Context, phone, code string, expiresAt time.Time) (*models.LoginAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := &models.LoginAttempt{ID: m.id("attempt"), Phone: phone, Code: code, ExpiresAt: expiresAt, CreatedAt: m.clock.Now()}
	m.attempts = append(m.attempts, a)
	return a, nil
}

// FindValid returns the newest unconsumed, unexpired attempt matching phone and code.
func (m *MemoryAttempts) FindValid(ctx context.Context, phone, code string, now time.Time) (*models.LoginAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matches []*models.LoginAttempt
	for _, a := range m.attempts {
		if a.Phone == phone && a.Code == code && !a.Consumed && a.ExpiresAt.After(now) {
			matches = append(matches, a)
		}
	}
	if len(matches) == 0 {
		return nil, nil
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].CreatedAt.After(matches[j].CreatedAt) })
	return matches[0], nil
}

func (m *MemoryAttempts) Redeem(ctx context.Context, attemptID, phone string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.attempts {
		if a.ID != attemptID {
			continue
		}
		if a.Consumed {
			return nil, database.ErrAttemptConsumed
		}
		a.Consumed = true
	}
	for _, u := range m.users {
		if u.Phone == phone {
			u.PhoneVerified = true
			return u, nil
		}
	}
	u := &models.User{ID: m.id("user"), Email: models.PhonePlaceholderEmail(phone), Phone: phone, PhoneVerified: true}
	m.users[u.ID] = u
	return u, nil
}
