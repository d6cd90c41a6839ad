// Package auth is the identity collaborator: it issues opaque session
// tokens and answers "who is this" with a stable user id that the rest of
// the system uses as its persistence partition key. The user registry is
// deliberately in-memory; durable account storage is outside this system.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidCredentials is returned for a bad email/password pair.
var ErrInvalidCredentials = errors.New("invalid credentials")

type user struct {
	id     string
	email  string
	salt   []byte
	digest [sha256.Size]byte
}

// Service implements signup/login/logout over a SessionStore.
type Service struct {
	mu       sync.Mutex
	users    map[string]user // keyed by lowercased email
	sessions SessionStore
	ttl      time.Duration
}

func NewService(sessions SessionStore, ttl time.Duration) *Service {
	return &Service{
		users:    make(map[string]user),
		sessions: sessions,
		ttl:      ttl,
	}
}

// Signup registers a new user and returns its stable id.
func (s *Service) Signup(email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return "", fmt.Errorf("a valid email is required")
	}
	if len(password) < 6 {
		return "", fmt.Errorf("password must be at least 6 characters")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[email]; exists {
		return "", fmt.Errorf("account already exists for %s", email)
	}

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	u := user{
		id:     uuid.New().String(),
		email:  email,
		salt:   salt,
		digest: digest(salt, password),
	}
	s.users[email] = u
	return u.id, nil
}

// Login checks the credentials and returns a fresh session token.
func (s *Service) Login(email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	s.mu.Lock()
	u, ok := s.users[email]
	s.mu.Unlock()
	if !ok {
		return "", ErrInvalidCredentials
	}

	d := digest(u.salt, password)
	if subtle.ConstantTimeCompare(d[:], u.digest[:]) != 1 {
		return "", ErrInvalidCredentials
	}

	token := uuid.New().String()
	if err := s.sessions.Set(token, u.id, s.ttl); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

// Logout invalidates a session token.
func (s *Service) Logout(token string) error {
	return s.sessions.Delete(token)
}

// UserID resolves a session token to the authenticated user's id.
func (s *Service) UserID(token string) (string, bool) {
	if token == "" {
		return "", false
	}
	return s.sessions.Get(token)
}

func digest(salt []byte, password string) [sha256.Size]byte {
	h := sha256.New()
	h.Write(salt)
	h.Write([]byte(password))
	var out [sha256.Size]byte
	copy(out[:], h.Sum(nil))
	return out
}
