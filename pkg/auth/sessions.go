package auth

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore maps opaque session tokens to user ids.
type SessionStore interface {
	Get(token string) (string, bool)
	Set(token, userID string, ttl time.Duration) error
	Delete(token string) error
}

// RedisSessions keeps sessions in Redis so they survive restarts and can be
// shared across instances.
type RedisSessions struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisSessions(addr string) *RedisSessions {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisSessions{
		client: rdb,
		ctx:    context.Background(),
	}
}

func (r *RedisSessions) Get(token string) (string, bool) {
	val, err := r.client.Get(r.ctx, sessionKey(token)).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (r *RedisSessions) Set(token, userID string, ttl time.Duration) error {
	return r.client.Set(r.ctx, sessionKey(token), userID, ttl).Err()
}

func (r *RedisSessions) Delete(token string) error {
	return r.client.Del(r.ctx, sessionKey(token)).Err()
}

func sessionKey(token string) string {
	return "session:" + token
}

// MemorySessions is an in-process SessionStore used in tests and when no
// Redis address is configured.
type MemorySessions struct {
	mu       sync.Mutex
	sessions map[string]memorySession
}

type memorySession struct {
	userID    string
	expiresAt time.Time
}

func NewMemorySessions() *MemorySessions {
	return &MemorySessions{sessions: make(map[string]memorySession)}
}

func (m *MemorySessions) Get(token string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return "", false
	}
	if time.Now().After(s.expiresAt) {
		delete(m.sessions, token)
		return "", false
	}
	return s.userID, true
}

func (m *MemorySessions) Set(token, userID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[token] = memorySession{userID: userID, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (m *MemorySessions) Delete(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}
