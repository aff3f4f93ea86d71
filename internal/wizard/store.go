package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("wizard: session not found")

// Store holds wizard drafts between steps. Implementations are
// interchangeable; the wizard never branches on which backend it runs on.
type Store interface {
	Get(ctx context.Context, id uuid.UUID) (Session, error)
	Put(ctx context.Context, s Session) error
	Delete(ctx context.Context, id uuid.UUID) error
}

const redisKeyPrefix = "sewa:wizard:session:"

// RedisStore keeps drafts in Redis with a TTL, so abandoned sessions
// expire on their own.
type RedisStore struct {
	Client *redis.Client
	TTL    time.Duration
}

// Get implements Store.
func (s RedisStore) Get(ctx context.Context, id uuid.UUID) (Session, error) {
	data, err := s.Client.Get(ctx, redisKeyPrefix+id.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, err
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return Session{}, err
	}
	return session, nil
}

// Put implements Store.
func (s RedisStore) Put(ctx context.Context, session Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	ttl := s.TTL
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return s.Client.Set(ctx, redisKeyPrefix+session.ID.String(), data, ttl).Err()
}

// Delete implements Store.
func (s RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.Client.Del(ctx, redisKeyPrefix+id.String()).Err()
}

// MemoryStore is the in-process Store used in tests and single-node
// deployments. Entries do not expire.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]Session
}

// NewMemoryStore builds an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[uuid.UUID]Session)}
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return session, nil
}

// Put implements Store.
func (s *MemoryStore) Put(_ context.Context, session Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
