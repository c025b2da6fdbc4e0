package session

import (
	"context"
	"sync"

	"github.com/UnknownOlympus/vetscout/internal/models"
)

// Persisted field names of a session.
const (
	TokenKey  = "token"
	UserIDKey = "userId"
)

// Store persists credential pairs keyed by token. Save and Delete must write the
// whole pair or nothing.
type Store interface {
	// Load returns the session holding token, or nil when the token is unknown.
	Load(ctx context.Context, token string) (*models.Session, error)
	Save(ctx context.Context, session models.Session) error
	Delete(ctx context.Context, token string) error
}

// MemoryStore keeps the pairs in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	users map[string]string // token -> user id
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: map[string]string{}}
}

func (s *MemoryStore) Load(_ context.Context, token string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.users[token]
	if !ok {
		return nil, nil //nolint:nilnil
	}

	return &models.Session{Token: token, UserID: userID}, nil
}

func (s *MemoryStore) Save(_ context.Context, session models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[session.Token] = session.UserID

	return nil
}

func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.users, token)

	return nil
}
