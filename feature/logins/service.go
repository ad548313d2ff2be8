package logins

import (
	"context"
	"sync"
	"time"

	"pass-fxa/core/loginsync"
	"pass-fxa/core/loginsync/sqlstore"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultSessionTTL is the lifetime of a session token.
const DefaultSessionTTL = time.Hour

type session struct {
	accountID string
	expires   time.Time
}

// Service manages sessions on a SQL login store.
type Service struct {
	store  *sqlstore.Store
	logger *zap.Logger
	ttl    time.Duration
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]session
}

// NewService creates a new logins service.
func NewService(store *sqlstore.Store, logger *zap.Logger, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Service{
		store:    store,
		logger:   logger,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]session),
	}
}

// CreateSession authenticates an account and returns a new bearer token.
func (s *Service) CreateSession(ctx context.Context, username, password string) (string, error) {
	client, err := s.store.Session(ctx, username, password)
	if err != nil {
		return "", err
	}

	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prune()
	s.sessions[token] = session{accountID: client.AccountID(), expires: s.now().Add(s.ttl)}
	return token, nil
}

// Client returns the login client of a live session.
func (s *Service) Client(token string) (loginsync.Client, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return nil, false
	}
	if !s.now().Before(sess.expires) {
		delete(s.sessions, token)
		return nil, false
	}
	return s.store.Client(sess.accountID), true
}

// prune drops expired sessions. Callers hold mu.
func (s *Service) prune() {
	now := s.now()
	for token, sess := range s.sessions {
		if !now.Before(sess.expires) {
			delete(s.sessions, token)
		}
	}
}
