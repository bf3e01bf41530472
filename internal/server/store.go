package server

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/pathfinder/internal/ai"
	"github.com/spigell/pathfinder/internal/logger"
	"github.com/spigell/pathfinder/internal/questionnaire"
	"github.com/spigell/pathfinder/internal/session"
)

// Store keeps the sessions of all visitors in memory.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
	catalog  *questionnaire.Catalog
	analyzer ai.Analyzer
	logger   *zap.Logger
}

func NewStore(catalog *questionnaire.Catalog, analyzer ai.Analyzer, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}

	return &Store{
		sessions: make(map[string]*session.Session),
		catalog:  catalog,
		analyzer: analyzer,
		logger:   log,
	}
}

// Create starts a new session in the intro state and returns its id.
func (s *Store) Create() (string, *session.Session) {
	id := uuid.NewString()
	sess := session.New(s.catalog, s.analyzer, logger.WithSession(s.logger, id))

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[id] = sess
	return id, sess
}

func (s *Store) Get(id string) (*session.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	return sess, ok
}

// Delete drops the session. A pending analysis still finishes but its result is discarded.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
