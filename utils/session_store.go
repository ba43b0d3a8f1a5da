package utils

import (
	"errors"
	"sync"
	"time"

	"certimport-backend/dtos"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("import session not found")
	ErrSessionState    = errors.New("import session is not in a valid state for this operation")
)

// SessionRetention is how long finished sessions are kept in memory.
const SessionRetention = time.Hour

// SessionStore manages import sessions in memory. Readers always get copies.
type SessionStore struct {
	sessions map[uuid.UUID]*dtos.ImportSession
	mu       sync.RWMutex
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[uuid.UUID]*dtos.ImportSession),
	}
}

// CleanupOldSessions removes settled sessions untouched for SessionRetention.
func (ss *SessionStore) CleanupOldSessions() {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	cutoff := time.Now().Add(-SessionRetention)
	for id, session := range ss.sessions {
		// pending, validating and committing sessions still have a goroutine writing to them
		if !session.Terminal() {
			continue
		}
		if session.UpdatedAt.Before(cutoff) {
			delete(ss.sessions, id)
		}
	}
}

// CreateSession registers a new pending session
func (ss *SessionStore) CreateSession(source, createdBy string) dtos.ImportSession {
	// Clean up old sessions on each new creation
	ss.CleanupOldSessions()

	ss.mu.Lock()
	defer ss.mu.Unlock()

	now := time.Now()
	session := &dtos.ImportSession{
		ID:        uuid.New(),
		Source:    source,
		Status:    dtos.SessionStatusPending,
		Message:   "Waiting to start",
		CreatedBy: createdBy,
		StartedAt: now,
		UpdatedAt: now,
	}

	ss.sessions[session.ID] = session
	return *session
}

// GetSession retrieves a snapshot of a session by ID
func (ss *SessionStore) GetSession(id uuid.UUID) (dtos.ImportSession, bool) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	session, exists := ss.sessions[id]
	if !exists {
		return dtos.ImportSession{}, false
	}
	return *session, true
}

func (ss *SessionStore) update(id uuid.UUID, fn func(*dtos.ImportSession)) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if session, exists := ss.sessions[id]; exists {
		fn(session)
		session.UpdatedAt = time.Now()
	}
}

// SetValidating marks a pending session as validating
func (ss *SessionStore) SetValidating(id uuid.UUID) {
	ss.update(id, func(s *dtos.ImportSession) {
		if s.Status == dtos.SessionStatusPending {
			s.Status = dtos.SessionStatusValidating
			s.Message = "Reading spreadsheet"
		}
	})
}

// UpdateProgress records validation progress. Progress never goes backwards.
func (ss *SessionStore) UpdateProgress(id uuid.UUID, percent int, message string) {
	ss.update(id, func(s *dtos.ImportSession) {
		if s.Status != dtos.SessionStatusValidating {
			return
		}
		if percent > s.Progress {
			s.Progress = percent
		}
		s.Message = message
	})
}

// CompleteValidation stores the result and moves the session to validated
func (ss *SessionStore) CompleteValidation(id uuid.UUID, result *dtos.ValidationResult) {
	ss.update(id, func(s *dtos.ImportSession) {
		if s.Status != dtos.SessionStatusValidating {
			return
		}
		now := time.Now()
		s.Status = dtos.SessionStatusValidated
		s.Progress = 100
		s.Message = "Validation finished"
		s.Result = result
		s.CompletedAt = &now
	})
}

// FailSession ends validation with an error
func (ss *SessionStore) FailSession(id uuid.UUID, message string, structureErrors, hints []string) {
	ss.update(id, func(s *dtos.ImportSession) {
		if s.Status != dtos.SessionStatusPending && s.Status != dtos.SessionStatusValidating {
			return
		}
		now := time.Now()
		s.Status = dtos.SessionStatusFailed
		s.Error = message
		s.Message = "Validation failed"
		s.StructureErrors = structureErrors
		s.Hints = hints
		s.CompletedAt = &now
	})
}

// SetReportURL records where the archived report lives
func (ss *SessionStore) SetReportURL(id uuid.UUID, url string) {
	ss.update(id, func(s *dtos.ImportSession) {
		s.ReportURL = url
	})
}

// BeginCommit atomically moves a validated session to committing and returns
// the snapshot to commit from.
func (ss *SessionStore) BeginCommit(id uuid.UUID) (dtos.ImportSession, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	session, exists := ss.sessions[id]
	if !exists {
		return dtos.ImportSession{}, ErrSessionNotFound
	}
	if session.Status != dtos.SessionStatusValidated {
		return *session, ErrSessionState
	}

	session.Status = dtos.SessionStatusCommitting
	session.Message = "Importing products"
	session.Error = ""
	session.UpdatedAt = time.Now()
	return *session, nil
}

// FinishCommit marks a committing session as committed
func (ss *SessionStore) FinishCommit(id uuid.UUID, result *dtos.ImportResult) {
	ss.update(id, func(s *dtos.ImportSession) {
		if s.Status != dtos.SessionStatusCommitting {
			return
		}
		now := time.Now()
		s.Status = dtos.SessionStatusCommitted
		s.Message = "Import finished"
		s.Import = result
		s.CompletedAt = &now
	})
}

// AbortCommit returns a committing session to validated so it can be retried
func (ss *SessionStore) AbortCommit(id uuid.UUID, message string) {
	ss.update(id, func(s *dtos.ImportSession) {
		if s.Status != dtos.SessionStatusCommitting {
			return
		}
		s.Status = dtos.SessionStatusValidated
		s.Message = "Import failed"
		s.Error = message
	})
}

// Discard ends a validated or failed session without importing anything
func (ss *SessionStore) Discard(id uuid.UUID) (dtos.ImportSession, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	session, exists := ss.sessions[id]
	if !exists {
		return dtos.ImportSession{}, ErrSessionNotFound
	}
	if session.Status != dtos.SessionStatusValidated && session.Status != dtos.SessionStatusFailed {
		return *session, ErrSessionState
	}

	now := time.Now()
	session.Status = dtos.SessionStatusDiscarded
	session.Message = "Import discarded"
	session.CompletedAt = &now
	session.UpdatedAt = now
	return *session, nil
}
