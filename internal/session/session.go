// Package session holds per-conversation state. Each chat session owns its
// history, memory summary, and income; nothing here is global, and profiles
// are recomputed from upload bytes rather than persisted.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AryamanRoy/Raseed-FinanceAI/internal/advisor"
)

// memoryRefreshEvery is the turn cadence for refreshing the memory summary.
// The check runs right after a new user turn is appended, so the first user
// turn (count 1) and every fifth turn after it trigger a refresh.
const memoryRefreshEvery = 5

// Session is one conversation's mutable state. All access goes through the
// methods below; the embedded mutex serializes concurrent chat requests
// against the same session (memory compaction requires it).
type Session struct {
	mu sync.Mutex

	ID        string
	CreatedAt time.Time

	history  []advisor.Turn
	memory   string
	income   *float64
	uploadID string
}

// AppendTurn records one conversation turn.
func (s *Session) AppendTurn(role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, advisor.Turn{Role: role, Content: content})
}

// History returns a copy of the turns so far.
func (s *Session) History() []advisor.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]advisor.Turn, len(s.history))
	copy(out, s.history)
	return out
}

// Memory returns the current rolling summary.
func (s *Session) Memory() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memory
}

// BeginTurn starts one chat turn atomically: it snapshots the prior history,
// appends the new user query, and recompacts the memory summary when the turn
// cadence says so. It returns the prior turns (for prompt assembly) and the
// memory summary in effect for this turn. Holding the session mutex for the
// whole sequence serializes concurrent compactions, which would otherwise
// race last-write-wins on the summary.
func (s *Session) BeginTurn(query string, maxChars int) (prior []advisor.Turn, memory string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prior = make([]advisor.Turn, len(s.history))
	copy(prior, s.history)

	s.history = append(s.history, advisor.Turn{Role: advisor.RoleUser, Content: query})
	if len(s.history)%memoryRefreshEvery == 1 {
		s.memory = advisor.UpdateMemorySummary(s.memory, s.history, maxChars)
	}
	return prior, s.memory
}

// SetIncome records the user's monthly income.
func (s *Session) SetIncome(income float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.income = &income
}

// Income returns the recorded monthly income, or nil when the user has not
// provided one yet.
func (s *Session) Income() *float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.income == nil {
		return nil
	}
	v := *s.income
	return &v
}

// BindUpload associates the session with an uploaded export.
func (s *Session) BindUpload(uploadID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploadID = uploadID
}

// UploadID returns the bound upload, or "" when none is bound.
func (s *Session) UploadID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploadID
}

// Manager is an in-memory session registry, safe for concurrent use.
// Sessions live for the process lifetime; there is no durable store.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates an empty session registry.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Create registers a new session with a fresh UUID.
func (m *Manager) Create() *Session {
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return s
}

// Get returns the session with the given ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	return s, nil
}

// GetOrCreate returns the session with the given ID, or a new one when the ID
// is empty or unknown.
func (m *Manager) GetOrCreate(id string) *Session {
	if id != "" {
		if s, err := m.Get(id); err == nil {
			return s
		}
	}
	return m.Create()
}
