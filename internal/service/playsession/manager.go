package playsession

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/yourusername/cinetrivia-api/internal/domain/entity"
	apperrors "github.com/yourusername/cinetrivia-api/internal/pkg/errors"
)

// Manager владеет активными игровыми сессиями
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	scheduler Scheduler
	finisher  PlayFinisher
	events    EventSender
}

// NewManager создает менеджер сессий
func NewManager(scheduler Scheduler, finisher PlayFinisher, events EventSender) *Manager {
	return &Manager{
		sessions:  make(map[string]*Session),
		scheduler: scheduler,
		finisher:  finisher,
		events:    events,
	}
}

// StartSession начинает новую игру по викторине. Таймеры стартуют сразу.
func (m *Manager) StartSession(quiz *entity.Quiz, userID string) (*Session, error) {
	if len(quiz.Questions) == 0 {
		return nil, fmt.Errorf("%w: quiz has no questions", apperrors.ErrValidation)
	}

	session := newSession(uuid.NewString(), userID, quiz, m.scheduler, m.finisher, m.events, m.remove)

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()
	return session, nil
}

// Get возвращает активную сессию по идентификатору
func (m *Manager) Get(sessionID string) (*Session, error) {
	m.mu.RLock()
	session, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return session, nil
}

// ActiveCount возвращает число активных сессий
func (m *Manager) ActiveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) remove(sessionID string) {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
}
