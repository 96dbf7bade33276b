package playsession

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/yourusername/cinetrivia-api/internal/domain/entity"
	apperrors "github.com/yourusername/cinetrivia-api/internal/pkg/errors"
)

// Состояния сессии
type State string

const (
	StateAwaitingAnswer  State = "awaiting_answer"
	StateShowingFeedback State = "showing_feedback"
	StateFinished        State = "finished"
)

// Типы событий, отправляемых клиенту по WebSocket
const (
	EventQuestionAdvanced = "session:question_advanced"
	EventFeedbackShown    = "session:feedback_shown"
	EventSessionFinished  = "session:finished"
)

// Event — событие сессии для push-доставки клиенту
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// PlayFinisher фиксирует завершенную игру (реализуется PlayService)
type PlayFinisher interface {
	FinishPlay(quiz *entity.Quiz, answers entity.UserAnswers, userID string) (*entity.Quiz, *entity.UserPlayRecord, error)
}

// EventSender доставляет события сессии пользователю (реализуется
// WebSocket-менеджером). Для анонимных сессий доставка не выполняется.
type EventSender interface {
	SendEventToUser(userID string, event interface{}) error
}

// Session — серверная машина состояний одной игры.
//
// Ведет два отсчета: общий таймер викторины и таймер текущего вопроса.
// Истечение общего таймера принудительно завершает игру с собранными
// ответами, вытесняя таймер вопроса. Таймер вопроса отменяется при
// каждой смене активного вопроса; одновременно живет не более одного.
type Session struct {
	ID     string
	UserID string

	mu            sync.Mutex
	quiz          *entity.Quiz
	state         State
	questionIndex int
	answers       entity.UserAnswers
	selection     []int // текущий выбор для multi-answer вопроса

	// Защелка от повторного входа: повторный сабмит, пришедший пока
	// обрабатывается первый (или показывается feedback), игнорируется
	isSubmitting bool

	overallDeadline  time.Time
	questionDeadline time.Time
	cancelOverall    CancelFunc
	cancelQuestion   CancelFunc

	pendingFeedback string
	pendingCorrect  bool

	record *entity.UserPlayRecord

	scheduler Scheduler
	finisher  PlayFinisher
	events    EventSender
	onFinish  func(sessionID string)
}

func newSession(id, userID string, quiz *entity.Quiz, scheduler Scheduler, finisher PlayFinisher, events EventSender, onFinish func(string)) *Session {
	s := &Session{
		ID:        id,
		UserID:    userID,
		quiz:      quiz,
		state:     StateAwaitingAnswer,
		answers:   entity.UserAnswers{},
		scheduler: scheduler,
		finisher:  finisher,
		events:    events,
		onFinish:  onFinish,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if quiz.TimeLimitSec > 0 {
		d := time.Duration(quiz.TimeLimitSec) * time.Second
		s.overallDeadline = scheduler.Now().Add(d)
		s.cancelOverall = scheduler.Schedule(d, s.onOverallTimeout)
	}
	s.startQuestionTimerLocked()
	return s
}

// currentQuestionLocked возвращает активный вопрос (mu захвачен)
func (s *Session) currentQuestionLocked() *entity.Question {
	if s.questionIndex >= len(s.quiz.Questions) {
		return nil
	}
	return &s.quiz.Questions[s.questionIndex]
}

// startQuestionTimerLocked запускает таймер текущего вопроса.
// Предыдущий таймер должен быть уже отменен вызывающей стороной.
func (s *Session) startQuestionTimerLocked() {
	question := s.currentQuestionLocked()
	if question == nil || question.TimeLimitSec <= 0 {
		s.questionDeadline = time.Time{}
		return
	}
	index := s.questionIndex
	d := time.Duration(question.TimeLimitSec) * time.Second
	s.questionDeadline = s.scheduler.Now().Add(d)
	s.cancelQuestion = s.scheduler.Schedule(d, func() {
		s.onQuestionTimeout(index)
	})
}

// cancelQuestionTimerLocked снимает таймер вопроса, если он запущен
func (s *Session) cancelQuestionTimerLocked() {
	if s.cancelQuestion != nil {
		s.cancelQuestion()
		s.cancelQuestion = nil
	}
	s.questionDeadline = time.Time{}
}

// SetSelection запоминает текущий выбор для multi-answer вопроса.
// При истечении таймера вопроса будет засчитан именно он.
func (s *Session) SetSelection(selected []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAwaitingAnswer {
		return fmt.Errorf("%w: session is not awaiting an answer", apperrors.ErrConflict)
	}
	question := s.currentQuestionLocked()
	if question == nil {
		return apperrors.ErrNotFound
	}
	for _, idx := range selected {
		if !question.IsValidOption(idx) {
			return fmt.Errorf("%w: option index %d out of range", apperrors.ErrValidation, idx)
		}
	}
	s.selection = append([]int(nil), selected...)
	return nil
}

// SubmitAnswer фиксирует ответ на текущий вопрос и двигает сессию дальше
func (s *Session) SubmitAnswer(selected []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateFinished {
		return fmt.Errorf("%w: session already finished", apperrors.ErrConflict)
	}
	if s.state != StateAwaitingAnswer || s.isSubmitting {
		// Второй сабмит во время обработки первого — игнорируем
		return fmt.Errorf("%w: answer already being processed", apperrors.ErrConflict)
	}
	question := s.currentQuestionLocked()
	if question == nil {
		return apperrors.ErrNotFound
	}
	for _, idx := range selected {
		if !question.IsValidOption(idx) {
			return fmt.Errorf("%w: option index %d out of range", apperrors.ErrValidation, idx)
		}
	}

	s.isSubmitting = true
	s.cancelQuestionTimerLocked()

	s.answers[question.ID] = entity.AnswerValue(selected)
	s.selection = nil
	correct := question.IsCorrect(selected)

	if feedback, ok := question.FeedbackFor(correct); ok {
		// Пауза на подтверждение feedback: таймер вопроса уже снят
		// и не перезапускается, общий таймер продолжает идти
		s.state = StateShowingFeedback
		s.pendingFeedback = feedback
		s.pendingCorrect = correct
		s.sendEventLocked(EventFeedbackShown, map[string]interface{}{
			"question_index": s.questionIndex,
			"correct":        correct,
			"feedback":       feedback,
		})
		return nil
	}

	s.advanceLocked(correct)
	return nil
}

// AcknowledgeFeedback подтверждает прочтение feedback и продолжает сессию
func (s *Session) AcknowledgeFeedback() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateShowingFeedback {
		return fmt.Errorf("%w: no feedback to acknowledge", apperrors.ErrConflict)
	}
	s.pendingFeedback = ""
	s.advanceLocked(s.pendingCorrect)
	return nil
}

// advanceLocked применяет правило перехода после оцененного ответа
func (s *Session) advanceLocked(wasCorrect bool) {
	if s.quiz.PlayUntilFirstMistake && !wasCorrect {
		s.finishLocked("first_mistake")
		return
	}
	if s.questionIndex+1 >= len(s.quiz.Questions) {
		s.finishLocked("completed")
		return
	}
	s.questionIndex++
	s.state = StateAwaitingAnswer
	s.isSubmitting = false
	s.startQuestionTimerLocked()
	s.sendEventLocked(EventQuestionAdvanced, map[string]interface{}{
		"question_index": s.questionIndex,
	})
}

// onQuestionTimeout срабатывает при истечении таймера вопроса.
// Multi-answer вопрос принудительно отправляет текущий выбор (возможно
// пустой) и грейдится как обычно; single-answer остается без записи
// ответа и проходит как неотвеченный (неверный).
func (s *Session) onQuestionTimeout(questionIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Устаревший callback: вопрос уже сменился или сессия закончилась
	if s.state != StateAwaitingAnswer || s.questionIndex != questionIndex {
		return
	}
	question := s.currentQuestionLocked()
	if question == nil {
		return
	}

	s.cancelQuestion = nil
	s.questionDeadline = time.Time{}

	correct := false
	if question.IsMultiAnswer() {
		selection := append([]int(nil), s.selection...)
		s.answers[question.ID] = entity.AnswerValue(selection)
		correct = question.IsCorrect(selection)
	}
	s.selection = nil

	log.Printf("[PlaySession] Сессия %s: время вопроса %d истекло", s.ID, questionIndex)
	s.advanceLocked(correct)
}

// onOverallTimeout срабатывает при истечении общего таймера викторины
// и вытесняет любой незавершенный вопрос
func (s *Session) onOverallTimeout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateFinished {
		return
	}
	s.cancelOverall = nil
	log.Printf("[PlaySession] Сессия %s: общее время истекло", s.ID)
	s.finishLocked("time_expired")
}

// finishLocked переводит сессию в терминальное состояние и фиксирует игру
func (s *Session) finishLocked(reason string) {
	s.cancelQuestionTimerLocked()
	if s.cancelOverall != nil {
		s.cancelOverall()
		s.cancelOverall = nil
	}
	s.state = StateFinished
	s.isSubmitting = false

	_, record, err := s.finisher.FinishPlay(s.quiz, s.answers, s.UserID)
	if err != nil {
		log.Printf("[PlaySession] Сессия %s: ошибка фиксации игры: %v", s.ID, err)
	} else {
		s.record = record
	}

	payload := map[string]interface{}{"reason": reason}
	if s.record != nil {
		payload["score"] = s.record.Score
		payload["total_questions"] = s.record.TotalQuestions
	}
	s.sendEventLocked(EventSessionFinished, payload)

	if s.onFinish != nil {
		// Менеджер убирает сессию вне блокировки сессии
		go s.onFinish(s.ID)
	}
}

func (s *Session) sendEventLocked(eventType string, data interface{}) {
	if s.events == nil || s.UserID == "" {
		return
	}
	if err := s.events.SendEventToUser(s.UserID, Event{Type: eventType, Data: data}); err != nil {
		log.Printf("[PlaySession] Сессия %s: не удалось отправить событие %s: %v", s.ID, eventType, err)
	}
}

// Snapshot — наблюдаемое состояние сессии для клиента
type Snapshot struct {
	SessionID            string `json:"session_id"`
	State                State  `json:"state"`
	QuestionIndex        int    `json:"question_index"`
	TotalQuestions       int    `json:"total_questions"`
	Feedback             string `json:"feedback,omitempty"`
	OverallRemainingSec  int    `json:"overall_remaining_sec"`
	QuestionRemainingSec int    `json:"question_remaining_sec"`
	Score                int    `json:"score,omitempty"`
}

// Snapshot возвращает текущее состояние сессии. Остатки времени
// считаются от дедлайнов; точность — секунда.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		SessionID:            s.ID,
		State:                s.state,
		QuestionIndex:        s.questionIndex,
		TotalQuestions:       len(s.quiz.Questions),
		Feedback:             s.pendingFeedback,
		OverallRemainingSec:  s.remainingSecondsLocked(s.overallDeadline),
		QuestionRemainingSec: s.remainingSecondsLocked(s.questionDeadline),
	}
	if s.record != nil {
		snap.Score = s.record.Score
	}
	return snap
}

// Record возвращает итог завершенной сессии
func (s *Session) Record() (*entity.UserPlayRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateFinished || s.record == nil {
		return nil, false
	}
	return s.record, true
}

func (s *Session) remainingSecondsLocked(deadline time.Time) int {
	if deadline.IsZero() {
		return 0
	}
	remaining := deadline.Sub(s.scheduler.Now())
	if remaining < 0 {
		return 0
	}
	return int(remaining.Round(time.Second) / time.Second)
}
