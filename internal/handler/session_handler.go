package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/cinetrivia-api/internal/service"
	"github.com/yourusername/cinetrivia-api/internal/service/playsession"
)

// SessionHandler обрабатывает серверные игровые сессии с таймерами
type SessionHandler struct {
	quizService *service.QuizService
	sessions    *playsession.Manager
}

// NewSessionHandler создает новый обработчик сессий
func NewSessionHandler(quizService *service.QuizService, sessions *playsession.Manager) *SessionHandler {
	return &SessionHandler{
		quizService: quizService,
		sessions:    sessions,
	}
}

// StartSessionRequest представляет запрос на старт игровой сессии
type StartSessionRequest struct {
	QuizID string `json:"quiz_id" binding:"required"`
}

// AnswerRequest представляет отправку ответа на текущий вопрос
type AnswerRequest struct {
	Selected []int `json:"selected"`
}

// StartSession начинает игру: таймеры викторины и первого вопроса
// стартуют немедленно
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := userIDFromContext(c)
	quiz, err := h.quizService.GetQuiz(userID, req.QuizID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	session, err := h.sessions.StartSession(quiz, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session.Snapshot())
}

// GetSession возвращает наблюдаемое состояние сессии
func (h *SessionHandler) GetSession(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

// SubmitAnswer фиксирует ответ на текущий вопрос
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if err := session.SubmitAnswer(req.Selected); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

// SetSelection запоминает текущий выбор multi-answer вопроса: именно он
// будет засчитан, если таймер вопроса истечет
func (h *SessionHandler) SetSelection(c *gin.Context) {
	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if err := session.SetSelection(req.Selected); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

// AcknowledgeFeedback подтверждает прочтение пояснения и продолжает игру
func (h *SessionHandler) AcknowledgeFeedback(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if err := session.AcknowledgeFeedback(); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}
