package handler

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/cinetrivia-api/internal/handler/dto"
	"github.com/yourusername/cinetrivia-api/internal/service"
)

// QuizHandler обрабатывает запросы, связанные с викторинами
type QuizHandler struct {
	quizService *service.QuizService
	playService *service.PlayService
}

// NewQuizHandler создает новый обработчик викторин
func NewQuizHandler(quizService *service.QuizService, playService *service.PlayService) *QuizHandler {
	return &QuizHandler{
		quizService: quizService,
		playService: playService,
	}
}

func draftFromRequest(req *dto.QuizRequest) service.QuizDraft {
	draft := service.QuizDraft{
		Title:                 req.Title,
		Category:              req.Category,
		Tags:                  req.Tags,
		TimeLimitSec:          req.TimeLimitSec,
		PlayUntilFirstMistake: req.PlayUntilFirstMistake,
		IsPrivate:             req.IsPrivate,
	}
	for _, q := range req.Questions {
		draft.Questions = append(draft.Questions, q.ToEntity())
	}
	return draft
}

// CreateQuiz обрабатывает запрос на создание викторины
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var req dto.QuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quiz, err := h.quizService.CreateQuiz(userIDFromContext(c), draftFromRequest(&req))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, quiz)
}

// GetQuiz возвращает викторину целиком (вопросы нужны клиенту для игры)
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quiz, err := h.quizService.GetQuiz(userIDFromContext(c), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

// ListQuizzes возвращает страницу видимых викторин
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	quizzes, err := h.quizService.ListQuizzes(userIDFromContext(c), page, pageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"quizzes": dto.NewQuizSummaryList(quizzes),
		"page":    page,
	})
}

// UpdateQuiz обрабатывает редактирование викторины владельцем
func (h *QuizHandler) UpdateQuiz(c *gin.Context) {
	var req dto.QuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quiz, err := h.quizService.UpdateQuiz(userIDFromContext(c), c.Param("id"), draftFromRequest(&req))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

// DeleteQuiz удаляет викторину владельца
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	if err := h.quizService.DeleteQuiz(userIDFromContext(c), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Quiz deleted"})
}

// RateQuiz добавляет оценку викторине
func (h *QuizHandler) RateQuiz(c *gin.Context) {
	var req dto.RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quiz, err := h.quizService.RateQuiz(userIDFromContext(c), c.Param("id"), req.Rating)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"average_rating": quiz.AverageRating,
		"ratings_count":  len(quiz.Ratings),
	})
}

// PlayQuiz фиксирует завершенную игру, отсчитанную на клиенте.
// Идемпотентность повторной фиксации та же, что у игровых сессий.
func (h *QuizHandler) PlayQuiz(c *gin.Context) {
	var req dto.PlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := userIDFromContext(c)
	quiz, err := h.quizService.GetQuiz(userID, c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	alreadyPlayed := quiz.HasPlayed(userID)
	_, record, err := h.playService.FinishPlay(quiz, req.Answers, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PlayResponse{
		QuizID:         record.QuizID,
		Score:          record.Score,
		TotalQuestions: record.TotalQuestions,
		CompletedAt:    record.CompletedAt,
		StatsRecorded:  userID != "" && !alreadyPlayed,
	})
}

// GetQuizStats возвращает агрегированную статистику викторины владельцу
func (h *QuizHandler) GetQuizStats(c *gin.Context) {
	quiz, err := h.quizService.GetQuizStats(userIDFromContext(c), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"quiz_id": quiz.ID,
		"title":   quiz.Title,
		"stats":   quiz.Stats,
	})
}

// ExportQuizStats выгружает статистику викторины в Excel
func (h *QuizHandler) ExportQuizStats(c *gin.Context) {
	quiz, err := h.quizService.GetQuizStats(userIDFromContext(c), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"quiz-%s-stats.xlsx\"", quiz.ID))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Статистика"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[QuizHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	// Заголовки
	headers := []interface{}{"Вопрос", "Попыток", "Правильных", "% правильных", "Выборы по вариантам"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[QuizHandler] Ошибка записи заголовков: %v", err)
	}

	// Строки идут в порядке вопросов викторины
	for i := range quiz.Questions {
		question := &quiz.Questions[i]
		qStats := quiz.Stats.QuestionStats[question.ID]

		percent := 0.0
		if qStats.Attempts > 0 {
			percent = float64(qStats.Correct) / float64(qStats.Attempts) * 100
		}

		picks := ""
		for idx, option := range question.Options {
			if picks != "" {
				picks += "; "
			}
			picks += fmt.Sprintf("%s: %d", sanitizeForExcel(option), qStats.Answers[idx])
		}

		rowNum := i + 2
		row := []interface{}{sanitizeForExcel(question.Text), qStats.Attempts, qStats.Correct, fmt.Sprintf("%.1f%%", percent), picks}
		if err := sw.SetRow(fmt.Sprintf("A%d", rowNum), row); err != nil {
			log.Printf("[QuizHandler] Ошибка записи строки %d: %v", rowNum, err)
		}
	}

	// Итоговая строка
	totalRow := []interface{}{"Всего игр", quiz.Stats.TotalPlays, quiz.Stats.TotalCorrectAnswers, "", ""}
	if err := sw.SetRow(fmt.Sprintf("A%d", len(quiz.Questions)+3), totalRow); err != nil {
		log.Printf("[QuizHandler] Ошибка записи итогов: %v", err)
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[QuizHandler] Ошибка при Flush: %v", err)
	}
	if err := f.Write(c.Writer); err != nil {
		log.Printf("[QuizHandler] Ошибка записи Excel в response: %v", err)
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
