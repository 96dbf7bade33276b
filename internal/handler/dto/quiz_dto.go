package dto

import (
	"time"

	"github.com/yourusername/cinetrivia-api/internal/domain/entity"
)

// QuestionRequest представляет вопрос в запросе авторинга
type QuestionRequest struct {
	ID                   string                   `json:"id"`
	Text                 string                   `json:"text" binding:"required"`
	Image                string                   `json:"image"`
	Options              []string                 `json:"options" binding:"required"`
	CorrectAnswerIndexes []int                    `json:"correct_answer_indexes" binding:"required"`
	TimeLimitSec         int                      `json:"time_limit_sec"`
	Feedback             *entity.QuestionFeedback `json:"feedback,omitempty"`
}

// ToEntity преобразует запрос в доменный вопрос
func (r QuestionRequest) ToEntity() entity.Question {
	return entity.Question{
		ID:                   r.ID,
		Text:                 r.Text,
		Image:                r.Image,
		Options:              r.Options,
		CorrectAnswerIndexes: r.CorrectAnswerIndexes,
		TimeLimitSec:         r.TimeLimitSec,
		Feedback:             r.Feedback,
	}
}

// QuizRequest представляет запрос на создание или обновление викторины
type QuizRequest struct {
	Title                 string            `json:"title" binding:"required,max=100"`
	Category              string            `json:"category" binding:"required"`
	Questions             []QuestionRequest `json:"questions" binding:"required"`
	Tags                  []string          `json:"tags"`
	TimeLimitSec          int               `json:"time_limit_sec"`
	PlayUntilFirstMistake bool              `json:"play_until_first_mistake"`
	IsPrivate             bool              `json:"is_private"`
}

// QuizSummaryResponse — викторина в списке, без вопросов и статистики
type QuizSummaryResponse struct {
	ID            string    `json:"id"`
	CreatorID     string    `json:"creator_id"`
	Title         string    `json:"title"`
	Category      string    `json:"category"`
	QuestionCount int       `json:"question_count"`
	AverageRating float64   `json:"average_rating"`
	RatingsCount  int       `json:"ratings_count"`
	TotalPlays    int       `json:"total_plays"`
	Tags          []string  `json:"tags,omitempty"`
	TimeLimitSec  int       `json:"time_limit_sec"`
	IsPrivate     bool      `json:"is_private"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewQuizSummaryResponse создает DTO для списка викторин
func NewQuizSummaryResponse(quiz *entity.Quiz) QuizSummaryResponse {
	return QuizSummaryResponse{
		ID:            quiz.ID,
		CreatorID:     quiz.CreatorID,
		Title:         quiz.Title,
		Category:      quiz.Category,
		QuestionCount: len(quiz.Questions),
		AverageRating: quiz.AverageRating,
		RatingsCount:  len(quiz.Ratings),
		TotalPlays:    quiz.Stats.TotalPlays,
		Tags:          quiz.Tags,
		TimeLimitSec:  quiz.TimeLimitSec,
		IsPrivate:     quiz.IsPrivate,
		CreatedAt:     quiz.CreatedAt,
	}
}

// NewQuizSummaryList создает список DTO
func NewQuizSummaryList(quizzes []entity.Quiz) []QuizSummaryResponse {
	out := make([]QuizSummaryResponse, 0, len(quizzes))
	for i := range quizzes {
		out = append(out, NewQuizSummaryResponse(&quizzes[i]))
	}
	return out
}

// PlayRequest представляет запрос прямой фиксации завершенной игры.
// Значение ответа — индекс варианта или массив индексов.
type PlayRequest struct {
	Answers entity.UserAnswers `json:"answers" binding:"required"`
}

// PlayResponse представляет результат завершенной игры
type PlayResponse struct {
	QuizID         string    `json:"quiz_id"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	CompletedAt    time.Time `json:"completed_at"`
	StatsRecorded  bool      `json:"stats_recorded"`
}

// RateRequest представляет запрос оценки викторины
type RateRequest struct {
	Rating int `json:"rating" binding:"required"`
}
