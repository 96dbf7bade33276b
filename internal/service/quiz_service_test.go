package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/cinetrivia-api/internal/domain/entity"
	apperrors "github.com/yourusername/cinetrivia-api/internal/pkg/errors"
)

func validDraft() QuizDraft {
	return QuizDraft{
		Title:    "Кино девяностых",
		Category: entity.CategoryMovies,
		Questions: []entity.Question{
			{
				Text:                 "Кто сыграл Нео?",
				Options:              []string{"Киану Ривз", "Брэд Питт"},
				CorrectAnswerIndexes: []int{0},
			},
		},
	}
}

func TestCreateQuiz(t *testing.T) {
	quizRepo := new(MockQuizRepo)
	svc := NewQuizService(quizRepo)

	quizRepo.On("Create", mock.Anything).Return(nil)

	quiz, err := svc.CreateQuiz("user-1", validDraft())
	require.NoError(t, err)

	assert.NotEmpty(t, quiz.ID)
	assert.Equal(t, "user-1", quiz.CreatorID)
	// Вопросы получают идентификаторы
	assert.NotEmpty(t, quiz.Questions[0].ID)
	// Статистика обнулена с корзинами под каждый вопрос
	assert.Equal(t, 0, quiz.Stats.TotalPlays)
	assert.Len(t, quiz.Stats.QuestionStats, 1)
	assert.Empty(t, quiz.PlayedBy)

	quizRepo.AssertExpectations(t)
}

func TestCreateQuiz_Validation(t *testing.T) {
	svc := NewQuizService(new(MockQuizRepo))

	tests := []struct {
		name   string
		mutate func(*QuizDraft)
	}{
		{"анонимный автор", nil},
		{"пустой заголовок", func(d *QuizDraft) { d.Title = "" }},
		{"неизвестная категория", func(d *QuizDraft) { d.Category = "CARS" }},
		{"без вопросов", func(d *QuizDraft) { d.Questions = nil }},
		{"невалидный вопрос", func(d *QuizDraft) { d.Questions[0].Options = nil }},
		{"отрицательный таймер", func(d *QuizDraft) { d.TimeLimitSec = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			userID := "user-1"
			if tt.mutate == nil {
				userID = ""
			} else {
				tt.mutate(&draft)
			}
			_, err := svc.CreateQuiz(userID, draft)
			require.Error(t, err)
			if tt.mutate != nil {
				assert.True(t, errors.Is(err, apperrors.ErrValidation), "ожидалась ошибка валидации, получено: %v", err)
			}
		})
	}
}

func ownedQuiz() *entity.Quiz {
	quiz := &entity.Quiz{
		ID:        "quiz-1",
		CreatorID: "owner",
		Title:     "Кино девяностых",
		Category:  entity.CategoryMovies,
		Questions: entity.QuestionList{
			{
				ID:                   "q1",
				Text:                 "Кто сыграл Нео?",
				Options:              []string{"Киану Ривз", "Брэд Питт"},
				CorrectAnswerIndexes: []int{0},
			},
		},
	}
	quiz.ResetStats()
	quiz.Stats.TotalPlays = 7
	quiz.PlayedBy = entity.StringArray{"user-2"}
	return quiz
}

func draftFromQuiz(quiz *entity.Quiz) QuizDraft {
	questions := make([]entity.Question, len(quiz.Questions))
	copy(questions, quiz.Questions)
	return QuizDraft{
		Title:                 quiz.Title,
		Category:              quiz.Category,
		Questions:             questions,
		TimeLimitSec:          quiz.TimeLimitSec,
		PlayUntilFirstMistake: quiz.PlayUntilFirstMistake,
		IsPrivate:             quiz.IsPrivate,
	}
}

// Изменение заголовка не критично: статистика сохраняется
func TestUpdateQuiz_TitleChangeKeepsStats(t *testing.T) {
	quizRepo := new(MockQuizRepo)
	svc := NewQuizService(quizRepo)
	original := ownedQuiz()

	quizRepo.On("GetByID", "quiz-1").Return(original, nil)
	quizRepo.On("Update", mock.Anything).Return(nil)

	draft := draftFromQuiz(original)
	draft.Title = "Кино нулевых"

	updated, err := svc.UpdateQuiz("owner", "quiz-1", draft)
	require.NoError(t, err)

	assert.Equal(t, "Кино нулевых", updated.Title)
	assert.Equal(t, 7, updated.Stats.TotalPlays)
	assert.True(t, updated.HasPlayed("user-2"))
}

// Изменение критичных полей сбрасывает статистику и played_by
func TestUpdateQuiz_CriticalChangeResetsStats(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*QuizDraft)
	}{
		{"текст вопроса", func(d *QuizDraft) { d.Questions[0].Text = "Кто сыграл Морфеуса?" }},
		{"правильный набор", func(d *QuizDraft) { d.Questions[0].CorrectAnswerIndexes = []int{1} }},
		{"добавлен вопрос", func(d *QuizDraft) {
			d.Questions = append(d.Questions, entity.Question{
				Text:                 "Новый вопрос",
				Options:              []string{"Да", "Нет"},
				CorrectAnswerIndexes: []int{0},
			})
		}},
		{"категория", func(d *QuizDraft) { d.Category = entity.CategorySeries }},
		{"общий таймер", func(d *QuizDraft) { d.TimeLimitSec = 120 }},
		{"режим до первой ошибки", func(d *QuizDraft) { d.PlayUntilFirstMistake = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quizRepo := new(MockQuizRepo)
			svc := NewQuizService(quizRepo)
			original := ownedQuiz()

			quizRepo.On("GetByID", "quiz-1").Return(original, nil)
			quizRepo.On("Update", mock.Anything).Return(nil)

			draft := draftFromQuiz(original)
			tt.mutate(&draft)

			updated, err := svc.UpdateQuiz("owner", "quiz-1", draft)
			require.NoError(t, err)

			assert.Equal(t, 0, updated.Stats.TotalPlays)
			assert.Empty(t, updated.PlayedBy)
		})
	}
}

func TestUpdateQuiz_OnlyOwner(t *testing.T) {
	quizRepo := new(MockQuizRepo)
	svc := NewQuizService(quizRepo)
	quizRepo.On("GetByID", "quiz-1").Return(ownedQuiz(), nil)

	_, err := svc.UpdateQuiz("intruder", "quiz-1", draftFromQuiz(ownedQuiz()))
	assert.True(t, errors.Is(err, apperrors.ErrForbidden))
}

func TestGetQuiz_PrivateRequiresAuth(t *testing.T) {
	quizRepo := new(MockQuizRepo)
	svc := NewQuizService(quizRepo)

	private := ownedQuiz()
	private.IsPrivate = true
	quizRepo.On("GetByID", "quiz-1").Return(private, nil)

	_, err := svc.GetQuiz("", "quiz-1")
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))

	// Любой аутентифицированный пользователь может играть по прямой ссылке
	quiz, err := svc.GetQuiz("someone", "quiz-1")
	require.NoError(t, err)
	assert.Equal(t, "quiz-1", quiz.ID)
}

func TestRateQuiz(t *testing.T) {
	quizRepo := new(MockQuizRepo)
	svc := NewQuizService(quizRepo)

	quiz := ownedQuiz()
	quiz.Ratings = entity.IntArray{5}
	quizRepo.On("GetByID", "quiz-1").Return(quiz, nil)
	quizRepo.On("AddRating", "quiz-1", mock.Anything, mock.Anything).Return(nil)

	rated, err := svc.RateQuiz("user-2", "quiz-1", 3)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, rated.AverageRating, 0.0001)
}

func TestRateQuiz_RangeValidation(t *testing.T) {
	svc := NewQuizService(new(MockQuizRepo))

	_, err := svc.RateQuiz("user-2", "quiz-1", 0)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	_, err = svc.RateQuiz("user-2", "quiz-1", 6)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestGetQuizStats_OwnerOnly(t *testing.T) {
	quizRepo := new(MockQuizRepo)
	svc := NewQuizService(quizRepo)
	quizRepo.On("GetByID", "quiz-1").Return(ownedQuiz(), nil)

	_, err := svc.GetQuizStats("intruder", "quiz-1")
	assert.True(t, errors.Is(err, apperrors.ErrForbidden))

	quiz, err := svc.GetQuizStats("owner", "quiz-1")
	require.NoError(t, err)
	assert.Equal(t, 7, quiz.Stats.TotalPlays)
}
