package service

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/yourusername/cinetrivia-api/internal/domain/entity"
	"github.com/yourusername/cinetrivia-api/internal/domain/repository"
	apperrors "github.com/yourusername/cinetrivia-api/internal/pkg/errors"
)

// Ограничения авторинга
const (
	MaxQuestionsPerQuiz = 50
	MinRating           = 1
	MaxRating           = 5
)

// QuizDraft — данные викторины, приходящие от автора при создании
// или редактировании
type QuizDraft struct {
	Title                 string
	Category              string
	Questions             []entity.Question
	Tags                  []string
	TimeLimitSec          int
	PlayUntilFirstMistake bool
	IsPrivate             bool
}

// QuizService предоставляет методы для работы с викторинами
type QuizService struct {
	quizRepo repository.QuizRepository
}

// NewQuizService создает новый сервис викторин
func NewQuizService(quizRepo repository.QuizRepository) *QuizService {
	return &QuizService{quizRepo: quizRepo}
}

// validateDraft проверяет данные авторинга. Невалидные данные никогда
// не сохраняются.
func validateDraft(draft *QuizDraft) error {
	if draft.Title == "" {
		return fmt.Errorf("%w: title is required", apperrors.ErrValidation)
	}
	if len(draft.Title) > 100 {
		return fmt.Errorf("%w: title must not exceed 100 characters", apperrors.ErrValidation)
	}
	if !entity.IsValidCategory(draft.Category) {
		return fmt.Errorf("%w: unknown category %q", apperrors.ErrValidation, draft.Category)
	}
	if len(draft.Questions) == 0 {
		return fmt.Errorf("%w: quiz must have at least one question", apperrors.ErrValidation)
	}
	if len(draft.Questions) > MaxQuestionsPerQuiz {
		return fmt.Errorf("%w: максимальное количество вопросов – %d", apperrors.ErrValidation, MaxQuestionsPerQuiz)
	}
	if draft.TimeLimitSec < 0 {
		return fmt.Errorf("%w: time limit must not be negative", apperrors.ErrValidation)
	}
	for i := range draft.Questions {
		if err := draft.Questions[i].Validate(); err != nil {
			return fmt.Errorf("%w: question %d: %v", apperrors.ErrValidation, i+1, err)
		}
	}
	return nil
}

// CreateQuiz создает новую викторину с обнуленной статистикой
func (s *QuizService) CreateQuiz(creatorID string, draft QuizDraft) (*entity.Quiz, error) {
	if creatorID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	if err := validateDraft(&draft); err != nil {
		return nil, err
	}

	questions := make(entity.QuestionList, len(draft.Questions))
	copy(questions, draft.Questions)
	// Вопросы без идентификатора получают новый UUID
	for i := range questions {
		if questions[i].ID == "" {
			questions[i].ID = uuid.NewString()
		}
	}

	quiz := &entity.Quiz{
		ID:                    uuid.NewString(),
		CreatorID:             creatorID,
		Title:                 draft.Title,
		Category:              draft.Category,
		Questions:             questions,
		Ratings:               entity.IntArray{},
		Tags:                  entity.StringArray(draft.Tags),
		TimeLimitSec:          draft.TimeLimitSec,
		PlayUntilFirstMistake: draft.PlayUntilFirstMistake,
		IsPrivate:             draft.IsPrivate,
	}
	quiz.ResetStats()

	if err := s.quizRepo.Create(quiz); err != nil {
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}

	log.Printf("[QuizService] Викторина %s создана пользователем %s (%d вопросов)", quiz.ID, creatorID, len(questions))
	return quiz, nil
}

// GetQuiz возвращает викторину. Приватные викторины доступны только
// аутентифицированным пользователям (игра по прямой ссылке).
func (s *QuizService) GetQuiz(viewerID, quizID string) (*entity.Quiz, error) {
	quiz, err := s.quizRepo.GetByID(quizID)
	if err != nil {
		return nil, err
	}
	if quiz.IsPrivate && viewerID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	return quiz, nil
}

// ListQuizzes возвращает видимые пользователю викторины с пагинацией
func (s *QuizService) ListQuizzes(viewerID string, page, pageSize int) ([]entity.Quiz, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	return s.quizRepo.ListVisible(viewerID, pageSize, offset)
}

// UpdateQuiz применяет отредактированную версию викторины.
// Если изменились критичные поля, статистика и played_by полностью
// сбрасываются — собранные данные относились к другой версии вопросов.
func (s *QuizService) UpdateQuiz(userID, quizID string, draft QuizDraft) (*entity.Quiz, error) {
	original, err := s.quizRepo.GetByID(quizID)
	if err != nil {
		return nil, err
	}
	if !original.IsOwnedBy(userID) {
		return nil, apperrors.ErrForbidden
	}
	if err := validateDraft(&draft); err != nil {
		return nil, err
	}

	updated := *original
	updated.Title = draft.Title
	updated.Category = draft.Category
	updated.Questions = make(entity.QuestionList, len(draft.Questions))
	copy(updated.Questions, draft.Questions)
	for i := range updated.Questions {
		if updated.Questions[i].ID == "" {
			updated.Questions[i].ID = uuid.NewString()
		}
	}
	updated.Tags = entity.StringArray(draft.Tags)
	updated.TimeLimitSec = draft.TimeLimitSec
	updated.PlayUntilFirstMistake = draft.PlayUntilFirstMistake
	updated.IsPrivate = draft.IsPrivate

	if criticalFieldsChanged(original, &updated) {
		log.Printf("[QuizService] Викторина %s: изменены критичные поля, сброс статистики", quizID)
		updated.ResetStats()
	}

	if err := s.quizRepo.Update(&updated); err != nil {
		return nil, fmt.Errorf("failed to update quiz: %w", err)
	}
	return &updated, nil
}

// criticalFieldsChanged определяет, нужно ли сбрасывать статистику при
// редактировании. Сравнение структурное, по проекции критичных полей
// упорядоченного списка вопросов.
func criticalFieldsChanged(original, updated *entity.Quiz) bool {
	if original.Category != updated.Category ||
		original.TimeLimitSec != updated.TimeLimitSec ||
		original.PlayUntilFirstMistake != updated.PlayUntilFirstMistake {
		return true
	}
	if len(original.Questions) != len(updated.Questions) {
		return true
	}
	for i := range original.Questions {
		if !original.Questions[i].CriticalFieldsEqual(&updated.Questions[i]) {
			return true
		}
	}
	return false
}

// DeleteQuiz удаляет викторину владельца
func (s *QuizService) DeleteQuiz(userID, quizID string) error {
	quiz, err := s.quizRepo.GetByID(quizID)
	if err != nil {
		return err
	}
	if !quiz.IsOwnedBy(userID) {
		return apperrors.ErrForbidden
	}
	return s.quizRepo.Delete(quizID)
}

// RateQuiz добавляет оценку и пересчитывает среднее
func (s *QuizService) RateQuiz(userID, quizID string, rating int) (*entity.Quiz, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	if rating < MinRating || rating > MaxRating {
		return nil, fmt.Errorf("%w: rating must be between %d and %d", apperrors.ErrValidation, MinRating, MaxRating)
	}

	quiz, err := s.quizRepo.GetByID(quizID)
	if err != nil {
		return nil, err
	}

	quiz.Ratings = append(quiz.Ratings, rating)
	quiz.RecalculateAverageRating()

	if err := s.quizRepo.AddRating(quizID, quiz.Ratings, quiz.AverageRating); err != nil {
		return nil, fmt.Errorf("failed to save rating: %w", err)
	}
	return quiz, nil
}

// GetQuizStats возвращает викторину со статистикой, доступной только владельцу
func (s *QuizService) GetQuizStats(userID, quizID string) (*entity.Quiz, error) {
	quiz, err := s.quizRepo.GetByID(quizID)
	if err != nil {
		return nil, err
	}
	if !quiz.IsOwnedBy(userID) {
		return nil, apperrors.ErrForbidden
	}
	return quiz, nil
}
