package postgres

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/cinetrivia-api/internal/domain/entity"
	apperrors "github.com/yourusername/cinetrivia-api/internal/pkg/errors"
)

// QuizRepo реализует repository.QuizRepository
type QuizRepo struct {
	db *gorm.DB
}

// NewQuizRepo создает новый репозиторий викторин
func NewQuizRepo(db *gorm.DB) *QuizRepo {
	return &QuizRepo{db: db}
}

// Create создает новую викторину
func (r *QuizRepo) Create(quiz *entity.Quiz) error {
	err := r.db.Create(quiz).Error
	if err != nil && isUniqueViolation(err) {
		return apperrors.ErrConflict
	}
	return err
}

// GetByID возвращает викторину по ID
func (r *QuizRepo) GetByID(id string) (*entity.Quiz, error) {
	var quiz entity.Quiz
	err := r.db.First(&quiz, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

// ListVisible возвращает викторины с пагинацией, новые первыми.
// Приватные викторины видны только владельцу.
func (r *QuizRepo) ListVisible(viewerID string, limit, offset int) ([]entity.Quiz, error) {
	var quizzes []entity.Quiz
	err := r.db.Where("is_private = false OR creator_id = ?", viewerID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&quizzes).Error
	if err != nil {
		return nil, err
	}
	return quizzes, nil
}

// Update сохраняет измененную викторину целиком
func (r *QuizRepo) Update(quiz *entity.Quiz) error {
	result := r.db.Model(&entity.Quiz{}).
		Where("id = ?", quiz.ID).
		Updates(map[string]interface{}{
			"title":                    quiz.Title,
			"category":                 quiz.Category,
			"questions":                quiz.Questions,
			"stats":                    quiz.Stats,
			"played_by":                quiz.PlayedBy,
			"tags":                     quiz.Tags,
			"time_limit_sec":           quiz.TimeLimitSec,
			"play_until_first_mistake": quiz.PlayUntilFirstMistake,
			"is_private":               quiz.IsPrivate,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete удаляет викторину
func (r *QuizRepo) Delete(id string) error {
	result := r.db.Delete(&entity.Quiz{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// AddRating точечно обновляет оценки и среднее
func (r *QuizRepo) AddRating(quizID string, ratings entity.IntArray, average float64) error {
	result := r.db.Model(&entity.Quiz{}).
		Where("id = ?", quizID).
		Updates(map[string]interface{}{
			"ratings":        ratings,
			"average_rating": average,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// RecordPlay атомарно фиксирует завершенную игру. Guard-условие в WHERE
// повторяет play-once инвариант на уровне БД: при конкурирующих
// одинаковых запросах статистика засчитается ровно один раз.
func (r *QuizRepo) RecordPlay(quizID string, userID string, stats entity.QuizStats, playedBy entity.StringArray) (bool, error) {
	member, err := json.Marshal([]string{userID})
	if err != nil {
		return false, fmt.Errorf("failed to marshal played_by member: %w", err)
	}

	result := r.db.Model(&entity.Quiz{}).
		Where("id = ? AND NOT (played_by @> ?)", quizID, string(member)).
		Updates(map[string]interface{}{
			"stats":     stats,
			"played_by": playedBy,
		})
	if result.Error != nil {
		return false, result.Error
	}
	// 0 строк: пользователь уже в played_by (или викторина удалена) — no-op
	return result.RowsAffected > 0, nil
}
