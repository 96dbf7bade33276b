package repository

import (
	"github.com/yourusername/cinetrivia-api/internal/domain/entity"
)

// QuizRepository определяет методы для работы с викторинами в БД
type QuizRepository interface {
	// Create создает новую викторину
	Create(quiz *entity.Quiz) error

	// GetByID возвращает викторину по ID
	GetByID(id string) (*entity.Quiz, error)

	// ListVisible возвращает викторины, видимые пользователю (приватные —
	// только владельцу), новые первыми, с пагинацией
	ListVisible(viewerID string, limit, offset int) ([]entity.Quiz, error)

	// Update сохраняет измененную викторину целиком
	Update(quiz *entity.Quiz) error

	// Delete удаляет викторину
	Delete(id string) error

	// AddRating добавляет оценку и сохраняет пересчитанное среднее
	AddRating(quizID string, ratings entity.IntArray, average float64) error

	// RecordPlay атомарно фиксирует завершенную игру: записывает новые
	// stats и played_by только если userID еще не входит в played_by.
	// Возвращает false, если игра уже была засчитана (no-op).
	RecordPlay(quizID string, userID string, stats entity.QuizStats, playedBy entity.StringArray) (bool, error)
}
