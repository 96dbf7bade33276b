package repository

import (
	"github.com/yourusername/cinetrivia-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	// Create создает нового анонимного пользователя
	Create(user *entity.User) error

	// GetByID возвращает пользователя по ID или ErrNotFound
	GetByID(id string) (*entity.User, error)

	// CountQuizzesByCreator возвращает количество викторин, созданных пользователем
	CountQuizzesByCreator(userID string) (int64, error)
}
