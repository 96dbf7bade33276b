package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/cinetrivia-api/internal/domain/entity"
	apperrors "github.com/yourusername/cinetrivia-api/internal/pkg/errors"
)

// UserRepo реализует repository.UserRepository
type UserRepo struct {
	db *gorm.DB
}

// NewUserRepo создает новый репозиторий пользователей
func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create создает нового анонимного пользователя
func (r *UserRepo) Create(user *entity.User) error {
	err := r.db.Create(user).Error
	if err != nil && isUniqueViolation(err) {
		// Коллизия UUID крайне маловероятна, но обрабатываем явно
		return apperrors.ErrConflict
	}
	return err
}

// GetByID возвращает пользователя по ID
func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	var user entity.User
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CountQuizzesByCreator возвращает количество викторин пользователя
func (r *UserRepo) CountQuizzesByCreator(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Quiz{}).
		Where("creator_id = ?", userID).
		Count(&count).Error
	return count, err
}
