package repository

import (
	"github.com/yourusername/cinetrivia-api/internal/domain/entity"
)

// PlayRecordRepository определяет методы для журнала сыгранных игр
type PlayRecordRepository interface {
	// Create добавляет запись в журнал (append-only)
	Create(record *entity.UserPlayRecord) error

	// GetByUser возвращает историю пользователя, новые первыми
	GetByUser(userID string, limit, offset int) ([]entity.UserPlayRecord, error)

	// CountByUser возвращает количество записей пользователя
	CountByUser(userID string) (int64, error)
}
