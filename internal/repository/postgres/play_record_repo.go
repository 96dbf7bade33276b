package postgres

import (
	"gorm.io/gorm"

	"github.com/yourusername/cinetrivia-api/internal/domain/entity"
)

// PlayRecordRepo реализует repository.PlayRecordRepository
type PlayRecordRepo struct {
	db *gorm.DB
}

// NewPlayRecordRepo создает новый репозиторий истории игр
func NewPlayRecordRepo(db *gorm.DB) *PlayRecordRepo {
	return &PlayRecordRepo{db: db}
}

// Create добавляет запись в журнал
func (r *PlayRecordRepo) Create(record *entity.UserPlayRecord) error {
	return r.db.Create(record).Error
}

// GetByUser возвращает историю пользователя, новые первыми
func (r *PlayRecordRepo) GetByUser(userID string, limit, offset int) ([]entity.UserPlayRecord, error) {
	var records []entity.UserPlayRecord
	err := r.db.Where("user_id = ?", userID).
		Order("completed_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// CountByUser возвращает количество записей пользователя
func (r *PlayRecordRepo) CountByUser(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&entity.UserPlayRecord{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
