package entity

import (
	"time"
)

// UserPlayRecord — запись истории игр пользователя.
// Журнал append-only: по одной записи на завершенную игру, независимо от
// дедупликации в played_by (после сброса статистики викторины пользователь
// может сыграть снова и получить новую запись).
type UserPlayRecord struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         string    `gorm:"size:36;not null;index" json:"user_id"`
	QuizID         string    `gorm:"size:36;not null;index" json:"quiz_id"`
	QuizTitle      string    `gorm:"size:100;not null" json:"quiz_title"`
	Category       string    `gorm:"size:20;not null" json:"category"`
	Score          int       `gorm:"not null;default:0" json:"score"`
	TotalQuestions int       `gorm:"not null;default:0" json:"total_questions"`
	CompletedAt    time.Time `gorm:"not null" json:"completed_at"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (UserPlayRecord) TableName() string {
	return "play_records"
}
