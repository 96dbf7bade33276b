package entity

import (
	"time"
)

// User представляет анонимную учетную запись.
// Идентичность у платформы минимальная: UUID, выданный при первом входе,
// без email и пароля.
type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (User) TableName() string {
	return "users"
}
