package repository

import (
	"time"
)

// CacheRepository определяет методы для работы с кешем (Redis).
// Используется для кеширования ответов TMDB, топов таблиц лидеров
// и счетчиков rate limiting.
type CacheRepository interface {
	// Set сохраняет значение с временем жизни
	Set(key string, value interface{}, expiration time.Duration) error

	// Get получает строковое значение или ErrNotFound
	Get(key string) (string, error)

	// Delete удаляет ключ
	Delete(key string) error

	// Exists проверяет существование ключа
	Exists(key string) (bool, error)

	// Increment атомарно увеличивает счетчик на 1
	Increment(key string) (int64, error)

	// SetJSON сохраняет структуру в JSON
	SetJSON(key string, value interface{}, expiration time.Duration) error

	// GetJSON читает структуру из JSON или возвращает ErrNotFound
	GetJSON(key string, dest interface{}) error
}
