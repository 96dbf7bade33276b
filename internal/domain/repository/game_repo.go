package repository

import (
	"github.com/yourusername/cinetrivia-api/internal/domain/entity"
)

// GameRepository определяет методы для рекордов и таблиц лидеров
// автогенерируемых игр
type GameRepository interface {
	// GetRecord возвращает лучший результат пользователя в (игра, жанр)
	// или ErrNotFound
	GetRecord(userID, game, genre string) (*entity.GameRecord, error)

	// SaveRecord создает или обновляет рекорд
	SaveRecord(record *entity.GameRecord) error

	// GetRecordsByUser возвращает все рекорды пользователя
	GetRecordsByUser(userID string) ([]entity.GameRecord, error)

	// UpsertLeaderboardScore вставляет запись таблицы лидеров или повышает
	// счет существующей — только если новый счет строго больше.
	// Монотонность обеспечивается на уровне SQL.
	UpsertLeaderboardScore(game, genre, userID string, score int) error

	// GetLeaderboard возвращает топ записей по убыванию счета
	GetLeaderboard(game, genre string, limit int) ([]entity.LeaderboardEntry, error)
}
