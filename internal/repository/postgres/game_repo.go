package postgres

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/cinetrivia-api/internal/domain/entity"
	apperrors "github.com/yourusername/cinetrivia-api/internal/pkg/errors"
)

// GameRepo реализует repository.GameRepository
type GameRepo struct {
	db *gorm.DB
}

// NewGameRepo создает новый репозиторий игровых рекордов
func NewGameRepo(db *gorm.DB) *GameRepo {
	return &GameRepo{db: db}
}

// GetRecord возвращает лучший результат пользователя в (игра, жанр)
func (r *GameRepo) GetRecord(userID, game, genre string) (*entity.GameRecord, error) {
	var record entity.GameRecord
	err := r.db.Where("user_id = ? AND game = ? AND genre = ?", userID, game, genre).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// SaveRecord создает или обновляет рекорд
func (r *GameRepo) SaveRecord(record *entity.GameRecord) error {
	err := r.db.Save(record).Error
	if err != nil && isUniqueViolation(err) {
		// Конкурирующая вставка того же (user, game, genre)
		return apperrors.ErrConflict
	}
	return err
}

// GetRecordsByUser возвращает все рекорды пользователя
func (r *GameRepo) GetRecordsByUser(userID string) ([]entity.GameRecord, error) {
	var records []entity.GameRecord
	err := r.db.Where("user_id = ?", userID).
		Order("game, genre").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// UpsertLeaderboardScore вставляет запись или повышает счет существующей.
// Условие в DO UPDATE гарантирует монотонность на уровне SQL: счет в
// таблице лидеров никогда не убывает.
func (r *GameRepo) UpsertLeaderboardScore(game, genre, userID string, score int) error {
	entry := entity.LeaderboardEntry{
		Game:   game,
		Genre:  genre,
		UserID: userID,
		Score:  score,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "game"}, {Name: "genre"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"score":      gorm.Expr("excluded.score"),
			"updated_at": gorm.Expr("now()"),
		}),
		Where: clause.Where{
			Exprs: []clause.Expression{gorm.Expr("leaderboard_entries.score < excluded.score")},
		},
	}).Create(&entry).Error
}

// GetLeaderboard возвращает топ записей по убыванию счета
func (r *GameRepo) GetLeaderboard(game, genre string, limit int) ([]entity.LeaderboardEntry, error) {
	var entries []entity.LeaderboardEntry
	err := r.db.Where("game = ? AND genre = ?", game, genre).
		Order("score DESC, updated_at ASC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
