package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/cinetrivia-api/internal/domain/entity"
	"github.com/yourusername/cinetrivia-api/internal/domain/repository"
	apperrors "github.com/yourusername/cinetrivia-api/internal/pkg/errors"
)

// Настройки кеша таблиц лидеров
const (
	leaderboardCacheTTL   = 30 * time.Second
	leaderboardCacheDepth = 100
	DefaultLeaderboardTop = 10
)

// GameService ведет рекорды и таблицы лидеров автогенерируемых игр.
// Рекорды обновляются только в сторону улучшения; счет в таблице лидеров
// монотонно растет.
type GameService struct {
	gameRepo  repository.GameRepository
	cacheRepo repository.CacheRepository
}

// NewGameService создает новый сервис игровых рекордов
func NewGameService(gameRepo repository.GameRepository, cacheRepo repository.CacheRepository) *GameService {
	return &GameService{
		gameRepo:  gameRepo,
		cacheRepo: cacheRepo,
	}
}

// RecordRoundOutcome фиксирует исход завершенной игры.
// Для description-игр рекорд — пара {rounds, avgPercentage}: обновляется,
// только если пройдено строго больше раундов (avgPercentage переносится
// вместе с побеждающей записью, отдельно не максимизируется). Для
// остальных игр — одиночный счет, обновление только при строгом улучшении.
func (s *GameService) RecordRoundOutcome(userID, game, genre string, result entity.GameResult) (*entity.GameRecord, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	if !entity.IsValidGame(game) {
		return nil, fmt.Errorf("%w: unknown game %q", apperrors.ErrValidation, game)
	}
	if !entity.IsValidGenre(genre) {
		return nil, fmt.Errorf("%w: unknown genre %q", apperrors.ErrValidation, genre)
	}

	record, err := s.gameRepo.GetRecord(userID, game, genre)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to load game record: %w", err)
		}
		record = &entity.GameRecord{UserID: userID, Game: game, Genre: genre}
	}

	improved := false
	if entity.IsDescriptionGame(game) {
		if result.Rounds > record.Rounds {
			record.Rounds = result.Rounds
			record.AvgPercentage = result.AvgPercentage
			improved = true
		}
	} else {
		if result.Score > record.Score {
			record.Score = result.Score
			improved = true
		}
	}

	if improved {
		if err := s.gameRepo.SaveRecord(record); err != nil {
			return nil, fmt.Errorf("failed to save game record: %w", err)
		}
		log.Printf("[GameService] Новый рекорд пользователя %s в %s/%s", userID, game, genre)
	}

	// Таблица лидеров ведется только для игр с числовым счетом;
	// неположительный счет не попадает в таблицу
	if !entity.IsDescriptionGame(game) && result.Score > 0 {
		if err := s.gameRepo.UpsertLeaderboardScore(game, genre, userID, result.Score); err != nil {
			return nil, fmt.Errorf("failed to update leaderboard: %w", err)
		}
		s.invalidateLeaderboardCache(game, genre)
	}

	return record, nil
}

// GetLeaderboard возвращает топ таблицы лидеров, отсортированный по
// убыванию счета. Топ кешируется в Redis на короткий срок.
func (s *GameService) GetLeaderboard(game, genre string, limit int) ([]entity.LeaderboardEntry, error) {
	if !entity.IsValidGame(game) || entity.IsDescriptionGame(game) {
		return nil, fmt.Errorf("%w: game %q has no leaderboard", apperrors.ErrValidation, game)
	}
	if !entity.IsValidGenre(genre) {
		return nil, fmt.Errorf("%w: unknown genre %q", apperrors.ErrValidation, genre)
	}
	if limit < 1 || limit > leaderboardCacheDepth {
		limit = DefaultLeaderboardTop
	}

	key := leaderboardCacheKey(game, genre)
	var cached []entity.LeaderboardEntry
	if s.cacheRepo != nil {
		if err := s.cacheRepo.GetJSON(key, &cached); err == nil {
			return clipLeaderboard(cached, limit), nil
		}
	}

	entries, err := s.gameRepo.GetLeaderboard(game, genre, leaderboardCacheDepth)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}

	if s.cacheRepo != nil {
		if err := s.cacheRepo.SetJSON(key, entries, leaderboardCacheTTL); err != nil {
			// Ошибка кеша не мешает отдать данные
			log.Printf("[GameService] Не удалось закешировать таблицу лидеров %s/%s: %v", game, genre, err)
		}
	}
	return clipLeaderboard(entries, limit), nil
}

// GetUserRecords возвращает все рекорды пользователя (для профиля)
func (s *GameService) GetUserRecords(userID string) ([]entity.GameRecord, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	return s.gameRepo.GetRecordsByUser(userID)
}

func (s *GameService) invalidateLeaderboardCache(game, genre string) {
	if s.cacheRepo == nil {
		return
	}
	if err := s.cacheRepo.Delete(leaderboardCacheKey(game, genre)); err != nil {
		log.Printf("[GameService] Не удалось сбросить кеш таблицы лидеров %s/%s: %v", game, genre, err)
	}
}

func leaderboardCacheKey(game, genre string) string {
	return fmt.Sprintf("leaderboard:%s:%s", game, genre)
}

func clipLeaderboard(entries []entity.LeaderboardEntry, limit int) []entity.LeaderboardEntry {
	if len(entries) > limit {
		return entries[:limit]
	}
	return entries
}
