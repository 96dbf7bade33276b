package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/cinetrivia-api/internal/domain/entity"
	apperrors "github.com/yourusername/cinetrivia-api/internal/pkg/errors"
)

func newGameServiceWithMocks() (*GameService, *MockGameRepo, *MockCacheRepo) {
	gameRepo := new(MockGameRepo)
	cacheRepo := new(MockCacheRepo)
	return NewGameService(gameRepo, cacheRepo), gameRepo, cacheRepo
}

// Сценарий: рекорд 7, финальный счет 9 — рекорд становится 9
func TestRecordRoundOutcome_ImprovesRecord(t *testing.T) {
	svc, gameRepo, cacheRepo := newGameServiceWithMocks()

	existing := &entity.GameRecord{UserID: "user-1", Game: entity.GameMovieQuiz, Genre: entity.GenreAll, Score: 7}
	gameRepo.On("GetRecord", "user-1", entity.GameMovieQuiz, entity.GenreAll).Return(existing, nil)
	gameRepo.On("SaveRecord", mock.MatchedBy(func(r *entity.GameRecord) bool {
		return r.Score == 9
	})).Return(nil)
	gameRepo.On("UpsertLeaderboardScore", entity.GameMovieQuiz, entity.GenreAll, "user-1", 9).Return(nil)
	cacheRepo.On("Delete", "leaderboard:movieQuiz:ALL").Return(nil)

	record, err := svc.RecordRoundOutcome("user-1", entity.GameMovieQuiz, entity.GenreAll, entity.GameResult{Score: 9})
	require.NoError(t, err)
	assert.Equal(t, 9, record.Score)

	gameRepo.AssertExpectations(t)
	cacheRepo.AssertExpectations(t)
}

// Худший или равный счет не трогает рекорд, но попадает в таблицу лидеров
// (там монотонность обеспечивает SQL)
func TestRecordRoundOutcome_WorseScoreKeepsRecord(t *testing.T) {
	svc, gameRepo, cacheRepo := newGameServiceWithMocks()

	existing := &entity.GameRecord{UserID: "user-1", Game: entity.GameMovieQuiz, Genre: entity.GenreAll, Score: 7}
	gameRepo.On("GetRecord", "user-1", entity.GameMovieQuiz, entity.GenreAll).Return(existing, nil)
	gameRepo.On("UpsertLeaderboardScore", entity.GameMovieQuiz, entity.GenreAll, "user-1", 5).Return(nil)
	cacheRepo.On("Delete", mock.Anything).Return(nil)

	record, err := svc.RecordRoundOutcome("user-1", entity.GameMovieQuiz, entity.GenreAll, entity.GameResult{Score: 5})
	require.NoError(t, err)
	assert.Equal(t, 7, record.Score)

	gameRepo.AssertNotCalled(t, "SaveRecord", mock.Anything)
}

// Первая игра: записи еще нет, ErrNotFound превращается в новый рекорд
func TestRecordRoundOutcome_FirstOutcome(t *testing.T) {
	svc, gameRepo, cacheRepo := newGameServiceWithMocks()

	gameRepo.On("GetRecord", "user-1", entity.GameYearQuiz, entity.GenreHorror).Return(nil, apperrors.ErrNotFound)
	gameRepo.On("SaveRecord", mock.Anything).Return(nil)
	gameRepo.On("UpsertLeaderboardScore", entity.GameYearQuiz, entity.GenreHorror, "user-1", 3).Return(nil)
	cacheRepo.On("Delete", "leaderboard:yearQuiz:HORROR").Return(nil)

	record, err := svc.RecordRoundOutcome("user-1", entity.GameYearQuiz, entity.GenreHorror, entity.GameResult{Score: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, record.Score)
}

// Нулевой счет не попадает в таблицу лидеров
func TestRecordRoundOutcome_NonPositiveScoreSkipsLeaderboard(t *testing.T) {
	svc, gameRepo, _ := newGameServiceWithMocks()

	gameRepo.On("GetRecord", "user-1", entity.GameMovieQuiz, entity.GenreAll).Return(nil, apperrors.ErrNotFound)

	_, err := svc.RecordRoundOutcome("user-1", entity.GameMovieQuiz, entity.GenreAll, entity.GameResult{Score: 0})
	require.NoError(t, err)

	gameRepo.AssertNotCalled(t, "SaveRecord", mock.Anything)
	gameRepo.AssertNotCalled(t, "UpsertLeaderboardScore", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// Description-игры: рекорд — пара {rounds, avgPercentage}, обновление
// только при строго большем числе раундов
func TestRecordRoundOutcome_DescriptionGame(t *testing.T) {
	svc, gameRepo, _ := newGameServiceWithMocks()

	existing := &entity.GameRecord{
		UserID: "user-1", Game: entity.GameDescriptionQuiz, Genre: entity.GenreAll,
		Rounds: 5, AvgPercentage: 80,
	}
	gameRepo.On("GetRecord", "user-1", entity.GameDescriptionQuiz, entity.GenreAll).Return(existing, nil)
	gameRepo.On("SaveRecord", mock.MatchedBy(func(r *entity.GameRecord) bool {
		return r.Rounds == 6 && r.AvgPercentage == 70
	})).Return(nil)

	record, err := svc.RecordRoundOutcome("user-1", entity.GameDescriptionQuiz, entity.GenreAll,
		entity.GameResult{Rounds: 6, AvgPercentage: 70})
	require.NoError(t, err)

	// AvgPercentage переносится вместе с побеждающей записью
	assert.Equal(t, 6, record.Rounds)
	assert.Equal(t, 70.0, record.AvgPercentage)

	// Таблицы лидеров у description-игр нет
	gameRepo.AssertNotCalled(t, "UpsertLeaderboardScore", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// Меньше раундов при лучшем проценте — рекорд не обновляется
func TestRecordRoundOutcome_DescriptionGameFewerRounds(t *testing.T) {
	svc, gameRepo, _ := newGameServiceWithMocks()

	existing := &entity.GameRecord{
		UserID: "user-1", Game: entity.GameDescriptionQuiz, Genre: entity.GenreAll,
		Rounds: 5, AvgPercentage: 80,
	}
	gameRepo.On("GetRecord", "user-1", entity.GameDescriptionQuiz, entity.GenreAll).Return(existing, nil)

	record, err := svc.RecordRoundOutcome("user-1", entity.GameDescriptionQuiz, entity.GenreAll,
		entity.GameResult{Rounds: 4, AvgPercentage: 100})
	require.NoError(t, err)

	assert.Equal(t, 5, record.Rounds)
	assert.Equal(t, 80.0, record.AvgPercentage)
	gameRepo.AssertNotCalled(t, "SaveRecord", mock.Anything)
}

func TestRecordRoundOutcome_Validation(t *testing.T) {
	svc, _, _ := newGameServiceWithMocks()

	_, err := svc.RecordRoundOutcome("", entity.GameMovieQuiz, entity.GenreAll, entity.GameResult{Score: 1})
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))

	_, err = svc.RecordRoundOutcome("user-1", "pokemonQuiz", entity.GenreAll, entity.GameResult{Score: 1})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	_, err = svc.RecordRoundOutcome("user-1", entity.GameMovieQuiz, "WESTERN", entity.GameResult{Score: 1})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestGetLeaderboard_CacheMiss(t *testing.T) {
	svc, gameRepo, cacheRepo := newGameServiceWithMocks()

	entries := []entity.LeaderboardEntry{
		{UserID: "a", Score: 10},
		{UserID: "b", Score: 8},
		{UserID: "c", Score: 5},
	}
	cacheRepo.On("GetJSON", "leaderboard:movieQuiz:ALL", mock.Anything).Return(apperrors.ErrNotFound)
	gameRepo.On("GetLeaderboard", entity.GameMovieQuiz, entity.GenreAll, leaderboardCacheDepth).Return(entries, nil)
	cacheRepo.On("SetJSON", "leaderboard:movieQuiz:ALL", entries, leaderboardCacheTTL).Return(nil)

	top, err := svc.GetLeaderboard(entity.GameMovieQuiz, entity.GenreAll, 2)
	require.NoError(t, err)

	require.Len(t, top, 2)
	assert.Equal(t, "a", top[0].UserID)
	assert.Equal(t, "b", top[1].UserID)

	gameRepo.AssertExpectations(t)
	cacheRepo.AssertExpectations(t)
}

func TestGetLeaderboard_DescriptionGameRejected(t *testing.T) {
	svc, _, _ := newGameServiceWithMocks()

	_, err := svc.GetLeaderboard(entity.GameDescriptionQuiz, entity.GenreAll, 10)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}
