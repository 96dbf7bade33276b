package service

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/yourusername/cinetrivia-api/internal/domain/entity"
)

// ============================================================================
// Моки репозиториев
// ============================================================================

// MockQuizRepo — мок QuizRepository
type MockQuizRepo struct {
	mock.Mock
}

func (m *MockQuizRepo) Create(quiz *entity.Quiz) error {
	args := m.Called(quiz)
	return args.Error(0)
}

func (m *MockQuizRepo) GetByID(id string) (*entity.Quiz, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Quiz), args.Error(1)
}

func (m *MockQuizRepo) ListVisible(viewerID string, limit, offset int) ([]entity.Quiz, error) {
	args := m.Called(viewerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Quiz), args.Error(1)
}

func (m *MockQuizRepo) Update(quiz *entity.Quiz) error {
	args := m.Called(quiz)
	return args.Error(0)
}

func (m *MockQuizRepo) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockQuizRepo) AddRating(quizID string, ratings entity.IntArray, average float64) error {
	args := m.Called(quizID, ratings, average)
	return args.Error(0)
}

func (m *MockQuizRepo) RecordPlay(quizID string, userID string, stats entity.QuizStats, playedBy entity.StringArray) (bool, error) {
	args := m.Called(quizID, userID, stats, playedBy)
	return args.Bool(0), args.Error(1)
}

// MockPlayRecordRepo — мок PlayRecordRepository
type MockPlayRecordRepo struct {
	mock.Mock
}

func (m *MockPlayRecordRepo) Create(record *entity.UserPlayRecord) error {
	args := m.Called(record)
	return args.Error(0)
}

func (m *MockPlayRecordRepo) GetByUser(userID string, limit, offset int) ([]entity.UserPlayRecord, error) {
	args := m.Called(userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.UserPlayRecord), args.Error(1)
}

func (m *MockPlayRecordRepo) CountByUser(userID string) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockGameRepo — мок GameRepository
type MockGameRepo struct {
	mock.Mock
}

func (m *MockGameRepo) GetRecord(userID, game, genre string) (*entity.GameRecord, error) {
	args := m.Called(userID, game, genre)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.GameRecord), args.Error(1)
}

func (m *MockGameRepo) SaveRecord(record *entity.GameRecord) error {
	args := m.Called(record)
	return args.Error(0)
}

func (m *MockGameRepo) GetRecordsByUser(userID string) ([]entity.GameRecord, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.GameRecord), args.Error(1)
}

func (m *MockGameRepo) UpsertLeaderboardScore(game, genre, userID string, score int) error {
	args := m.Called(game, genre, userID, score)
	return args.Error(0)
}

func (m *MockGameRepo) GetLeaderboard(game, genre string, limit int) ([]entity.LeaderboardEntry, error) {
	args := m.Called(game, genre, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.LeaderboardEntry), args.Error(1)
}

// MockCacheRepo — мок CacheRepository
type MockCacheRepo struct {
	mock.Mock
}

func (m *MockCacheRepo) Set(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepo) Get(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheRepo) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockCacheRepo) Exists(key string) (bool, error) {
	args := m.Called(key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepo) Increment(key string) (int64, error) {
	args := m.Called(key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCacheRepo) SetJSON(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepo) GetJSON(key string, dest interface{}) error {
	args := m.Called(key, dest)
	return args.Error(0)
}
