package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Категории пользовательских викторин
const (
	CategoryGames  = "GAMES"
	CategoryMovies = "MOVIES"
	CategorySeries = "SERIES"
	CategoryBooks  = "BOOKS"
	CategoryMusic  = "MUSIC"
	CategoryOther  = "OTHER"
)

// IsValidCategory проверяет, что категория известна
func IsValidCategory(category string) bool {
	switch category {
	case CategoryGames, CategoryMovies, CategorySeries, CategoryBooks, CategoryMusic, CategoryOther:
		return true
	}
	return false
}

// StringArray - пользовательский тип для работы с JSONB
type StringArray []string

// Scan реализует интерфейс sql.Scanner для StringArray
func (o *StringArray) Scan(value interface{}) error {
	if value == nil {
		*o = StringArray{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}
	if len(bytes) == 0 {
		*o = StringArray{}
		return nil
	}
	return json.Unmarshal(bytes, o)
}

// Value реализует интерфейс driver.Valuer для StringArray
func (o StringArray) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(o)
}

// Contains проверяет наличие элемента в массиве
func (o StringArray) Contains(s string) bool {
	for _, v := range o {
		if v == s {
			return true
		}
	}
	return false
}

// IntArray - пользовательский тип для JSONB-массива чисел (оценки викторины)
type IntArray []int

// Scan реализует интерфейс sql.Scanner для IntArray
func (o *IntArray) Scan(value interface{}) error {
	if value == nil {
		*o = IntArray{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}
	if len(bytes) == 0 {
		*o = IntArray{}
		return nil
	}
	return json.Unmarshal(bytes, o)
}

// Value реализует интерфейс driver.Valuer для IntArray
func (o IntArray) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(o)
}

// QuestionList - список вопросов, хранимый в JSONB
type QuestionList []Question

// Scan реализует интерфейс sql.Scanner для QuestionList
func (o *QuestionList) Scan(value interface{}) error {
	if value == nil {
		*o = QuestionList{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}
	if len(bytes) == 0 {
		*o = QuestionList{}
		return nil
	}
	return json.Unmarshal(bytes, o)
}

// Value реализует интерфейс driver.Valuer для QuestionList
func (o QuestionList) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(o)
}

// QuestionStats — агрегированная статистика одного вопроса.
// Счетчики только растут; обнуляются лишь при полном сбросе статистики.
type QuestionStats struct {
	Attempts int         `json:"attempts"`
	Correct  int         `json:"correct"`
	Answers  map[int]int `json:"answers"` // выборы по индексам вариантов
}

// Clone возвращает глубокую копию статистики вопроса
func (s QuestionStats) Clone() QuestionStats {
	answers := make(map[int]int, len(s.Answers))
	for k, v := range s.Answers {
		answers[k] = v
	}
	return QuestionStats{Attempts: s.Attempts, Correct: s.Correct, Answers: answers}
}

// QuizStats — агрегированная статистика викторины
type QuizStats struct {
	TotalPlays          int                      `json:"total_plays"`
	TotalCorrectAnswers int                      `json:"total_correct_answers"`
	QuestionStats       map[string]QuestionStats `json:"question_stats"`
}

// NewQuizStats создает обнуленную статистику с пустыми корзинами
// для каждого вопроса
func NewQuizStats(questions []Question) QuizStats {
	stats := QuizStats{QuestionStats: make(map[string]QuestionStats, len(questions))}
	for _, q := range questions {
		stats.QuestionStats[q.ID] = QuestionStats{Answers: map[int]int{}}
	}
	return stats
}

// Clone возвращает глубокую копию статистики викторины
func (s QuizStats) Clone() QuizStats {
	questionStats := make(map[string]QuestionStats, len(s.QuestionStats))
	for id, qs := range s.QuestionStats {
		questionStats[id] = qs.Clone()
	}
	return QuizStats{
		TotalPlays:          s.TotalPlays,
		TotalCorrectAnswers: s.TotalCorrectAnswers,
		QuestionStats:       questionStats,
	}
}

// Scan реализует интерфейс sql.Scanner для QuizStats
func (s *QuizStats) Scan(value interface{}) error {
	if value == nil {
		*s = QuizStats{QuestionStats: map[string]QuestionStats{}}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}
	if len(bytes) == 0 {
		*s = QuizStats{QuestionStats: map[string]QuestionStats{}}
		return nil
	}
	return json.Unmarshal(bytes, s)
}

// Value реализует интерфейс driver.Valuer для QuizStats
func (s QuizStats) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Quiz представляет пользовательскую викторину
type Quiz struct {
	ID                    string       `gorm:"primaryKey;size:36" json:"id"`
	CreatorID             string       `gorm:"size:36;not null;index" json:"creator_id"`
	Title                 string       `gorm:"size:100;not null" json:"title"`
	Category              string       `gorm:"size:20;not null;index" json:"category"`
	Questions             QuestionList `gorm:"type:jsonb;not null" json:"questions"`
	Ratings               IntArray     `gorm:"type:jsonb;not null" json:"ratings"`
	AverageRating         float64      `gorm:"not null;default:0" json:"average_rating"`
	Stats                 QuizStats    `gorm:"type:jsonb;not null" json:"stats"`
	PlayedBy              StringArray  `gorm:"type:jsonb;not null" json:"played_by"`
	Tags                  StringArray  `gorm:"type:jsonb" json:"tags,omitempty"`
	TimeLimitSec          int          `gorm:"not null;default:0" json:"time_limit_sec"` // 0 — общий таймер отключен
	PlayUntilFirstMistake bool         `gorm:"not null;default:false" json:"play_until_first_mistake"`
	IsPrivate             bool         `gorm:"not null;default:false" json:"is_private"`
	CreatedAt             time.Time    `json:"created_at"`
	UpdatedAt             time.Time    `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Quiz) TableName() string {
	return "quizzes"
}

// HasPlayed проверяет, завершал ли пользователь эту викторину.
// Инвариант play-once: статистика обновляется не более одного раза
// на пользователя для одной версии викторины.
func (q *Quiz) HasPlayed(userID string) bool {
	return q.PlayedBy.Contains(userID)
}

// IsOwnedBy проверяет, принадлежит ли викторина пользователю
func (q *Quiz) IsOwnedBy(userID string) bool {
	return userID != "" && q.CreatorID == userID
}

// QuestionByID возвращает вопрос по идентификатору или nil
func (q *Quiz) QuestionByID(questionID string) *Question {
	for i := range q.Questions {
		if q.Questions[i].ID == questionID {
			return &q.Questions[i]
		}
	}
	return nil
}

// ResetStats полностью сбрасывает статистику и список игравших.
// Вызывается при создании и при редактировании критичных полей.
func (q *Quiz) ResetStats() {
	q.Stats = NewQuizStats(q.Questions)
	q.PlayedBy = StringArray{}
}

// RecalculateAverageRating пересчитывает среднюю оценку по списку оценок
func (q *Quiz) RecalculateAverageRating() {
	if len(q.Ratings) == 0 {
		q.AverageRating = 0
		return
	}
	sum := 0
	for _, r := range q.Ratings {
		sum += r
	}
	q.AverageRating = float64(sum) / float64(len(q.Ratings))
}
