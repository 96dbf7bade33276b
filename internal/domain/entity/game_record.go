package entity

import (
	"time"
)

// Идентификаторы автогенерируемых игр
const (
	GameMovieQuiz              = "movieQuiz"
	GameSeriesQuiz             = "seriesQuiz"
	GameMovieRatingGame        = "movieRatingGame"
	GameSeriesSeasonRatingGame = "seriesSeasonRatingGame"
	GameDirectorQuiz           = "directorQuiz"
	GameYearQuiz               = "yearQuiz"
	GameActorQuiz              = "actorQuiz"
	GameSeriesActorQuiz        = "seriesActorQuiz"
	GameDescriptionQuiz        = "descriptionQuiz"
	GameSeriesDescriptionQuiz  = "seriesDescriptionQuiz"
)

// Жанровые фильтры игр
const (
	GenreAll    = "ALL"
	GenreHorror = "HORROR"
	GenreComedy = "COMEDY"
)

// IsValidGame проверяет идентификатор игры
func IsValidGame(game string) bool {
	switch game {
	case GameMovieQuiz, GameSeriesQuiz, GameMovieRatingGame, GameSeriesSeasonRatingGame,
		GameDirectorQuiz, GameYearQuiz, GameActorQuiz, GameSeriesActorQuiz,
		GameDescriptionQuiz, GameSeriesDescriptionQuiz:
		return true
	}
	return false
}

// IsDescriptionGame возвращает true для игр, где рекорд — это пара
// {раунды, средний процент}, а не одиночный счет
func IsDescriptionGame(game string) bool {
	return game == GameDescriptionQuiz || game == GameSeriesDescriptionQuiz
}

// IsValidGenre проверяет жанровый фильтр
func IsValidGenre(genre string) bool {
	switch genre {
	case GenreAll, GenreHorror, GenreComedy:
		return true
	}
	return false
}

// GameResult — исход одной завершенной игры.
// Для элиминационных игр заполняется Score, для description-игр —
// Rounds и AvgPercentage.
type GameResult struct {
	Score         int     `json:"score"`
	Rounds        int     `json:"rounds"`
	AvgPercentage float64 `json:"avg_percentage"`
}

// GameRecord — лучший результат пользователя в разрезе (игра, жанр).
// Обновляется только в сторону улучшения (high-score семантика).
type GameRecord struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        string    `gorm:"size:36;not null;uniqueIndex:idx_user_game_genre" json:"user_id"`
	Game          string    `gorm:"size:30;not null;uniqueIndex:idx_user_game_genre" json:"game"`
	Genre         string    `gorm:"size:10;not null;uniqueIndex:idx_user_game_genre" json:"genre"`
	Score         int       `gorm:"not null;default:0" json:"score"`
	Rounds        int       `gorm:"not null;default:0" json:"rounds"`
	AvgPercentage float64   `gorm:"not null;default:0" json:"avg_percentage"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (GameRecord) TableName() string {
	return "game_records"
}

// LeaderboardEntry — запись таблицы лидеров в разрезе (игра, жанр).
// У пользователя не более одной записи на корзину; счет монотонно растет.
type LeaderboardEntry struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Game      string    `gorm:"size:30;not null;uniqueIndex:idx_game_genre_user" json:"-"`
	Genre     string    `gorm:"size:10;not null;uniqueIndex:idx_game_genre_user" json:"-"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_game_genre_user" json:"user_id"`
	Score     int       `gorm:"not null;default:0" json:"score"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName определяет имя таблицы для GORM
func (LeaderboardEntry) TableName() string {
	return "leaderboard_entries"
}
