package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/cinetrivia-api/internal/domain/entity"
	"github.com/yourusername/cinetrivia-api/internal/service"
	"github.com/yourusername/cinetrivia-api/internal/tmdb"
)

// GameHandler обрабатывает автогенерируемые игры: раунды, рекорды,
// таблицы лидеров
type GameHandler struct {
	gameService  *service.GameService
	roundService *tmdb.RoundService
}

// NewGameHandler создает новый обработчик игр
func NewGameHandler(gameService *service.GameService, roundService *tmdb.RoundService) *GameHandler {
	return &GameHandler{
		gameService:  gameService,
		roundService: roundService,
	}
}

// OutcomeRequest представляет исход завершенной игры
type OutcomeRequest struct {
	Genre         string  `json:"genre" binding:"required"`
	Score         int     `json:"score"`
	Rounds        int     `json:"rounds"`
	AvgPercentage float64 `json:"avg_percentage"`
}

// NextRound возвращает следующий раунд игры. Уже использованные
// TMDB-ID передаются через exclude (через запятую).
func (h *GameHandler) NextRound(c *gin.Context) {
	game := c.Param("game")
	genre := c.DefaultQuery("genre", entity.GenreAll)

	exclude := map[int]bool{}
	if raw := c.Query("exclude"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if id, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
				exclude[id] = true
			}
		}
	}

	round, err := h.roundService.NextRound(game, genre, exclude)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, round)
}

// RecordOutcome фиксирует исход завершенной игры и возвращает
// актуальный рекорд пользователя
func (h *GameHandler) RecordOutcome(c *gin.Context) {
	var req OutcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.gameService.RecordRoundOutcome(
		userIDFromContext(c),
		c.Param("game"),
		req.Genre,
		entity.GameResult{
			Score:         req.Score,
			Rounds:        req.Rounds,
			AvgPercentage: req.AvgPercentage,
		},
	)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// GetLeaderboard возвращает топ таблицы лидеров игры
func (h *GameHandler) GetLeaderboard(c *gin.Context) {
	genre := c.DefaultQuery("genre", entity.GenreAll)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(service.DefaultLeaderboardTop)))

	entries, err := h.gameService.GetLeaderboard(c.Param("game"), genre, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"game":    c.Param("game"),
		"genre":   genre,
		"entries": entries,
	})
}
