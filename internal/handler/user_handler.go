package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/cinetrivia-api/internal/service"
)

// UserHandler обрабатывает запросы, связанные с пользователями
type UserHandler struct {
	userService *service.UserService
	gameService *service.GameService
}

// NewUserHandler создает новый обработчик пользователей
func NewUserHandler(userService *service.UserService, gameService *service.GameService) *UserHandler {
	return &UserHandler{
		userService: userService,
		gameService: gameService,
	}
}

// Register создает анонимного пользователя и возвращает токен доступа
func (h *UserHandler) Register(c *gin.Context) {
	user, token, err := h.userService.Register()
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"user_id": user.ID,
		"token":   token,
	})
}

// GetProfile возвращает профиль текущего пользователя: созданные
// викторины, историю игр и игровые рекорды
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID := userIDFromContext(c)

	profile, err := h.userService.GetProfile(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	records, err := h.gameService.GetUserRecords(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":            profile.User,
		"quizzes_created": profile.QuizzesCreated,
		"plays_completed": profile.PlaysCompleted,
		"play_history":    profile.PlayHistory,
		"game_records":    records,
	})
}
