package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yourusername/cinetrivia-api/internal/pkg/errors"
)

// userIDFromContext достает идентификатор пользователя, положенный
// middleware аутентификации. Пустая строка — анонимный запрос.
func userIDFromContext(c *gin.Context) string {
	raw, exists := c.Get("userID")
	if !exists {
		return ""
	}
	userID, ok := raw.(string)
	if !ok {
		return ""
	}
	return userID
}

// handleServiceError переводит ошибки сервисного слоя в HTTP-статусы
func handleServiceError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrUnauthorized) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrForbidden) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrRoundUnavailable) {
		// Провайдер раундов временно не смог собрать раунд — можно повторить
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error(), "retryable": true})
	} else {
		log.Printf("ERROR: Internal server error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
