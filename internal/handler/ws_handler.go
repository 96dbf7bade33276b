package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"

	ws "github.com/yourusername/cinetrivia-api/internal/websocket"
	"github.com/yourusername/cinetrivia-api/pkg/auth"
)

// WSHandler обрабатывает установку WebSocket-соединений для push-событий
// (ход сессии, обновления таблиц лидеров)
type WSHandler struct {
	manager    *ws.Manager
	jwtService *auth.JWTService
	upgrader   gorillaws.Upgrader
}

// NewWSHandler создает новый обработчик WebSocket
func NewWSHandler(manager *ws.Manager, jwtService *auth.JWTService, allowedOrigins []string) *WSHandler {
	originSet := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		originSet[origin] = true
	}
	return &WSHandler{
		manager:    manager,
		jwtService: jwtService,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// Запросы без Origin (не из браузера) пропускаем
				return origin == "" || originSet["*"] || originSet[origin]
			},
		},
	}
}

// Connect апгрейдит соединение. Браузерный WebSocket не умеет ставить
// заголовки, поэтому токен передается query-параметром.
func (h *WSHandler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token query parameter is required"})
		return
	}
	userID, err := h.jwtService.ParseToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WSHandler] Ошибка апгрейда соединения: %v", err)
		return
	}
	h.manager.Register(userID, conn)
}
