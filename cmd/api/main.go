package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/cinetrivia-api/internal/config"
	"github.com/yourusername/cinetrivia-api/internal/handler"
	"github.com/yourusername/cinetrivia-api/internal/middleware"
	pgRepo "github.com/yourusername/cinetrivia-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/cinetrivia-api/internal/repository/redis"
	"github.com/yourusername/cinetrivia-api/internal/service"
	"github.com/yourusername/cinetrivia-api/internal/service/playsession"
	"github.com/yourusername/cinetrivia-api/internal/tmdb"
	ws "github.com/yourusername/cinetrivia-api/internal/websocket"
	"github.com/yourusername/cinetrivia-api/pkg/auth"
	"github.com/yourusername/cinetrivia-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	quizRepo := pgRepo.NewQuizRepo(db)
	playRecordRepo := pgRepo.NewPlayRecordRepo(db)
	gameRepo := pgRepo.NewGameRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Инициализируем JWT
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Инициализируем WebSocket-менеджер
	wsManager := ws.NewManager()

	// Инициализируем сервисы
	quizService := service.NewQuizService(quizRepo)
	playService := service.NewPlayService(quizRepo, playRecordRepo)
	gameService := service.NewGameService(gameRepo, cacheRepo)
	userService := service.NewUserService(userRepo, playRecordRepo, jwtService)

	sessionManager := playsession.NewManager(playsession.NewScheduler(), playService, wsManager)

	tmdbClient := tmdb.NewClient(cfg.TMDB.APIKey, cfg.TMDB.Language, cacheRepo)
	roundService := tmdb.NewRoundService(tmdbClient)

	// Инициализируем обработчики
	quizHandler := handler.NewQuizHandler(quizService, playService)
	sessionHandler := handler.NewSessionHandler(quizService, sessionManager)
	gameHandler := handler.NewGameHandler(gameService, roundService)
	userHandler := handler.NewUserHandler(userService, gameService)
	wsHandler := handler.NewWSHandler(wsManager, jwtService, cfg.CORS.AllowedOrigins)

	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	router := gin.Default()

	if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
		log.Printf("Warning: failed to set trusted proxies: %v", err)
	}

	// Настройка CORS
	allowedOrigins := cfg.CORS.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Настраиваем маршруты API
	api := router.Group("/api")
	api.Use(rateLimiter.Limit(middleware.DefaultAPIRateLimitConfig()))
	{
		// Пользователи
		api.POST("/users", userHandler.Register)
		api.GET("/users/me/profile", authMiddleware.RequireAuth(), userHandler.GetProfile)

		// Викторины
		quizzes := api.Group("/quizzes")
		{
			quizzes.GET("", authMiddleware.OptionalAuth(), quizHandler.ListQuizzes)
			quizzes.GET("/:id", authMiddleware.OptionalAuth(), quizHandler.GetQuiz)
			quizzes.POST("", authMiddleware.RequireAuth(), quizHandler.CreateQuiz)
			quizzes.PUT("/:id", authMiddleware.RequireAuth(), quizHandler.UpdateQuiz)
			quizzes.DELETE("/:id", authMiddleware.RequireAuth(), quizHandler.DeleteQuiz)
			quizzes.POST("/:id/rate", authMiddleware.RequireAuth(), quizHandler.RateQuiz)
			quizzes.POST("/:id/play", authMiddleware.RequireAuth(), quizHandler.PlayQuiz)
			quizzes.GET("/:id/stats", authMiddleware.RequireAuth(), quizHandler.GetQuizStats)
			quizzes.GET("/:id/stats/export", authMiddleware.RequireAuth(), quizHandler.ExportQuizStats)
		}

		// Игровые сессии с серверными таймерами
		sessions := api.Group("/sessions")
		sessions.Use(authMiddleware.OptionalAuth())
		{
			sessions.POST("", sessionHandler.StartSession)
			sessions.GET("/:id", sessionHandler.GetSession)
			sessions.POST("/:id/answer", sessionHandler.SubmitAnswer)
			sessions.POST("/:id/selection", sessionHandler.SetSelection)
			sessions.POST("/:id/ack", sessionHandler.AcknowledgeFeedback)
		}

		// Автогенерируемые игры
		games := api.Group("/games")
		{
			games.GET("/:game/round", rateLimiter.Limit(middleware.RoundRateLimitConfig()), gameHandler.NextRound)
			games.POST("/:game/outcome", authMiddleware.RequireAuth(), gameHandler.RecordOutcome)
			games.GET("/:game/leaderboard", gameHandler.GetLeaderboard)
		}
	}

	// WebSocket для push-событий
	router.GET("/ws", wsHandler.Connect)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}
