package service

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/yourusername/cinetrivia-api/internal/domain/entity"
	"github.com/yourusername/cinetrivia-api/internal/domain/repository"
	apperrors "github.com/yourusername/cinetrivia-api/internal/pkg/errors"
	"github.com/yourusername/cinetrivia-api/pkg/auth"
)

// UserService управляет анонимными пользователями платформы
type UserService struct {
	userRepo       repository.UserRepository
	playRecordRepo repository.PlayRecordRepository
	jwtService     *auth.JWTService
}

// NewUserService создает новый сервис пользователей
func NewUserService(userRepo repository.UserRepository, playRecordRepo repository.PlayRecordRepository, jwtService *auth.JWTService) *UserService {
	return &UserService{
		userRepo:       userRepo,
		playRecordRepo: playRecordRepo,
		jwtService:     jwtService,
	}
}

// Register создает анонимного пользователя и выдает токен доступа
func (s *UserService) Register() (*entity.User, string, error) {
	user := &entity.User{ID: uuid.NewString()}
	if err := s.userRepo.Create(user); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	log.Printf("[UserService] Зарегистрирован пользователь %s", user.ID)
	return user, token, nil
}

// Profile — сводка по пользователю для клиента
type Profile struct {
	User           *entity.User            `json:"user"`
	QuizzesCreated int64                   `json:"quizzes_created"`
	PlaysCompleted int64                   `json:"plays_completed"`
	PlayHistory    []entity.UserPlayRecord `json:"play_history"`
}

// GetProfile возвращает профиль пользователя с историей игр
func (s *UserService) GetProfile(userID string) (*Profile, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthorized
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	created, err := s.userRepo.CountQuizzesByCreator(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count quizzes: %w", err)
	}
	plays, err := s.playRecordRepo.CountByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count plays: %w", err)
	}
	history, err := s.playRecordRepo.GetByUser(userID, 50, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load play history: %w", err)
	}

	return &Profile{
		User:           user,
		QuizzesCreated: created,
		PlaysCompleted: plays,
		PlayHistory:    history,
	}, nil
}
