package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/strikezone/league-system/models"
	"github.com/strikezone/league-system/repositories"
	"github.com/strikezone/league-system/utils"
)

const minPasswordLength = 8

type RegisterInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type AuthService struct {
	userRepo  repositories.UserRepository
	emails    *EmailService
	jwtSecret []byte
	logger    *slog.Logger
}

func NewAuthService(userRepo repositories.UserRepository, emails *EmailService, jwtSecret []byte, logger *slog.Logger) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		emails:    emails,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// Register создаёт нового пользователя с ролью player.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Email == "" || input.FirstName == "" || input.LastName == "" {
		return nil, ErrValidationFailed
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		Role:         models.RolePlayer,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, mapRepoError(err)
	}

	// Письмо не должно ронять регистрацию.
	if s.emails != nil {
		if err := s.emails.SendWelcomeEmail(user.Email, user.FirstName); err != nil {
			s.logger.Warn("failed to send welcome email",
				slog.String("email", user.Email), slog.Any("error", err))
		}
	}

	return user, nil
}

// Login проверяет учётные данные и выдаёт JWT.
func (s *AuthService) Login(ctx context.Context, creds models.Credentials) (string, *models.User, error) {
	email := strings.TrimSpace(strings.ToLower(creds.Email))
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		// Не раскрываем, что именно не совпало.
		return "", nil, ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(creds.Password, user.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(s.jwtSecret, user.ID, string(user.Role))
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, user, nil
}
