package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/barakov14/easylang-backend/internal/model"
	"github.com/barakov14/easylang-backend/internal/repository"
	"github.com/barakov14/easylang-backend/internal/util"
	"github.com/barakov14/easylang-backend/pkg/rbac"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type AuthService struct {
	users     *repository.UserRepository
	jwtSecret string
	logger    *zap.Logger
}

func NewAuthService(users *repository.UserRepository, jwtSecret string, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

type RegisterInput struct {
	Username string
	Name     string
	Surname  string
	Email    string
	Password string
	Role     string
}

// Register creates a user with a hashed password. The role must be one of
// the known workflow roles.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	role, err := rbac.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}

	taken, err := s.users.UsernameExists(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	hash, err := util.HashPassword(in.Password)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, err
	}

	u := &model.User{
		Username:     in.Username,
		Name:         in.Name,
		Surname:      in.Surname,
		Email:        in.Email,
		Role:         role,
		Status:       model.UserStatusReady,
		PasswordHash: hash,
	}
	if _, err := s.users.Insert(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("User registered",
		zap.Int64("user_id", u.ID),
		zap.String("username", u.Username),
		zap.String("role", role.String()),
	)
	return u, nil
}

// Login checks credentials and issues a JWT.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		// Do not reveal whether the username exists.
		return "", nil, ErrInvalidCredentials
	}

	if !util.CheckPassword(password, u.PasswordHash) {
		s.logger.Warn("Failed login attempt", zap.String("username", username))
		return "", nil, ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(u.ID, s.jwtSecret)
	if err != nil {
		s.logger.Error("Failed to sign token", zap.Error(err))
		return "", nil, err
	}

	return token, u, nil
}
