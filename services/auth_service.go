package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"blog-cms/config"
	"blog-cms/models"
	"blog-cms/repositories"
)

var errInvalidCredentials = models.ErrorUnauthorized{Message: "invalid credentials"}

type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
}

type authService struct {
	users repositories.UserRepository
	jwt   config.JWTConfig
	log   zerolog.Logger
}

func NewAuthService(users repositories.UserRepository, cfg config.JWTConfig, log zerolog.Logger) AuthService {
	return &authService{
		users: users,
		jwt:   cfg,
		log:   log.With().Str("component", "auth").Logger(),
	}
}

func (s *authService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	existing, err := s.users.GetByEmail(ctx, req.Email)
	if err == nil && existing != nil {
		return nil, models.ErrorConflict{Message: "user already exists"}
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, classify(s.log, err, "failed to register user", errInvalidCredentials)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternal("failed to hash password", err)
	}

	role := req.Role
	if role == "" {
		role = models.RoleWriter
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashed),
		Role:     role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.ErrorConflict{Message: "user already exists"}
		}
		return nil, classify(s.log, err, "failed to register user", errInvalidCredentials)
	}

	return s.respond(user)
}

func (s *authService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, classify(s.log, err, "failed to log in", errInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errInvalidCredentials
	}

	return s.respond(user)
}

func (s *authService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, classify(s.log, err, "failed to load user", models.NewNotFound("User not found"))
	}
	return user, nil
}

func (s *authService) respond(user *models.User) (*models.AuthResponse, error) {
	token, err := s.generateToken(user)
	if err != nil {
		return nil, models.NewInternal("failed to sign token", err)
	}
	return &models.AuthResponse{Token: token, User: *user}, nil
}

func (s *authService) generateToken(user *models.User) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      now.Add(s.jwt.Expiration).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwt.Secret))
}
