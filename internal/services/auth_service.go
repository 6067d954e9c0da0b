package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"productsvc/internal/apperrors"
	"productsvc/internal/models"
	"productsvc/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login and token validation for API users.
type AuthService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *zap.Logger
}

// NewAuthService creates a new AuthService issuing tokens valid for 24 hours.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  24 * time.Hour,
		logger:    logger.Named("auth_service"),
	}
}

// RegisterUser hashes the user's password and stores the user.
func (s *AuthService) RegisterUser(ctx context.Context, user *models.User) error {
	taken, err := s.exists(s.userRepo.GetByUsername(ctx, user.Username))
	if err != nil {
		return err
	}
	if taken {
		return apperrors.Conflict(fmt.Sprintf("username '%s' already taken", user.Username))
	}

	taken, err = s.exists(s.userRepo.GetByEmail(ctx, user.Email))
	if err != nil {
		return err
	}
	if taken {
		return apperrors.Conflict(fmt.Sprintf("email '%s' already registered", user.Email))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)

	if err := s.userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

func (s *AuthService) exists(user *models.User, err error) (bool, error) {
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return user != nil, nil
}

// LoginUser checks the credentials and returns a signed HS256 token.
func (s *AuthService) LoginUser(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
		return "", err
	}
	if user == nil {
		// Same answer whether or not the username exists.
		return "", apperrors.Unauthorized("invalid credentials", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", apperrors.Unauthorized("invalid credentials", nil)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      now.Add(s.tokenTTL).Unix(),
		"iat":      now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a token, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		s.logger.Debug("token validation failed", zap.Error(err))
		return nil, apperrors.Unauthorized("invalid token", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, apperrors.Unauthorized("invalid token", nil)
}
