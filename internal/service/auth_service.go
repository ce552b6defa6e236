package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"eventsync/config"
	"eventsync/internal/model"
	"eventsync/internal/repository"
	apperrors "eventsync/pkg/app_errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthResult struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// GuestLogin 建立一次性的訪客帳號並簽發 token
	GuestLogin(ctx context.Context) (*AuthResult, error)
	GenerateToken(userID uuid.UUID) (string, error)
}

type AuthServiceImpl struct {
	userRepo repository.UserRepository
	cfg      config.AuthConfig
}

func NewAuthService(userRepo repository.UserRepository, cfg config.AuthConfig) AuthService {
	return &AuthServiceImpl{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	if name == "" || email == "" || password == "" {
		return nil, apperrors.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.Create(ctx, &model.User{
		UserID:       uuid.New(),
		Name:         name,
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, err
	}

	return s.issue(user)
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		// 帳號不存在與密碼錯誤回同一個錯，不洩漏帳號存在與否
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *AuthServiceImpl) GuestLogin(ctx context.Context) (*AuthResult, error) {
	suffix := strings.Split(uuid.New().String(), "-")[0]

	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.New().String()), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.Create(ctx, &model.User{
		UserID:       uuid.New(),
		Name:         fmt.Sprintf("Guest_%s", suffix),
		Email:        fmt.Sprintf("guest_%s@temp.com", suffix),
		PasswordHash: string(hash),
		IsGuest:      true,
	})
	if err != nil {
		return nil, err
	}

	return s.issue(user)
}

func (s *AuthServiceImpl) GenerateToken(userID uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"exp":     time.Now().Add(s.cfg.TokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthServiceImpl) issue(user *model.User) (*AuthResult, error) {
	token, err := s.GenerateToken(user.UserID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}
