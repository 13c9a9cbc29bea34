package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aidocs/backend/config"
	"github.com/aidocs/backend/internal/model"
	"github.com/aidocs/backend/internal/pkg/auth"
	"github.com/aidocs/backend/internal/repository"
	"k8s.io/klog/v2"
)

// AuthService 用户注册、登录与令牌校验
type AuthService struct {
	userRepo   repository.UserRepository
	tokens     *auth.TokenIssuer
	bcryptCost int
}

func NewAuthService(cfg *config.Config, userRepo repository.UserRepository) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokens:     auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register 注册新用户，用户名已存在时返回 ErrUsernameTaken
func (s *AuthService) Register(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}
	if len(password) > auth.MaxPasswordBytes {
		return nil, fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidInput, auth.MaxPasswordBytes)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{Username: username, PasswordHash: hash}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	klog.V(6).Infof("[AuthService] 用户注册成功: id=%d, username=%s", user.ID, user.Username)
	return user, nil
}

// Login 校验口令并签发访问令牌
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("get user: %w", err)
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return "", err
	}
	klog.V(6).Infof("[AuthService] 用户登录成功: username=%s", user.Username)
	return token, nil
}

// Authenticate 解析令牌并返回对应用户
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	username, err := s.tokens.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown subject", ErrUnauthorized)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
