// internal/auth/service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/wanderlink/travelmatch-backend/internal/common/utils"
)

type Service interface {
	Signup(ctx context.Context, dto *SignupDTO) (*User, *TokenPair, error)
	Signin(ctx context.Context, dto *SigninDTO) (*User, *TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
}

type Config struct {
	JWTSecret          string
	BCryptCost         int
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type service struct {
	repo   Repository
	cache  *redis.Client
	config Config
}

// NewService wires the auth service. cache may be nil, in which case
// refresh token revocation is disabled.
func NewService(repo Repository, cache *redis.Client, config Config) Service {
	if config.BCryptCost < bcrypt.MinCost {
		config.BCryptCost = bcrypt.DefaultCost
	}
	if config.AccessTokenExpiry <= 0 {
		config.AccessTokenExpiry = 15 * time.Minute
	}
	if config.RefreshTokenExpiry <= 0 {
		config.RefreshTokenExpiry = 7 * 24 * time.Hour
	}
	return &service{
		repo:   repo,
		cache:  cache,
		config: config,
	}
}

func (s *service) Signup(ctx context.Context, dto *SignupDTO) (*User, *TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(dto.Email))
	username := strings.TrimSpace(dto.Username)

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, nil, fmt.Errorf("failed to check email: %w", err)
	}

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return nil, nil, ErrUsernameTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, nil, fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.config.BCryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	displayName := strings.TrimSpace(dto.DisplayName)
	if displayName == "" {
		displayName = username
	}

	user := &User{
		Email:        email,
		Username:     username,
		DisplayName:  displayName,
		PasswordHash: string(hash),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	return user, tokens, nil
}

func (s *service) Signin(ctx context.Context, dto *SigninDTO) (*User, *TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(dto.Email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	return user, tokens, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := utils.ValidateJWT(refreshToken, s.config.JWTSecret)
	if err != nil || claims.Type != "refresh" {
		return nil, ErrInvalidToken
	}

	if s.isRevoked(ctx, claims.Subject) {
		return nil, ErrTokenRevoked
	}

	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	// Rotate: the presented refresh token is single-use.
	s.revoke(ctx, claims.Subject, claims.ExpiresAt)

	return s.issueTokens(user)
}

func (s *service) Logout(ctx context.Context, refreshToken string) error {
	claims, err := utils.ValidateJWT(refreshToken, s.config.JWTSecret)
	if err != nil || claims.Type != "refresh" {
		return ErrInvalidToken
	}

	s.revoke(ctx, claims.Subject, claims.ExpiresAt)
	return nil
}

func (s *service) ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error) {
	claims, err := utils.ValidateJWT(token, s.config.JWTSecret)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if time.Now().Unix() > claims.ExpiresAt {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *service) GetUserByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) issueTokens(user *User) (*TokenPair, error) {
	now := time.Now()

	access, err := utils.GenerateJWT(&utils.JWTClaims{
		UserID:    user.ID,
		Email:     user.Email,
		Username:  user.Username,
		Type:      "access",
		ExpiresAt: now.Add(s.config.AccessTokenExpiry).Unix(),
		IssuedAt:  now.Unix(),
		Issuer:    "travelmatch",
		Subject:   uuid.NewString(),
	}, s.config.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refresh, err := utils.GenerateJWT(&utils.JWTClaims{
		UserID:    user.ID,
		Email:     user.Email,
		Username:  user.Username,
		Type:      "refresh",
		ExpiresAt: now.Add(s.config.RefreshTokenExpiry).Unix(),
		IssuedAt:  now.Unix(),
		Issuer:    "travelmatch",
		Subject:   uuid.NewString(),
	}, s.config.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.config.AccessTokenExpiry.Seconds()),
	}, nil
}

func (s *service) revoke(ctx context.Context, tokenID string, expiresAt int64) {
	if s.cache == nil || tokenID == "" {
		return
	}
	ttl := time.Until(time.Unix(expiresAt, 0))
	if ttl <= 0 {
		return
	}
	s.cache.Set(ctx, revocationKey(tokenID), "1", ttl)
}

func (s *service) isRevoked(ctx context.Context, tokenID string) bool {
	if s.cache == nil || tokenID == "" {
		return false
	}
	exists, err := s.cache.Exists(ctx, revocationKey(tokenID)).Result()
	return err == nil && exists > 0
}

func revocationKey(tokenID string) string {
	return "auth:revoked:" + tokenID
}
