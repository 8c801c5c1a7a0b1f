package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"pollpay/internal/config"
	"pollpay/internal/domain/user"
	"pollpay/internal/repository"
	pollpay_errors "pollpay/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService is the identity provider for the core: it issues and parses
// access tokens and yields the authenticated userId every operation consumes.
type AuthService struct {
	users  repository.UserRepository
	secret []byte
	ttl    time.Duration
}

func NewAuthService(users repository.UserRepository, cfg config.AuthConfig) *AuthService {
	return &AuthService{
		users:  users,
		secret: []byte(cfg.JWTSecret),
		ttl:    time.Duration(cfg.AccessTokenTTL) * time.Minute,
	}
}

type AccessClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

func (s *AuthService) Register(ctx context.Context, username, email, password, displayName string) (user.User, string, error) {
	if username == "" || len(password) < 8 {
		return user.User{}, "", pollpay_errors.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, "", err
	}

	u := user.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		DisplayName:  displayName,
	}
	if email != "" {
		u.Email = sql.NullString{String: email, Valid: true}
	}

	if err := s.users.Create(ctx, &u); err != nil {
		return user.User{}, "", err
	}

	token, err := s.issueToken(u.ID)
	if err != nil {
		return user.User{}, "", err
	}
	return u, token, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (user.User, string, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pollpay_errors.ErrNotFound) {
			return user.User{}, "", pollpay_errors.ErrUnauthorized
		}
		return user.User{}, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return user.User{}, "", pollpay_errors.ErrUnauthorized
	}

	token, err := s.issueToken(u.ID)
	if err != nil {
		return user.User{}, "", err
	}
	return u, token, nil
}

func (s *AuthService) issueToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ParseAccessToken validates a bearer token and returns its claims.
func (s *AuthService) ParseAccessToken(tokenString string) (*AccessClaims, error) {
	if tokenString == "" {
		return nil, pollpay_errors.ErrUnauthorized
	}
	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, pollpay_errors.ErrUnauthorized
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, pollpay_errors.ErrUnauthorized
	}
	claims, ok := token.Claims.(*AccessClaims)
	if !ok {
		return nil, pollpay_errors.ErrUnauthorized
	}
	return claims, nil
}
