package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/volunteerhub/backend/internal/models"
)

type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

var ErrInvalidToken = errors.New("invalid token")

type JWTSettings struct {
	AccessSecret  string
	AccessTTL     time.Duration
	RefreshSecret string
	RefreshTTL    time.Duration
}

var (
	accessSecret  = []byte("change-me-access")
	accessTTL     = 15 * time.Minute
	refreshSecret = []byte("change-me-refresh")
	refreshTTL    = 10 * 24 * time.Hour
)

type Claims struct {
	UserID    uuid.UUID       `json:"userID"`
	Email     string          `json:"email"`
	Role      models.UserRole `json:"role"`
	TokenType TokenKind       `json:"tokenType"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// ConfigureJWT replaces the signing secrets and lifetimes. Empty secrets and
// non-positive durations keep the current values.
func ConfigureJWT(settings JWTSettings) {
	if settings.AccessSecret != "" {
		accessSecret = []byte(settings.AccessSecret)
	}
	if settings.AccessTTL > 0 {
		accessTTL = settings.AccessTTL
	}
	if settings.RefreshSecret != "" {
		refreshSecret = []byte(settings.RefreshSecret)
	}
	if settings.RefreshTTL > 0 {
		refreshTTL = settings.RefreshTTL
	}
}

func AccessTTL() time.Duration {
	return accessTTL
}

func RefreshTTL() time.Duration {
	return refreshTTL
}

func keyFor(kind TokenKind) ([]byte, time.Duration, error) {
	switch kind {
	case TokenKindAccess:
		return accessSecret, accessTTL, nil
	case TokenKindRefresh:
		return refreshSecret, refreshTTL, nil
	default:
		return nil, 0, fmt.Errorf("unknown token kind %q", kind)
	}
}

func generateToken(user *models.User, kind TokenKind) (string, error) {
	secret, ttl, err := keyFor(kind)
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := Claims{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		TokenType: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
			Subject:   user.ID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func GenerateAccessToken(user *models.User) (string, error) {
	return generateToken(user, TokenKindAccess)
}

func GenerateRefreshToken(user *models.User) (string, error) {
	return generateToken(user, TokenKindRefresh)
}

func GenerateTokenPair(user *models.User) (TokenPair, error) {
	access, err := GenerateAccessToken(user)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := GenerateRefreshToken(user)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ValidateToken verifies signature, expiry and kind. Every failure wraps
// ErrInvalidToken.
func ValidateToken(tokenString string, expected TokenKind) (*Claims, error) {
	secret, _, err := keyFor(expected)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != expected {
		return nil, fmt.Errorf("%w: expected %s token", ErrInvalidToken, expected)
	}
	if claims.UserID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}

	return claims, nil
}

// HashRefreshToken returns the digest persisted on the user record.
func HashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
