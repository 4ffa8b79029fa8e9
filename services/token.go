package services

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"personnel_app_go/models"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidAlgorithm = errors.New("invalid signing algorithm")
	ErrWrongTokenType   = errors.New("wrong token type")
	ErrEmptySecretKey   = errors.New("secret key cannot be empty")
	ErrWeakSecretKey    = errors.New("secret key must be at least 32 characters")
	ErrInvalidDuration  = errors.New("duration must be positive")
)

// Token types carried in the "type" claim
const (
	TokenTypeAccess        = "access"
	TokenTypePasswordReset = "password-reset"
)

// Claims represents the JWT claims
type Claims struct {
	UserID      string  `json:"id"`
	Email       string  `json:"email"`
	Name        string  `json:"name,omitempty"`
	Role        string  `json:"role,omitempty"`
	Language    string  `json:"language,omitempty"`
	InstituteID *string `json:"instituteId,omitempty"`
	Type        string  `json:"type"`
	// Fingerprint of the password hash a reset token was issued against
	Fingerprint string `json:"fp,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and validates HS256 tokens
type TokenService struct {
	secret   []byte
	duration time.Duration
	resetTTL time.Duration
}

// NewTokenService creates a token service. duration applies to access tokens,
// resetTTL to password-reset tokens.
func NewTokenService(secret string, duration, resetTTL time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, ErrEmptySecretKey
	}
	if len(secret) < 32 {
		return nil, ErrWeakSecretKey
	}
	if duration <= 0 || resetTTL <= 0 {
		return nil, ErrInvalidDuration
	}
	return &TokenService{secret: []byte(secret), duration: duration, resetTTL: resetTTL}, nil
}

func (s *TokenService) sign(claims *Claims, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   claims.UserID,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// GenerateAccessToken issues the bearer token returned at login
func (s *TokenService) GenerateAccessToken(user *models.User) (string, time.Time, error) {
	return s.sign(&Claims{
		UserID:      user.ID,
		Email:       user.Email,
		Name:        user.FullName(),
		Role:        user.Role,
		Language:    user.Language,
		InstituteID: user.InstituteID,
		Type:        TokenTypeAccess,
	}, s.duration)
}

// GeneratePasswordResetToken issues a short-lived token bound to the user's current password
func (s *TokenService) GeneratePasswordResetToken(user *models.User) (string, time.Time, error) {
	return s.sign(&Claims{
		UserID:      user.ID,
		Email:       user.Email,
		Type:        TokenTypePasswordReset,
		Fingerprint: passwordFingerprint(user.Password),
	}, s.resetTTL)
}

// ParseToken validates signature, expiry and the token type
func (s *TokenService) ParseToken(tokenString, expectedType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidAlgorithm
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Type != expectedType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

// passwordFingerprint changes whenever the password hash changes, so a reset
// token stops working once it has been used
func passwordFingerprint(hash string) string {
	sum := sha256.Sum256([]byte(hash))
	return hex.EncodeToString(sum[:8])
}
