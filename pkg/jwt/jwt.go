package jwt

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Audiences scoping the single-purpose tokens.
const (
	VerifyAudience = "users:verify"
	ResetAudience  = "users:reset"
)

// Token types carried by login tokens so an access token cannot stand
// in for a refresh token or the other way round.
const (
	AccessTokenType  = "access"
	RefreshTokenType = "refresh"
)

// Claims represents JWT claims
type Claims struct {
	UserID    uint   `json:"userId"`
	Email     string `json:"email"`
	TokenType string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// JWTService handles JWT operations
type JWTService struct {
	secret        []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	actionExpiry  time.Duration
}

var signJWTToken = func(token *jwt.Token, secret []byte) (string, error) {
	return token.SignedString(secret)
}

// NewJWTService creates a new JWT service. actionExpiry bounds the
// lifetime of verification and password-reset tokens.
func NewJWTService(secret string, accessExpiry, refreshExpiry, actionExpiry time.Duration) *JWTService {
	return &JWTService{
		secret:        []byte(secret),
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
		actionExpiry:  actionExpiry,
	}
}

// GenerateTokenPair generates access and refresh tokens
func (s *JWTService) GenerateTokenPair(userID uint, email string) (*TokenPair, error) {
	accessToken, err := s.generateToken(userID, email, AccessTokenType, s.accessExpiry, nil)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateToken(userID, email, RefreshTokenType, s.refreshExpiry, nil)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// GenerateActionToken issues a single-purpose token bound to an
// audience (email verification, password reset).
func (s *JWTService) GenerateActionToken(userID uint, email, audience string) (string, error) {
	return s.generateToken(userID, email, "", s.actionExpiry, []string{audience})
}

// ValidateToken validates an access token and returns the claims.
// Refresh, verification and reset tokens are rejected here; they are
// not bearer credentials.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	return s.validateLoginToken(tokenString, AccessTokenType)
}

// ValidateRefreshToken validates a refresh token and returns the
// claims. Access tokens are rejected.
func (s *JWTService) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return s.validateLoginToken(tokenString, RefreshTokenType)
}

func (s *JWTService) validateLoginToken(tokenString, tokenType string) (*Claims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if len(claims.Audience) != 0 || claims.TokenType != tokenType {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidateActionToken validates a single-purpose token against the
// expected audience.
func (s *JWTService) ValidateActionToken(tokenString, audience string) (*Claims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}
	for _, aud := range claims.Audience {
		if aud == audience {
			return claims, nil
		}
	}
	return nil, ErrInvalidToken
}

func (s *JWTService) parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
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

	return claims, nil
}

func (s *JWTService) generateToken(userID uint, email, tokenType string, expiry time.Duration, audience []string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:    userID,
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Audience:  audience,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return signJWTToken(token, s.secret)
}
