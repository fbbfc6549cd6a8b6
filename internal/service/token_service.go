package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the JWT payload attached to every authenticated request.
type Claims struct {
	UserID   int64  `json:"user_id"`
	UserType string `json:"user_type"`
	jwt.RegisteredClaims
}

// TokenPair bundles the short-lived access token with its refresh token.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// TokenService handles JWT creation and validation.
type TokenService struct {
	secret         []byte
	accessExpires  time.Duration
	refreshExpires time.Duration
}

// NewTokenService returns a configured token service.
func NewTokenService(secret string, accessExpires, refreshExpires time.Duration) *TokenService {
	if accessExpires <= 0 {
		accessExpires = time.Hour
	}
	if refreshExpires <= 0 {
		refreshExpires = 7 * 24 * time.Hour
	}
	return &TokenService{
		secret:         []byte(secret),
		accessExpires:  accessExpires,
		refreshExpires: refreshExpires,
	}
}

// GeneratePair issues an access/refresh token pair for the given user.
func (t *TokenService) GeneratePair(userID int64, userType string) (TokenPair, error) {
	if userID == 0 {
		return TokenPair{}, errors.New("token: user id is required")
	}

	access, err := t.sign(userID, userType, t.accessExpires)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := t.sign(userID, userType, t.refreshExpires)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

func (t *TokenService) sign(userID int64, userType string, expiresIn time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		UserID:   userID,
		UserType: userType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// ValidateToken verifies and decodes a JWT.
func (t *TokenService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("token: unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("token: invalid claims")
}
