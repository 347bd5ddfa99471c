// Package service validates the JWT access tokens issued by the identity service
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles carried in the "role" claim; higher values include the permissions of lower ones
const (
	RoleParticipant = 1
	RoleManager     = 2
	RoleAdmin       = 3
)

// ErrInvalidToken is returned for any token that cannot be trusted
var ErrInvalidToken = errors.New("invalid token")

// Principal is the authenticated caller extracted from an access token
type Principal struct {
	UserID int
	Role   int
	// CompanyID scopes managers to their own company; zero for platform-wide accounts
	CompanyID int
}

// TokenGenerator signs and validates HS256 access tokens
type TokenGenerator struct {
	secret string
	expiry time.Duration
}

// NewTokenGenerator creates a new token generator
func NewTokenGenerator(secret string, expiry time.Duration) *TokenGenerator {
	return &TokenGenerator{
		secret: secret,
		expiry: expiry,
	}
}

// GenerateAccessToken creates an access token for the principal
func (tg *TokenGenerator) GenerateAccessToken(p Principal) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": p.UserID,
		"role":    p.Role,
		"exp":     now.Add(tg.expiry).Unix(),
		"iat":     now.Unix(),
		"type":    "access",
	}
	if p.CompanyID > 0 {
		claims["company_id"] = p.CompanyID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(tg.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// ValidateAccessToken validates an access token and returns its principal
func (tg *TokenGenerator) ValidateAccessToken(tokenString string) (Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tg.secret), nil
	})
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Principal{}, fmt.Errorf("%w: invalid claims", ErrInvalidToken)
	}

	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != "access" {
		return Principal{}, fmt.Errorf("%w: not an access token", ErrInvalidToken)
	}

	// JWT claims decode numbers as float64
	userID, ok := claims["user_id"].(float64)
	if !ok || userID <= 0 {
		return Principal{}, fmt.Errorf("%w: user_id not found", ErrInvalidToken)
	}
	role, ok := claims["role"].(float64)
	if !ok {
		return Principal{}, fmt.Errorf("%w: role not found", ErrInvalidToken)
	}

	p := Principal{UserID: int(userID), Role: int(role)}
	if companyID, ok := claims["company_id"].(float64); ok {
		p.CompanyID = int(companyID)
	}

	return p, nil
}
