// Package auth implements the deployment's trust-on-first-use login: any
// name is accepted and exchanged for a signed session token. No credential
// verification happens anywhere in this deployment.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/merolabs/meroview-backend/internal/model"
)

// Claims extends JWT standard claims with the session user's display data.
type Claims struct {
	jwt.RegisteredClaims
	Name string            `json:"name"`
	Role model.ProfileRole `json:"role,omitempty"`
}

// Service mints and parses session tokens.
type Service struct {
	secret []byte
	expiry time.Duration
}

// NewService creates a Service signing with secret, tokens valid for expiry.
func NewService(secret string, expiry time.Duration) *Service {
	return &Service{secret: []byte(secret), expiry: expiry}
}

// Login builds a SessionUser from the request and signs a token for it.
// The first login owns the identity; nothing is checked against a user
// database because none exists.
func (s *Service) Login(req model.LoginRequest) (model.SessionUser, string, error) {
	role := req.Role
	if role == "" {
		role = model.RoleTeacher
	}
	user := model.SessionUser{
		ID:    uuid.NewString(),
		Name:  req.Name,
		Email: req.Email,
		Role:  role,
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
		Name: user.Name,
		Role: user.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return model.SessionUser{}, "", fmt.Errorf("sign token: %w", err)
	}

	return user, signed, nil
}

// Parse verifies a token and returns its claims.
func (s *Service) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
