package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles back-office authentication
type AuthService struct {
	jwtSecret     string
	jwtExpiration time.Duration
	passwordHash  []byte
}

// NewAuthService creates a new auth service. The admin password is hashed
// once at startup so login compares against a bcrypt digest, never the
// plaintext from the environment.
func NewAuthService(jwtSecret, adminPassword string, jwtExpirationSeconds int) (*AuthService, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}

	return &AuthService{
		jwtSecret:     jwtSecret,
		jwtExpiration: time.Duration(jwtExpirationSeconds) * time.Second,
		passwordHash:  hash,
	}, nil
}

// JWTClaims represents JWT token claims
type JWTClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Login checks the supplied password and returns a session token on success
func (s *AuthService) Login(password string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", fmt.Errorf("invalid password")
	}
	return s.GenerateToken()
}

// GenerateToken generates an admin JWT token
func (s *AuthService) GenerateToken() (string, error) {
	now := time.Now()
	claims := &JWTClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "smokey",
			Subject:   "admin",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates a JWT token and returns the claims
func (s *AuthService) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}
