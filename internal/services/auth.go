package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

const (
	passwordLength = 16
	passwordChars  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	jwtExpDays     = 30
)

// AuthService handles the single-admin login and session tokens
type AuthService struct {
	username  string
	password  string
	jwtSecret string
}

// NewAuthService creates the auth service. When no admin password is
// configured a random one is generated and printed to the log once; there is
// no other way to learn it.
func NewAuthService(username, password, jwtSecret string) *AuthService {
	if password == "" {
		password = generatePassword()
		log.Warn().
			Str("username", username).
			Str("password", password).
			Msg("No admin password configured, generated a random one")
	}
	return &AuthService{
		username:  username,
		password:  password,
		jwtSecret: jwtSecret,
	}
}

// generatePassword generates a random admin password
func generatePassword() string {
	pw := make([]byte, passwordLength)
	for i := range pw {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(passwordChars))))
		pw[i] = passwordChars[n.Int64()]
	}
	return string(pw)
}

// Login checks the credentials and returns a signed session token
func (s *AuthService) Login(username, password string) (string, error) {
	if username != s.username || password != s.password {
		return "", fmt.Errorf("invalid credentials")
	}
	return s.generateJWT(username)
}

func (s *AuthService) generateJWT(username string) (string, error) {
	claims := jwt.MapClaims{
		"username": username,
		"exp":      time.Now().AddDate(0, 0, jwtExpDays).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateJWT validates a session token and returns the admin username
func (s *AuthService) ValidateJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}

	username, ok := claims["username"].(string)
	if !ok {
		return "", fmt.Errorf("username not found in token")
	}

	return username, nil
}
