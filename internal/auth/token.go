// Package auth выпускает и проверяет JWT и хэширует пароли.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrUnauthorized - токен отсутствует, просрочен или подписан чужим ключом.
var ErrUnauthorized = errors.New("unauthorized")

// Claims - то, что мы кладём в токен.
type Claims struct {
	UserID uint
	Role   string
}

// IssueToken подписывает HS256 токен с user_id, role и exp.
func IssueToken(key []byte, userID uint, role string, ttl time.Duration) (string, error) {
	if len(key) == 0 {
		return "", fmt.Errorf("jwt key is empty")
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	})
	return token.SignedString(key)
}

// ParseToken проверяет подпись и срок действия. Любая ошибка оборачивает ErrUnauthorized.
func ParseToken(key []byte, tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, fmt.Errorf("%w: empty token", ErrUnauthorized)
	}
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return key, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: invalid token claims", ErrUnauthorized)
	}
	userIDFloat, ok := claims["user_id"].(float64)
	if !ok || userIDFloat <= 0 {
		return nil, fmt.Errorf("%w: invalid user ID format in token", ErrUnauthorized)
	}
	role, _ := claims["role"].(string)

	return &Claims{UserID: uint(userIDFloat), Role: role}, nil
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
