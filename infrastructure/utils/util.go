package utils

import (
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/FatihZee/tele-bot/infrastructure/logger"
)

func GetCurrentTime() time.Time {
	return time.Now().UTC()
}

// GenerateToken issues the HS256 admin token consumed by the auth middleware.
func GenerateToken(userName, secretKey string, ttl time.Duration) (string, error) {
	now := GetCurrentTime()
	claims := jwt.MapClaims{
		"user_name": userName,
		"iss":       "tele-bot",
		"iat":       now.Unix(),
		"exp":       now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secretKey))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while generate token")
		return "", err
	}
	return tokenString, nil
}
