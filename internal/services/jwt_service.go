package services

import (
	"fmt"
	"time"

	"github.com/TomasElordi/gestion-rural-api/internal/config"
	"github.com/TomasElordi/gestion-rural-api/internal/models"
	"github.com/TomasElordi/gestion-rural-api/internal/utils"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "gestion-rural-api"

// JWTService signs and verifies the access/refresh token pair. Each kind
// has its own secret so a refresh token is never accepted as access.
type JWTService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewJWTService(cfg config.AuthConfig) *JWTService {
	return &JWTService{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(userID, email, organizationID, role string) (string, error) {
	claims := j.newClaims(userID, email, j.accessTTL)
	claims.OrganizationID = organizationID
	claims.Role = role
	return j.sign(claims, j.accessSecret)
}

func (j *JWTService) GenerateRefreshToken(userID, email string) (string, error) {
	return j.sign(j.newClaims(userID, email, j.refreshTTL), j.refreshSecret)
}

func (j *JWTService) VerifyAccessToken(tokenString string) (*models.Claims, error) {
	return j.verify(tokenString, j.accessSecret)
}

func (j *JWTService) VerifyRefreshToken(tokenString string) (*models.Claims, error) {
	return j.verify(tokenString, j.refreshSecret)
}

func (j *JWTService) RefreshTTL() time.Duration {
	return j.refreshTTL
}

func (j *JWTService) newClaims(userID, email string, ttl time.Duration) *models.Claims {
	now := j.now()
	return &models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "C-" + utils.GenerateRandomStringWithLength(12),
			Subject:   userID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
	}
}

func (j *JWTService) sign(claims *models.Claims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("error generate token string: %w", err)
	}
	return tokenString, nil
}

func (j *JWTService) verify(tokenString string, secret []byte) (*models.Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&models.Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return secret, nil
		},
		jwt.WithTimeFunc(j.now),
		jwt.WithIssuer(tokenIssuer),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*models.Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
