package jwt

import (
	"Receipt-Tracker/domain"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const AccessTokenTTL = 15 * time.Minute

type (
	JWTService interface {
		GenerateAccessToken(userID string, telegramID int64) (string, error)
		ValidateAccessToken(token string) (*jwt.Token, error)
		GetUserByToken(token string) (string, int64, error)
	}

	jwtUserClaim struct {
		TelegramID int64  `json:"telegram_id"`
		UserID     string `json:"user_id"`
		jwt.RegisteredClaims
	}

	jwtService struct {
		secretKey string
		issuer    string
		ttl       time.Duration
		now       func() time.Time
	}
)

func NewJWTService(secretKey string) JWTService {
	return &jwtService{
		secretKey: secretKey,
		issuer:    "RECEIPT-TRACKER",
		ttl:       AccessTokenTTL,
		now:       time.Now,
	}
}

func (j *jwtService) GenerateAccessToken(userID string, telegramID int64) (string, error) {
	now := j.now()
	claims := jwtUserClaim{
		telegramID,
		userID,
		jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

func (j *jwtService) parseToken(t_ *jwt.Token) (any, error) {
	if _, ok := t_.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t_.Header["alg"])
	}
	return []byte(j.secretKey), nil
}

func (j *jwtService) ValidateAccessToken(token string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(token, &jwtUserClaim{}, j.parseToken)
}

// GetUserByToken returns the user id and telegram id carried by a valid token.
func (j *jwtService) GetUserByToken(token string) (string, int64, error) {
	t_Token, err := j.ValidateAccessToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", 0, domain.ErrTokenExpired
		}
		return "", 0, domain.ErrTokenInvalid
	}
	if !t_Token.Valid {
		return "", 0, domain.ErrTokenInvalid
	}

	claims, ok := t_Token.Claims.(*jwtUserClaim)
	if !ok || claims.UserID == "" {
		return "", 0, domain.ErrTokenInvalid
	}
	return claims.UserID, claims.TelegramID, nil
}
