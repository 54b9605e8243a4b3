package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeApplication = "application"
	issuer               = "umeloans-lead-capture"
)

var ErrInvalidToken = errors.New("invalid application token")

// Claims identify a verified lead. Subject is the lead id.
type Claims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// TokenService signs and checks the application tokens handed out after a
// successful email verification.
type TokenService struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	key := []byte(secret)
	if len(key) < 32 {
		return nil, fmt.Errorf("secret key must be at least 32 bytes")
	}
	return &TokenService{secretKey: key, ttl: ttl, now: time.Now}, nil
}

func (s *TokenService) Issue(leadID string) (string, error) {
	now := s.now()
	claims := &Claims{
		Type: TokenTypeApplication,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   leadID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign application token: %w", err)
	}
	return signed, nil
}

// Verify parses tokenString and returns its claims when the signature,
// expiry and token type all check out.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Type != TokenTypeApplication || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
