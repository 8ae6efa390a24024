package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is a signed token proving a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// Claims represents JWT payload.
type Claims struct {
	Subject string `json:"sub"`
	jwt.RegisteredClaims
}

// Issue signs a session token for subject.
func Issue(subject, issuer, key string, ttl time.Duration) (Session, error) {
	now := time.Now()
	exp := now.Add(ttl)
	claims := Claims{
		Subject: subject,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, ExpiresAt: exp}, nil
}

// Parse validates a token and returns claims.
func Parse(tokenStr, key, issuer string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(key), nil
	})
	if err != nil {
		return Claims{}, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Claims{}, errors.New("invalid token")
	}
	if issuer != "" && claims.Issuer != issuer {
		return Claims{}, errors.New("issuer mismatch")
	}
	return *claims, nil
}
