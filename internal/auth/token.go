// Package auth checks the shared admin secret and issues the signed session
// token the HTTP boundary accepts for catalog mutations.
package auth

import (
	"crypto/subtle"
	"strings"
	"time"

	"storefront/internal/apperr"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v4"
)

const RoleAdmin = "admin"

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	secret     string
	signingKey []byte
	ttl        time.Duration
	now        func() time.Time
}

func NewTokenIssuer(secret, signingKey string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:     secret,
		signingKey: []byte(signingKey),
		ttl:        ttl,
		now:        time.Now,
	}
}

// CheckSecret compares against the shared secret.
func (i *TokenIssuer) CheckSecret(secret string) error {
	if subtle.ConstantTimeCompare([]byte(secret), []byte(i.secret)) != 1 {
		return apperr.ErrAuth
	}
	return nil
}

// Login checks the secret and returns a signed admin token.
func (i *TokenIssuer) Login(secret string) (string, time.Time, error) {
	if err := i.CheckSecret(secret); err != nil {
		return "", time.Time{}, err
	}
	if len(i.signingKey) == 0 {
		return "", time.Time{}, errors.New("session signing key is not configured")
	}

	now := i.now()
	expires := now.Add(i.ttl)
	claims := Claims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   RoleAdmin,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.signingKey)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "sign token")
	}
	return token, expires, nil
}

// Verify accepts a raw token or an "Authorization: Bearer ..." value.
func (i *TokenIssuer) Verify(raw string) (*Claims, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "Bearer "))
	if raw == "" || len(i.signingKey) == 0 {
		return nil, apperr.ErrAuth
	}

	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return i.signingKey, nil
	})
	if err != nil {
		return nil, errors.Wrap(apperr.ErrAuth, err.Error())
	}
	if claims.Role != RoleAdmin {
		return nil, apperr.ErrAuth
	}
	return claims, nil
}
