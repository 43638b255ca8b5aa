package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/rand" // secure random number generation
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// Token decode failures. Callers map these onto HTTP responses: an
// expired token is reported distinctly so clients know to attempt a
// refresh, while everything else collapses into a generic credentials
// failure to avoid leaking token internals.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
	ErrNoSubject    = errors.New("token has no subject")
)

// NewToken builds and signs an HS256 JWT carrying the given subject and
// an absolute expiry of now+ttl. The same function issues both access
// and refresh tokens; the kind of a token is determined solely by which
// secret signed it, so the two secrets must be independent values.
func NewToken(secret, subject string, ttl time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().UTC().Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// ParseSubject verifies a token against the given secret and returns its
// subject claim. It fails with ErrTokenExpired when a correctly signed
// token has passed its expiry, ErrTokenInvalid when the token is
// corrupt, unsigned, signed with a different secret or a non-HMAC
// algorithm, and ErrNoSubject when the payload carries no usable
// subject.
func ParseSubject(secret, token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}
	if !tok.Valid {
		return "", ErrTokenInvalid
	}
	if claims.Subject == "" {
		return "", ErrNoSubject
	}
	return claims.Subject, nil
}

// RandomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data. It seeds the unrecoverable
// placeholder passwords assigned to accounts created via Google login.
func RandomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
