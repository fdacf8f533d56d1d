package sessions

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/KaranKool/mishtee-mitra/internal/utils"
)

// TokenSigner issues and checks the HS256 token carried by the session
// cookie. The token only names the session; all state stays server-side.
type TokenSigner struct {
	key    []byte
	issuer string
	ttl    time.Duration
}

func NewTokenSigner(key []byte, issuer string, ttl time.Duration) (*TokenSigner, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("%w: empty session signing key", utils.ErrInvalidConfig)
	}
	return &TokenSigner{key: key, issuer: issuer, ttl: ttl}, nil
}

// RandomKey returns a 32 byte key for processes started without one.
func RandomKey() ([]byte, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}

func (s *TokenSigner) TTL() time.Duration {
	return s.ttl
}

func (s *TokenSigner) Issue(sessionID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

// Parse validates token and returns the session id it names.
func (s *TokenSigner) Parse(token string) (string, error) {
	var claims jwt.RegisteredClaims
	tok, err := jwt.ParseWithClaims(
		token,
		&claims,
		func(t *jwt.Token) (any, error) { return s.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", utils.ErrInvalidSession, err)
	}
	if !tok.Valid || claims.Subject == "" {
		return "", utils.ErrInvalidSession
	}
	return claims.Subject, nil
}

// IsExpired reports whether err came from an expired token.
func IsExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}
