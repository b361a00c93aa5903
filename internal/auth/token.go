package auth

import (
	"errors"
	"strings"
	"time"
)

// Typed credential failures raised by ExtractSubject. Verify deliberately
// reports a bare bool instead.
var (
	ErrMalformedCredential = errors.New("malformed authorization credential")
	ErrInvalidCredential   = errors.New("invalid or expired token")
)

// Exact prefix match, case-sensitive, single space.
const bearerPrefix = "Bearer "

// TokenManager issues and verifies bearer tokens. The secret and TTL are
// fixed at construction; the manager is stateless and safe for concurrent
// use from any number of request handlers.
type TokenManager struct {
	codec *Codec
	ttl   time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	return &TokenManager{
		codec: NewCodec(secret),
		ttl:   time.Duration(ttlMinutes) * time.Minute,
	}
}

// Issue signs a token binding the subject to the configured TTL.
func (tm *TokenManager) Issue(subject string) (string, time.Time, error) {
	issuedAt := time.Now()
	token, err := tm.codec.Encode(subject, issuedAt, tm.ttl)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, issuedAt.Add(tm.ttl), nil
}

// Verify reports whether the token is well formed, authentically signed and
// unexpired. It never reveals which of those checks failed. A token expiring
// exactly now counts as expired.
func (tm *TokenManager) Verify(token string) bool {
	claims, err := tm.codec.Decode(token)
	if err != nil {
		return false
	}
	return time.Now().Before(claims.ExpiresAt)
}

// ExtractSubject strips the bearer prefix from an Authorization header value
// and returns the verified subject. It fails with ErrMalformedCredential
// when the prefix is absent and ErrInvalidCredential when the remaining
// token does not decode, verify or is expired.
func (tm *TokenManager) ExtractSubject(authorizationHeader string) (string, error) {
	if !strings.HasPrefix(authorizationHeader, bearerPrefix) {
		return "", ErrMalformedCredential
	}

	claims, err := tm.codec.Decode(authorizationHeader[len(bearerPrefix):])
	if err != nil {
		return "", ErrInvalidCredential
	}
	if !time.Now().Before(claims.ExpiresAt) {
		return "", ErrInvalidCredential
	}
	return claims.Subject, nil
}

// TTL returns the configured token lifetime.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}
