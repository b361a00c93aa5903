package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Decode failures. Structure and signature problems stay distinct here;
// callers decide how much of that distinction to expose.
var (
	ErrMalformedToken    = errors.New("malformed token")
	ErrSignatureMismatch = errors.New("token signature mismatch")
)

// TokenClaims is the decoded assertion carried by a token.
type TokenClaims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Codec encodes and decodes signed identity assertions as compact HS256
// JWTs. It holds no clock: expiry comparison belongs to the caller, which
// keeps encode/decode pure.
type Codec struct {
	secret []byte
}

// NewCodec builds a codec over the shared signing secret.
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Encode signs subject, issuedAt and issuedAt+ttl into a token string. The
// jti claim makes every issuance distinct even for the same subject within
// the same second.
func (c *Codec) Encode(subject string, issuedAt time.Time, ttl time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		ID:        uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode checks the signature and returns the embedded claims without
// evaluating expiry.
func (c *Codec) Decode(token string) (*TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, ErrSignatureMismatch
		}
		return nil, ErrMalformedToken
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return nil, ErrMalformedToken
	}
	return &TokenClaims{
		Subject:   claims.Subject,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
